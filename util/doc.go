// Package util holds small parsing helpers shared by the config and server
// packages.
package util
