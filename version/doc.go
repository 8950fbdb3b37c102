// Package version reports the mdpsolve build.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/mdpsolve/version.Version=1.2.0" ./cmd/mdpsolve
package version
