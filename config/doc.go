// Package config loads the mdpsolve configuration.
//
// Values come from a YAML file, a .env file and MDPSOLVE_* environment
// variables, in increasing order of precedence. Viper does the merging and
// godotenv reads the .env file.
//
//	cfg, err := config.Load("config.yml")
//
// Environment keys map to dotted paths, so MDPSOLVE_SOLVER_TOLERANCE sets
// solver.tolerance and MDPSOLVE_SERVER_PORT sets server.port.
package config
