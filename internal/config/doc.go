// Package config provides configuration management for statebridge.
//
// Configuration is loaded from environment variables using the env
// package, with an optional `.env` file for local development. All
// values have defaults suitable for running without a sidecar.
package config
