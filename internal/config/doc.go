// Package config manages the per-repository restack configuration.
//
// The config lives in the git directory as JSON and is read through viper, so
// every key can be overridden from the environment with a RESTACK_ prefix.
package config
