// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation, which keeps credentials out of the file itself. See
// configs/analyzer.example.yaml for the full schema.
package config
