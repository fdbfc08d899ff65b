// Package config loads and validates orderd's YAML configuration, with
// ${ENV_VAR} expansion so secrets can stay out of the file on disk.
package config
