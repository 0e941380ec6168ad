// Package config loads, validates and writes the quellcode configuration
// file.
//
// The file is YAML, validated against the embedded JSON schema before it is
// decoded, so errors point at the offending line of the user's file.
package config
