// Package config loads, validates, and normalizes lectern's TOML
// configuration, providing defaults plus helpers for directories and derived
// runtime paths.
package config
