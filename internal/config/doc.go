// Package config provides configuration structures and utilities for docdown.
// It defines the crawl options populated from CLI flags or interactive
// prompts, and loads optional per-site overrides from a YAML file.
package config
