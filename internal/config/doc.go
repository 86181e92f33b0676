// Package config loads, normalizes, and validates iiifgen configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies environment overrides such as
// TEXTREPO_API_KEY. Base URLs are normalized to end in a single slash so
// resource identifiers can be derived by concatenation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
