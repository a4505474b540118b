// Package config loads, validates and persists the user settings.
//
// Settings live in a JSON file under the user's configuration directory
// and every field can be overridden through a YTMGRAB_ prefixed
// environment variable.
package config
