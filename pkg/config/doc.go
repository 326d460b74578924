// Package config provides the server configuration types and the loading
// of endpoint collections from JSON or YAML files.
package config
