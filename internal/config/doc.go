// Package config loads and validates strada.json, the project
// configuration file the CLI reads to locate the routes directory and
// configure the server.
package config
