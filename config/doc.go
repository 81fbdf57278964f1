// Package config loads authkit service configuration from YAML files and
// environment variables using viper, with optional .env overlay.
//
// Settings is the top-level configuration aggregate: the logging and HTTP
// server sections plus the named OIDC provider map that feeds the
// strategy's configuration store.
//
//	var settings config.Settings
//	err := config.Load("authkit", &settings, config.WithConfigFile("config.yml"))
package config
