// Package config provides configuration loading and validation for the
// storypipe runner.
//
// It uses Viper to load configuration from an optional config.yml and from
// environment variables, with a godotenv-backed .env file layered in between.
// Values resolve file < .env < process environment.
package config
