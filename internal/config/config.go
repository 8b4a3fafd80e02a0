// Package config provides viper-backed configuration helpers for the
// compatdex CLI.
package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/tweaklab/compatdex/pkg/errors"
)

// Configuration keys and defaults.
const (
	KeyOwner   = "owner"
	KeyRepo    = "repo"
	KeyDataDir = "data-dir"
	KeyToken   = "GITHUB_API_TOKEN"

	DefaultOwner   = "jlippold"
	DefaultRepo    = "tweakCompatible"
	DefaultDataDir = "./data"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Settings is the resolved process configuration.
type Settings struct {
	Owner   string
	Repo    string
	Token   string
	DataDir string
}

// Load resolves settings from viper configuration and the environment.
func Load() *Settings {
	s := &Settings{
		Owner:   GetString(KeyOwner),
		Repo:    GetString(KeyRepo),
		Token:   GetString(KeyToken),
		DataDir: GetString(KeyDataDir),
	}
	if s.Owner == "" {
		s.Owner = DefaultOwner
	}
	if s.Repo == "" {
		s.Repo = DefaultRepo
	}
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	return s
}

// RequireToken returns the tracker API token, or an error when it is not
// configured. Only modes with tracker side effects need it.
func (s *Settings) RequireToken() (string, error) {
	if s.Token == "" {
		return "", &errors.ConfigError{
			Component: "tracker",
			Message:   "environment variable " + KeyToken + " not set",
			Err:       errors.ErrTokenRequired,
		}
	}
	return s.Token, nil
}
