// Package config wires persistent configuration through viper. Values come
// from an argus.config.json in the project root, ARGUS_* environment
// variables, or explicit Set calls, in increasing order of precedence.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file discovered in the project root.
const FileName = "argus.config.json"

var v *viper.Viper

// Initialize sets up the viper instance. With an empty path the project root
// is searched for argus.config.json and a missing file is fine; an explicit
// path must exist. Keys use the flag spelling, so "project-token" binds to
// ARGUS_PROJECT_TOKEN.
func Initialize(configFile string) error {
	nv := viper.New()

	nv.SetDefault("project-token", "")
	nv.SetDefault("build-script-name", "")
	nv.SetDefault("script-name", "")
	nv.SetDefault("storybook-build-dir", "")
	nv.SetDefault("storybook-url", "")
	nv.SetDefault("storybook-port", "")
	nv.SetDefault("only-changed", "")
	nv.SetDefault("untraced", []string{})
	nv.SetDefault("externals", []string{})
	nv.SetDefault("auto-accept-changes", "")
	nv.SetDefault("exit-zero-on-changes", "")
	nv.SetDefault("exit-once-uploaded", "")
	nv.SetDefault("junit-report", "")
	nv.SetDefault("debug", false)
	nv.SetDefault("dry-run", false)

	nv.SetEnvPrefix("ARGUS")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()

	if configFile != "" {
		nv.SetConfigFile(configFile)
		if err := nv.ReadInConfig(); err != nil {
			return err
		}
	} else {
		nv.SetConfigName("argus.config")
		nv.SetConfigType("json")
		nv.AddConfigPath(".")
		if err := nv.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}

	v = nv
	return nil
}

// GetString returns the string value for key, or "" if uninitialized.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns the bool value for key, or false if uninitialized.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetStringSlice returns the slice value for key, or an empty slice if
// uninitialized.
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set stores a value for key. No-op if uninitialized.
func Set(key string, value interface{}) {
	if v == nil {
		return
	}
	v.Set(key, value)
}

// AllSettings returns every known setting, or an empty map if uninitialized.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// ConfigFileUsed reports the config file that was loaded, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}
