package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/argus-ci/argus-cli/internal/config"
)

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		FatalError("failed to encode JSON: %v", err)
	}
}

// outputYAML writes v to stdout as YAML.
func outputYAML(v interface{}) {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		FatalError("failed to encode YAML: %v", err)
	}
	_ = enc.Close()
}

// Flag accessors that merge viper values (config file + env vars) into flags
// that weren't explicitly set on the command line.
// Priority: flags > viper (config file + env vars) > defaults.

func stringFlag(cmd *cobra.Command, name string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return config.GetString(name)
}

func boolFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return config.GetBool(name)
}

func stringArrayFlag(cmd *cobra.Command, name string) []string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetStringArray(name)
		return v
	}
	if v := config.GetStringSlice(name); len(v) > 0 {
		return v
	}
	if v := config.GetString(name); v != "" {
		return []string{v}
	}
	return nil
}

// optionalValueFlag reads a flag that may be given bare or with a value.
// nil means absent; "" means the flag was given bare; anything else is its
// argument. Config booleans map onto the same scheme: true is the bare
// form, false is absent.
func optionalValueFlag(cmd *cobra.Command, name string) *string {
	var raw string
	if cmd.Flags().Changed(name) {
		raw, _ = cmd.Flags().GetString(name)
	} else {
		raw = config.GetString(name)
		if raw == "" || raw == "false" {
			return nil
		}
	}
	if raw == "true" {
		raw = ""
	}
	return &raw
}
