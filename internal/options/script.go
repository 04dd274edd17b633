package options

import (
	"regexp"

	"github.com/argus-ci/argus-cli/internal/util"
)

// Script commands are tokenized on whitespace, equals signs and quotes, so
// "storybook dev -p=9009" and `storybook dev -p "9009"` both yield the port.
var commandSeparators = regexp.MustCompile(`[\s='"]+`)

func splitCommand(command string) []string {
	return commandSeparators.Split(command, -1)
}

// scrapeFlag reports whether any of the given flag names appears as a token
// in the script command.
func scrapeFlag(command string, names ...string) bool {
	for _, part := range splitCommand(command) {
		for _, name := range names {
			if part == name {
				return true
			}
		}
	}
	return false
}

// scrapeFlagValue returns the token following the first occurrence of any of
// the given flag names, or "" when the flag is absent or has no value.
func scrapeFlagValue(command string, names ...string) string {
	parts := splitCommand(command)
	for i, part := range parts {
		for _, name := range names {
			if part == name && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return ""
}

// scrapeHTTPS extracts the dev server's TLS setup from a script command.
// Returns nil when the script does not pass --https. Certificate paths may
// use a ~ prefix, which is expanded against the given home directory.
func scrapeHTTPS(command, home string) *HTTPS {
	if !scrapeFlag(command, "--https") {
		return nil
	}
	return &HTTPS{
		Cert: util.ExpandHome(scrapeFlagValue(command, "--ssl-cert"), home),
		Key:  util.ExpandHome(scrapeFlagValue(command, "--ssl-key"), home),
		CA:   util.ExpandHome(scrapeFlagValue(command, "--ssl-ca"), home),
	}
}
