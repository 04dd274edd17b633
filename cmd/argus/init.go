package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/argus-ci/argus-cli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.FileName + " in the current directory",
	Run:   runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// Keys the resolver reads most often; everything else falls back to flags
// and ARGUS_* environment variables.
const configTemplate = `{
  "project-token": "",
  "build-script-name": "build-storybook"
}
`

func runInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(config.FileName); err == nil && !boolFlag(cmd, "force") {
		FatalErrorWithHint(
			fmt.Sprintf("%s already exists", config.FileName),
			"Pass --force to overwrite it",
		)
	}

	if err := os.WriteFile(config.FileName, []byte(configTemplate), 0644); err != nil {
		FatalError("failed to write %s: %v", config.FileName, err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Wrote %s\n", green("✓"), config.FileName)
	fmt.Println("Add your project token or export ARGUS_PROJECT_TOKEN before publishing.")
}
