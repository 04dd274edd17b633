package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argus-ci/argus-cli/internal/ci"
	"github.com/argus-ci/argus-cli/internal/env"
)

var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Show the detected CI provider and its build metadata",
	Long: `Inspects the environment the same way publish does and reports which CI
provider was detected, along with the branch, commit, and repository slug
it exposes. Useful when a pipeline resolves to an unexpected branch.`,
	Run: runCI,
}

func init() {
	ciCmd.Flags().Bool("services", false, "List the detectable CI providers instead")
	ciCmd.Flags().StringP("output-format", "o", "", "Machine readable output (json|yaml)")
	rootCmd.AddCommand(ciCmd)
}

func runCI(cmd *cobra.Command, args []string) {
	if boolFlag(cmd, "services") {
		for _, service := range ci.Services() {
			fmt.Println(service)
		}
		return
	}

	info := ci.Detect(env.System())

	switch format := stringFlag(cmd, "output-format"); format {
	case "":
		printCIInfo(info)
	case "json":
		outputJSON(info)
	case "yaml":
		outputYAML(info)
	default:
		FatalError("unsupported output format %q; use json or yaml", format)
	}
}

func printCIInfo(info ci.Info) {
	if !info.IsCI {
		fmt.Println("Not running under a known CI provider")
		return
	}
	service := info.Service
	if service == "" {
		service = "unknown (generic CI variable set)"
	}
	fmt.Printf("Service    %s\n", service)
	if info.Branch != "" {
		fmt.Printf("Branch     %s\n", info.Branch)
	}
	if info.PrBranch != "" {
		fmt.Printf("PR branch  %s\n", info.PrBranch)
	}
	if info.Commit != "" {
		fmt.Printf("Commit     %s\n", info.Commit)
	}
	if info.Slug != "" {
		fmt.Printf("Repository %s\n", info.Slug)
	}
	if info.IsPr {
		fmt.Println("Pull request build")
	}
}
