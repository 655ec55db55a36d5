package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/spdxscan/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spdxscan",
		Short: "spdxscan - SPDX license header scanner",
		Long: `spdxscan checks source trees for SPDX license headers.
It finds SPDX-License-Identifier declarations in comments, validates the
license expressions, and reports which files are compliant, invalid or
missing a header.`,
		Version: Version,
	}

	// Add subcommands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(correctCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		// Handle custom exit codes from the scan command
		if exitErr, ok := err.(*ScanExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Silently exit with the specified code (output already printed)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("spdxscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
