package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/spdxscan/internal/config"
	"github.com/ludo-technologies/spdxscan/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a spdxscan configuration file",
		Long: `Generate a documented spdxscan configuration file with sensible defaults.

By default, creates ` + constants.ConfigFileName + ` in the current directory with
full documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create ` + constants.ConfigFileName + ` in current directory
  spdxscan init

  # Custom output path
  spdxscan init --config custom.yaml

  # Overwrite existing file
  spdxscan init --force

  # Generate smaller config with essential options only
  spdxscan init --minimal

  # Interactive setup wizard
  spdxscan init --interactive
  spdxscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().StringP("license", "l", "MIT",
		"Default license identifier for the correct command")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	// Get flag values from command
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	licenseID, _ := cmd.Flags().GetString("license")

	policy := config.PolicyLenient

	// Run interactive setup if requested
	if interactive {
		var err error
		licenseID, policy, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	// Check if file exists
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	// Check if parent directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	// Generate config content
	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(licenseID, policy)
	}

	// Write to file
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Print success message with absolute path if possible, otherwise use relative path
	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'spdxscan scan .' to check your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (string, config.Policy, string, error) {
	fmt.Println()
	fmt.Println("spdxscan Configuration Setup")
	fmt.Println("============================")
	fmt.Println()

	// License selection
	licenses := []struct {
		Label string
		Value string
	}{
		{"MIT", "MIT"},
		{"Apache-2.0", "Apache-2.0"},
		{"GPL-3.0-only", "GPL-3.0-only"},
		{"BSD-3-Clause", "BSD-3-Clause"},
		{"MPL-2.0", "MPL-2.0"},
		{"ISC", "ISC"},
	}

	licenseTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	licensePrompt := promptui.Select{
		Label:     "Which license do new headers use?",
		Items:     licenses,
		Templates: licenseTemplates,
	}

	licenseIdx, _, err := licensePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("license selection cancelled: %w", err)
	}
	selectedLicense := licenses[licenseIdx].Value

	fmt.Println()

	// Policy selection
	policies := []struct {
		Label       string
		Description string
		Value       config.Policy
	}{
		{"Lenient (recommended)", "Unknown identifiers are warnings", config.PolicyLenient},
		{"Strict", "Unknown identifiers fail the scan, for CI/CD enforcement", config.PolicyStrict},
	}

	policyTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	policyPrompt := promptui.Select{
		Label:     "How strict should validation be?",
		Items:     policies,
		Templates: policyTemplates,
	}

	policyIdx, _, err := policyPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("policy selection cancelled: %w", err)
	}
	selectedPolicy := policies[policyIdx].Value

	fmt.Println()

	// Output path prompt
	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}

	// Use default if empty
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedLicense, selectedPolicy, outputPath, nil
}
