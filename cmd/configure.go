package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weni-ai/conversation-analyzer/pkg/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save default credentials",
	Long: `Store the bearer token and project UUID so analysis runs can omit
--token and --project-uuid. Values passed as flags on a run still win.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		projectUUID, _ := cmd.Flags().GetString("project-uuid")

		if err := config.ValidateToken(token); err != nil {
			return err
		}
		if err := config.ValidateProjectUUID(projectUUID); err != nil {
			return err
		}

		// Merge with the stored values so one flag can be updated
		// without retyping the other.
		fc, err := config.GetFileConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if token != "" {
			fc.BearerToken = token
		}
		if projectUUID != "" {
			fc.ProjectUUID = projectUUID
		}

		if err := config.SaveFileConfig(fc); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Println("=== Analyzer Configuration Updated ===")
		fmt.Println()
		if fc.BearerToken != "" {
			fmt.Printf("Bearer token: %s\n", config.MaskToken(fc.BearerToken))
		} else {
			fmt.Println("Bearer token: (not set)")
		}
		if fc.ProjectUUID != "" {
			fmt.Printf("Project UUID: %s\n", fc.ProjectUUID)
		} else {
			fmt.Println("Project UUID: (not set)")
		}
		fmt.Println()
		fmt.Printf("Saved to %s\n", configPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().String("token", "", "Bearer token to store")
	configureCmd.Flags().String("project-uuid", "", "Project UUID to store")
}
