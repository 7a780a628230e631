package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status",
	Long: `Show server status: entry count and which optional features
(ingestion, admin API) are enabled.`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client, err := apiClient(false)
	if err != nil {
		return err
	}

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Printf("Server:    %s\n", serverURL)
	fmt.Printf("Status:    %s\n", status.Status)
	fmt.Printf("Entries:   %d\n", status.Entries)
	fmt.Printf("Ingestion: %s\n", onOff(status.IngestionEnabled))
	fmt.Printf("Admin:     %s\n", onOff(status.AdminEnabled))
	return nil
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
