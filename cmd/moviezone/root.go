package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	adminUser  string
	adminPass  string
)

var rootCmd = &cobra.Command{
	Use:   "moviezone",
	Short: "CLI client for the moviezone catalog server",
	Long: `moviezone - CLI client for the moviezone catalog server

Browse the catalog, manage entries, and inspect the audit log.

Run 'moviezoned' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&adminUser, "username", os.Getenv("MOVIEZONE_USERNAME"), "Admin username (for write commands)")
	rootCmd.PersistentFlags().StringVar(&adminPass, "password", os.Getenv("MOVIEZONE_PASSWORD"), "Admin password (for write commands)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("moviezone {{.Version}}\n")
}

// apiClient builds a client from the persistent flags, logging in when
// admin credentials are present.
func apiClient(needAuth bool) (*Client, error) {
	c, err := NewClient(serverURL)
	if err != nil {
		return nil, err
	}
	if needAuth {
		if err := c.Login(adminUser, adminPass); err != nil {
			return nil, err
		}
	}
	return c, nil
}
