package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the audit log (requires admin credentials)",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	eventsCmd.Flags().IntP("limit", "l", 20, "Maximum number of events to return")
	rootCmd.AddCommand(eventsCmd)
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	client, err := apiClient(true)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	resp, err := client.Events(limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tENTRY\tDETAIL\tAT")
	for _, e := range resp.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", e.ID, e.Type, e.EntityID, e.Detail, e.CreatedAt)
	}
	_ = w.Flush()
	fmt.Printf("\n%d of %d events\n", len(resp.Items), resp.Total)
	return nil
}
