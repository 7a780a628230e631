package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Browse and manage catalog entries",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE:  runEntriesList,
	}
	listCmd.Flags().StringP("type", "t", "", "Filter by type (movie, series)")
	listCmd.Flags().StringP("category", "c", "", "Filter by category")
	listCmd.Flags().StringP("query", "q", "", "Title substring search")
	listCmd.Flags().String("sort", "", "Sort order (title, newest, views)")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of items to return")
	listCmd.Flags().Int("offset", 0, "Listing offset")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry with links and episodes",
		Args:  cobra.ExactArgs(1),
		RunE:  runEntriesGet,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog entry (requires admin credentials)",
		RunE:  runEntriesAdd,
	}
	addCmd.Flags().StringP("type", "t", "movie", "Entry type (movie, series)")
	addCmd.Flags().String("title", "", "Entry title (required)")
	addCmd.Flags().String("language", "", "Language")
	addCmd.Flags().StringSlice("category", nil, "Category tag (repeatable)")
	addCmd.Flags().String("url", "", "Playback link URL")
	addCmd.Flags().String("quality", "HD", "Playback link quality label")
	_ = addCmd.MarkFlagRequired("title")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry (requires admin credentials)",
		Args:  cobra.ExactArgs(1),
		RunE:  runEntriesDelete,
	}

	entriesCmd.AddCommand(listCmd, getCmd, addCmd, deleteCmd)
	rootCmd.AddCommand(entriesCmd)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	client, err := apiClient(false)
	if err != nil {
		return err
	}

	entryType, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	query, _ := cmd.Flags().GetString("query")
	sort, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	resp, err := client.Entries(entryType, category, query, sort, limit, offset)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tLANGUAGE\tVIEWS")
	for _, e := range resp.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", e.ID, e.Type, e.Title, e.Language, e.Views)
	}
	_ = w.Flush()
	fmt.Printf("\n%d of %d entries\n", len(resp.Items), resp.Total)
	return nil
}

func runEntriesGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry ID: %s", args[0])
	}

	client, err := apiClient(false)
	if err != nil {
		return err
	}

	entry, err := client.Entry(id)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(entry)
		return nil
	}

	fmt.Printf("#%d %s (%s)\n", entry.ID, entry.Title, entry.Type)
	if entry.Language != "" {
		fmt.Printf("Language:   %s\n", entry.Language)
	}
	if len(entry.Categories) > 0 {
		fmt.Printf("Categories: %v\n", entry.Categories)
	}
	fmt.Printf("Views:      %d\n", entry.Views)

	for _, l := range entry.Links {
		mode := "embed"
		if l.Relay {
			mode = "relay " + l.WatchURL
		}
		fmt.Printf("Link [%s] %s (%s)\n", l.Quality, l.URL, mode)
	}
	for _, s := range entry.Seasons {
		fmt.Printf("Season %d: %d episodes\n", s.Season, len(s.Episodes))
	}
	return nil
}

func runEntriesAdd(cmd *cobra.Command, args []string) error {
	client, err := apiClient(true)
	if err != nil {
		return err
	}

	entryType, _ := cmd.Flags().GetString("type")
	title, _ := cmd.Flags().GetString("title")
	language, _ := cmd.Flags().GetString("language")
	categories, _ := cmd.Flags().GetStringSlice("category")
	linkURL, _ := cmd.Flags().GetString("url")
	quality, _ := cmd.Flags().GetString("quality")

	req := &AddEntryRequest{
		Type:       entryType,
		Title:      title,
		Language:   language,
		Categories: categories,
	}
	if linkURL != "" {
		req.Links = []map[string]any{{"quality": quality, "url": linkURL}}
	}

	entry, err := client.AddEntry(req)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(entry)
		return nil
	}
	fmt.Printf("created entry #%d: %s\n", entry.ID, entry.Title)
	return nil
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry ID: %s", args[0])
	}

	client, err := apiClient(true)
	if err != nil {
		return err
	}

	if err := client.DeleteEntry(id); err != nil {
		return err
	}
	fmt.Printf("deleted entry #%d\n", id)
	return nil
}
