package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dmm/internal/source/gamebanana"
)

var (
	browsePage     int
	browsePerPage  int
	browseSection  string
	browseCategory int64
	browseNSFW     bool
)

type browseJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Submitter string `json:"submitter,omitempty"`
	NSFW      bool   `json:"nsfw,omitempty"`
}

var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Browse or search the GameBanana catalog",
	Long: `List Deadlock submissions from GameBanana, optionally filtered by a
search query, section, or category.

Examples:
  dmm browse
  dmm browse abrams
  dmm browse --section Sound --page 2`,
	Args: cobra.ArbitraryArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "result page")
	browseCmd.Flags().IntVar(&browsePerPage, "per-page", 15, "results per page")
	browseCmd.Flags().StringVar(&browseSection, "section", "Mod", "submission section (Mod, Sound, Spray...)")
	browseCmd.Flags().Int64Var(&browseCategory, "category", 0, "category id filter")
	browseCmd.Flags().BoolVar(&browseNSFW, "nsfw", false, "include adult-flagged listings")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	showNSFW := browseNSFW
	if settings, err := loadSettings(); err == nil && settings.ShowNSFW {
		showNSFW = true
	}

	client := gamebanana.NewClient(nil)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	page, err := client.Browse(ctx, gamebanana.BrowseQuery{
		Section:    browseSection,
		Page:       browsePage,
		PerPage:    browsePerPage,
		Search:     strings.Join(args, " "),
		CategoryID: browseCategory,
	})
	if err != nil {
		return err
	}

	visible := make([]gamebanana.Mod, 0, len(page.Records))
	for _, m := range page.Records {
		if m.NSFW && !showNSFW {
			continue
		}
		visible = append(visible, m)
	}

	if jsonOutput {
		out := make([]browseJSON, len(visible))
		for i, m := range visible {
			out[i] = browseJSON{ID: m.ID, Name: m.Name, Category: m.Category, Submitter: m.Submitter, NSFW: m.NSFW}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(visible) == 0 {
		fmt.Println("No results.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSUBMITTER")
	fmt.Fprintln(w, "--\t----\t--------\t---------")
	for _, m := range visible {
		name := truncate(m.Name, 40)
		if m.NSFW {
			name += " " + colorRed("[nsfw]")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, name, m.Category, m.Submitter)
	}
	w.Flush()

	fmt.Printf("\nPage %d · %d total. Install with 'dmm download <id>'.\n", browsePage, page.TotalCount)
	return nil
}
