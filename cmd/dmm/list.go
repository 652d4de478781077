package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listAll bool

type modJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
	Size     int64  `json:"size"`
	NSFW     bool   `json:"nsfw,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods in load order",
	Long: `List all mods found in the addons directory and its .disabled
sibling, ordered by pak priority.

Examples:
  dmm list
  dmm list --all --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", true, "include disabled mods")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	mods, err := loadModsWithMetadata(root, store)
	if err != nil {
		return err
	}
	if !listAll {
		kept := mods[:0]
		for _, m := range mods {
			if m.Enabled {
				kept = append(kept, m)
			}
		}
		mods = kept
	}

	if jsonOutput {
		out := make([]modJSON, len(mods))
		for i, m := range mods {
			out[i] = modJSON{
				ID:       m.ID,
				Name:     m.Name,
				FileName: m.FileName,
				Priority: m.Priority,
				Enabled:  m.Enabled,
				Size:     m.Size,
				NSFW:     m.NSFW,
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLOT\tNAME\tENABLED\tFILE")
	fmt.Fprintln(w, "--\t----\t----\t-------\t----")
	for _, m := range mods {
		enabled := colorGreen("yes")
		if !m.Enabled {
			enabled = colorRed("no")
		}
		fmt.Fprintf(w, "%s\tpak%02d\t%s\t%s\t%s\n",
			m.ID, m.Priority, truncate(m.Name, 40), enabled, m.FileName)
	}
	w.Flush()

	if verbose {
		fmt.Printf("\nTotal: %d mod(s)\n", len(mods))
	}
	return nil
}

// truncate shortens s to max runes, appending an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
