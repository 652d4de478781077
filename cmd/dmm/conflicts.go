package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dmm/internal/conflicts"
	"dmm/internal/domain"
	"dmm/internal/mods"
)

type conflictJSON struct {
	ModA   string `json:"mod_a"`
	ModB   string `json:"mod_b"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect load-order and file conflicts between enabled mods",
	Long: `Cross-reference the enabled mods two ways: pak slot collisions
(two mods sharing a load-order number) and content collisions (two VPKs
declaring the same internal file path, where the later slot silently
wins at runtime).

Examples:
  dmm conflicts
  dmm conflicts --json`,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	found, err := conflicts.Detect(root)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := make([]conflictJSON, len(found))
		for i, c := range found {
			out[i] = conflictJSON{ModA: c.ModA, ModB: c.ModB, Kind: string(c.Kind), Detail: c.Detail}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(found) == 0 {
		fmt.Println(colorGreen("No conflicts found."))
		return nil
	}

	// Resolve ids to display names for readable output.
	names := make(map[string]string)
	if scanned, err := mods.Scan(root); err == nil {
		for _, m := range scanned {
			names[m.ID] = m.Name
		}
	}
	display := func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return id
	}

	fmt.Printf("Found %d conflict(s):\n\n", len(found))
	for _, c := range found {
		label := colorYellow("slot")
		if c.Kind == domain.ConflictContent {
			label = colorRed("content")
		}
		fmt.Printf("  [%s] %s ↔ %s\n", label, display(c.ModA), display(c.ModB))
		fmt.Printf("    %s\n", c.Detail)
	}
	return nil
}
