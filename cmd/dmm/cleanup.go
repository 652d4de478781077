package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dmm/internal/mods"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove leftover container archives from the addons tree",
	Long: `Delete .zip, .7z, and .rar files left behind in the addons and
.disabled directories after extraction. Installed VPKs are not touched.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	removed, err := mods.RemoveLeftoverArchives(root)
	if err != nil {
		return err
	}
	if removed == 0 {
		fmt.Println("Nothing to clean up.")
		return nil
	}
	fmt.Printf("Removed %d leftover archive(s)\n", removed)
	return nil
}
