package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dmm/internal/mods"
	"dmm/internal/paks"
)

var priorityCmd = &cobra.Command{
	Use:   "priority <mod-id> <slot>",
	Short: "Change a mod's load-order slot",
	Long: `Rename a mod's pakNN_ prefix to the given two-digit slot. Lower
slots load earlier; later slots win file conflicts. The mod keeps the
rest of its filename, but its id changes with the new name.

Examples:
  dmm priority 1a2b3c4d5e6f7a8b 7
  dmm priority 1a2b3c4d5e6f7a8b 99`,
	Args: cobra.ExactArgs(2),
	RunE: runPriority,
}

func init() {
	rootCmd.AddCommand(priorityCmd)
}

func runPriority(cmd *cobra.Command, args []string) error {
	slot, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid slot %q: must be a number in %d-%d",
			args[1], paks.MinPriority, paks.MaxPriority)
	}

	root, err := resolveRoot()
	if err != nil {
		return err
	}

	mod, err := mods.FindByID(root, args[0])
	if err != nil {
		return err
	}
	oldName := mod.FileName

	updated, err := mods.SetPriority(root, args[0], slot)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err == nil {
		_ = store.Rename(oldName, updated.FileName)
		_ = store.Close()
	}

	fmt.Printf("Moved %s to pak%02d (new id %s)\n", updated.FileName, updated.Priority, updated.ID)
	return nil
}
