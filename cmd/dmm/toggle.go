package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dmm/internal/mods"
)

var enableCmd = &cobra.Command{
	Use:   "enable <mod-id>",
	Short: "Enable a mod",
	Long: `Move a mod from the .disabled directory into addons so the game
mounts it.

Find mod ids with 'dmm list'.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

var disableCmd = &cobra.Command{
	Use:   "disable <mod-id>",
	Short: "Disable a mod",
	Long: `Move a mod from addons into the .disabled directory. Its pak slot
stays reserved so re-enabling restores the same load order.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	mod, err := mods.Enable(root, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Enabled %s (pak%02d)\n", mod.FileName, mod.Priority)
	return nil
}

func runDisable(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	mod, err := mods.Disable(root, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Disabled %s (pak%02d)\n", mod.FileName, mod.Priority)
	return nil
}
