package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dmm/internal/mods"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <mod-id>",
	Short: "Delete a mod from disk",
	Long: `Remove a mod's VPK file, any sibling archive parts sharing its base
name, and its stored metadata. This cannot be undone.

Examples:
  dmm delete 1a2b3c4d5e6f7a8b
  dmm delete 1a2b3c4d5e6f7a8b --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	mod, err := mods.FindByID(root, args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		fmt.Printf("Delete %s (%s)? [y/N] ", mod.Name, mod.FileName)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			return ErrCancelled
		}
	}

	deleted, err := mods.Delete(root, args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err == nil {
		_ = store.Delete(deleted.FileName)
		_ = store.Close()
	}

	fmt.Printf("Deleted %s\n", deleted.FileName)
	return nil
}
