package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dmm/internal/game"
)

var gameinfoCmd = &cobra.Command{
	Use:   "gameinfo",
	Short: "Inspect or patch gameinfo.gi for addon mounting",
	Long: `Deadlock only mounts the addons directory when gameinfo.gi declares
it in the FileSystem search paths. 'status' reports whether the patch is
present; 'fix' splices it in.`,
}

var gameinfoStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether gameinfo.gi mounts addons",
	RunE:  runGameinfoStatus,
}

var gameinfoFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Patch gameinfo.gi to mount addons",
	RunE:  runGameinfoFix,
}

func init() {
	gameinfoCmd.AddCommand(gameinfoStatusCmd)
	gameinfoCmd.AddCommand(gameinfoFixCmd)

	rootCmd.AddCommand(gameinfoCmd)
}

func runGameinfoStatus(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	configured, err := game.CheckGameinfo(root)
	if err != nil {
		return err
	}
	if configured {
		fmt.Println(colorGreen("gameinfo.gi mounts the addons directory."))
	} else {
		fmt.Println(colorYellow("gameinfo.gi does not mount addons; run 'dmm gameinfo fix'"))
	}
	return nil
}

func runGameinfoFix(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	if err := game.FixGameinfo(root); err != nil {
		return err
	}
	fmt.Println("Patched gameinfo.gi; mods will be mounted on next launch.")
	return nil
}
