package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dmm/internal/domain"
	"dmm/internal/game"
)

var detectSave bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Locate the Deadlock installation",
	Long: `Search the known Steam library locations for a Deadlock install.

Examples:
  dmm detect
  dmm detect --save`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectSave, "save", false, "save the detected path to the config file")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	root, ok := game.DetectInstall()
	if !ok {
		return domain.ErrGameNotFound
	}

	fmt.Println(root)

	configured, err := game.CheckGameinfo(root)
	if err == nil && !configured {
		fmt.Println(colorYellow("gameinfo.gi is not configured for addons; run 'dmm gameinfo fix'"))
	}

	if detectSave {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		settings.GamePath = root
		if err := settings.Save(dir); err != nil {
			return err
		}
		fmt.Printf("Saved game path to %s\n", dir)
	}
	return nil
}
