package main

import (
	"github.com/spf13/cobra"

	"dmm/internal/download"
	"dmm/internal/source/gamebanana"
	"dmm/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal interface",
	Long: `Launch the full-screen interface: an installed-mods view with
load-order editing and conflict badges, and a GameBanana browser with
one-keystroke installs.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	showNSFW := false
	if settings, err := loadSettings(); err == nil {
		showNSFW = settings.ShowNSFW
	}

	queue := download.NewQueue(root, store, nil)
	defer queue.Close()

	return tui.Run(tui.Deps{
		Root:     root,
		Store:    store,
		Catalog:  gamebanana.NewClient(nil),
		Queue:    queue,
		ShowNSFW: showNSFW,
	})
}
