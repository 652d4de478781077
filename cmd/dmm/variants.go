package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dmm/internal/variants"
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List installed cosmetic variant presets",
	Long: `Multi-variant cosmetic packs install one clothing preset at a time
next to a shared texture archive. This lists the presets and textures
found in the addons tree and marks the active preset.`,
	RunE: runVariantsList,
}

var variantsUseCmd = &cobra.Command{
	Use:   "use <preset-file>",
	Short: "Activate one clothing preset",
	Long: `Move the chosen preset into addons, park every other preset in
.disabled, and enable the shared texture archives alongside it.

Example:
  dmm variants use clothing_preset_cozy.vpk`,
	Args: cobra.ExactArgs(1),
	RunE: runVariantsUse,
}

func init() {
	variantsCmd.AddCommand(variantsUseCmd)

	rootCmd.AddCommand(variantsCmd)
}

func runVariantsList(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inv, err := variants.Installed(root, store)
	if err != nil {
		return err
	}
	if len(inv.Presets) == 0 && len(inv.Textures) == 0 {
		fmt.Println("No variant presets installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tFILE\tACTIVE")
	fmt.Fprintln(w, "----\t----\t------")
	for _, p := range inv.Presets {
		active := ""
		if p.Enabled {
			active = colorGreen("yes")
		}
		fmt.Fprintf(w, "preset\t%s\t%s\n", p.FileName, active)
	}
	for _, t := range inv.Textures {
		active := ""
		if t.Enabled {
			active = colorGreen("yes")
		}
		fmt.Fprintf(w, "texture\t%s\t%s\n", t.FileName, active)
	}
	w.Flush()

	fmt.Println("\nSwitch with 'dmm variants use <preset-file>'.")
	return nil
}

func runVariantsUse(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := variants.SetPreset(root, store, args[0]); err != nil {
		return err
	}
	fmt.Printf("Activated %s\n", colorGreen(args[0]))
	return nil
}
