package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dmm/internal/domain"
	"dmm/internal/game"
	"dmm/internal/logging"
	"dmm/internal/mods"
	"dmm/internal/storage/config"
	"dmm/internal/storage/metadata"
)

// ErrCancelled is returned when the user declines a prompt. When
// returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

var (
	version = "1.0.0"

	// Global flags
	configDir  string
	gamePath   string
	verbose    bool
	jsonOutput bool
	noColor    bool
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "dmm",
	Short: "Deadlock Mod Manager - manage Deadlock addon VPKs from the terminal",
	Long: `dmm manages Deadlock's addons directory: installing mods from
GameBanana, assigning pakNN_ load-order slots, enabling/disabling mods,
and detecting load-order and file conflicts.

Use subcommands for operations. Run 'dmm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity := 0
		if verbose {
			verbosity = 1
		}
		logging.Setup(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/dmm)")
	rootCmd.PersistentFlags().StringVar(&gamePath, "game-path", "", "Deadlock installation root (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, conflicts, browse)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// colorEnabled respects --no-color and the NO_COLOR env convention.
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiGreen + s + ansiReset
}

func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error,
// 2 = user cancelled. With --json, errors print as {"error":"..."}.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// resolveConfigDir returns the --config override or the default
// per-user config directory.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return config.DefaultConfigDir()
}

// loadSettings reads the user configuration.
func loadSettings() (*config.Settings, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// resolveRoot finds the Deadlock installation to operate on, in order:
// the --game-path flag, the configured game_path, then auto-detection.
func resolveRoot() (string, error) {
	if gamePath != "" {
		if !game.IsValidInstall(gamePath) {
			return "", fmt.Errorf("%s is not a Deadlock installation (no game/citadel)", gamePath)
		}
		return gamePath, nil
	}

	settings, err := loadSettings()
	if err == nil && settings.GamePath != "" && game.IsValidInstall(settings.GamePath) {
		return settings.GamePath, nil
	}

	if root, ok := game.DetectInstall(); ok {
		return root, nil
	}
	return "", fmt.Errorf("%w; use --game-path or 'dmm detect --save'", domain.ErrGameNotFound)
}

// openStore opens the metadata database in the per-user data directory.
func openStore() (*metadata.Store, error) {
	dataDir, err := config.DefaultDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return metadata.Open(filepath.Join(dataDir, "metadata.db"))
}

// loadModsWithMetadata scans the addons tree and joins stored metadata.
func loadModsWithMetadata(root string, store *metadata.Store) ([]domain.Mod, error) {
	scanned, err := mods.Scan(root)
	if err != nil {
		return nil, err
	}
	if store != nil {
		all, err := store.GetAll()
		if err != nil {
			return nil, err
		}
		for i := range scanned {
			scanned[i].ApplyMetadata(all[scanned[i].FileName])
		}
	}
	return scanned, nil
}
