package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dmm/internal/download"
	"dmm/internal/source/gamebanana"
)

var (
	downloadFileID  int64
	downloadSection string
)

var downloadCmd = &cobra.Command{
	Use:   "download <gamebanana-id>",
	Short: "Download and install a mod from GameBanana",
	Long: `Fetch a submission's file from GameBanana, extract it if it is a
container archive, assign it a free pak slot, and store its metadata.
The mod lands in the .disabled directory; enable it with 'dmm enable'.

Examples:
  dmm download 612345
  dmm download 612345 --file-id 98765
  dmm download 4321 --section Sound`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().Int64Var(&downloadFileID, "file-id", 0, "specific file to download (default: first)")
	downloadCmd.Flags().StringVar(&downloadSection, "section", "Mod", "submission section")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	modID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid GameBanana id %q", args[0])
	}

	root, err := resolveRoot()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := gamebanana.NewClient(nil)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	details, err := client.GetModDetails(ctx, downloadSection, modID)
	cancel()
	if err != nil {
		return err
	}
	if len(details.Files) == 0 {
		return fmt.Errorf("%s has no downloadable files", details.Name)
	}

	file := details.Files[0]
	if downloadFileID != 0 {
		found := false
		for _, f := range details.Files {
			if f.ID == downloadFileID {
				file, found = f, true
				break
			}
		}
		if !found {
			return fmt.Errorf("file %d not found on %s", downloadFileID, details.Name)
		}
	}

	queue := download.NewQueue(root, store, nil)
	taskID, err := queue.Enqueue(&download.Task{
		ModName:      details.Name,
		DownloadURL:  file.DownloadURL,
		FileName:     file.FileName,
		Section:      downloadSection,
		GameBananaID: details.ID,
		FileID:       file.ID,
		CategoryID:   details.CategoryID,
		Description:  details.Description,
		ThumbnailURL: details.ThumbnailURL,
	})
	if err != nil {
		return err
	}
	queue.Close()

	fmt.Printf("Downloading %s (%s)...\n", details.Name, file.FileName)

	for ev := range queue.Events() {
		if ev.TaskID != taskID {
			continue
		}
		switch ev.Kind {
		case download.EventProgress:
			if verbose {
				fmt.Printf("\r%3.0f%% (%d bytes)", ev.Progress.Percentage, ev.Progress.Downloaded)
			}
		case download.EventExtracting:
			if verbose {
				fmt.Println()
			}
			fmt.Println("Extracting...")
		case download.EventCompleted:
			for _, name := range ev.Installed {
				fmt.Printf("Installed %s\n", colorGreen(name))
			}
			fmt.Println("Enable it with 'dmm enable' or the TUI.")
			return nil
		case download.EventFailed:
			return ev.Err
		}
	}
	return fmt.Errorf("download queue closed unexpectedly")
}
