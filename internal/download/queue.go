package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dmm/internal/domain"
	"dmm/internal/extract"
	"dmm/internal/game"
	"dmm/internal/logging"
	"dmm/internal/paks"
	"dmm/internal/storage/metadata"
	"dmm/internal/variants"
)

// Task is one download-and-install work item.
type Task struct {
	ID           string // assigned by Enqueue when empty
	ModName      string
	DownloadURL  string
	FileName     string
	Section      string
	GameBananaID int64
	FileID       int64
	CategoryID   int64
	Description  string
	ThumbnailURL string
	NSFW         bool
}

// EventKind identifies the queue events emitted toward the UI.
type EventKind string

const (
	EventProgress   EventKind = "progress"
	EventExtracting EventKind = "extracting"
	EventCompleted  EventKind = "completed"
	EventFailed     EventKind = "failed"
)

// Event reports task progress. Terminal events carry either the list of
// installed filenames or the failure.
type Event struct {
	TaskID    string
	FileName  string
	Kind      EventKind
	Progress  Progress
	Installed []string
	Err       error
}

// Queue downloads and installs mods one at a time. The single worker is
// what guarantees two near-simultaneous downloads never both compute
// the same "next free" pak slot: a task runs its whole
// download/extract/slot-assign/persist sequence before the next starts.
type Queue struct {
	root       string
	store      *metadata.Store
	downloader *Downloader
	extractor  *extract.Extractor
	log        zerolog.Logger

	tasks  chan *Task
	events chan Event

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates the queue and starts its worker. root is the game
// installation root; store persists per-filename mod metadata.
func NewQueue(root string, store *metadata.Store, downloader *Downloader) *Queue {
	if downloader == nil {
		downloader = NewDownloader(nil)
	}
	q := &Queue{
		root:       root,
		store:      store,
		downloader: downloader,
		extractor:  extract.NewExtractor(),
		log:        logging.GetLogger("download"),
		tasks:      make(chan *Task, 32),
		events:     make(chan Event, 64),
	}
	go q.run()
	return q
}

// Events returns the queue's event stream. Events are dropped rather
// than blocking the worker when the consumer falls behind.
func (q *Queue) Events() <-chan Event {
	return q.events
}

// Enqueue adds a task and returns its id. Tasks run in FIFO order.
// Senders hold the read lock across the send, so Close cannot close
// the channel out from under a blocked Enqueue; the worker keeps
// draining, so blocked sends always complete.
func (q *Queue) Enqueue(task *Task) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", domain.ErrQueueClosed
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	q.tasks <- task
	return task.ID, nil
}

// Close stops accepting tasks. Already-queued tasks still run; the
// events channel closes once the worker drains.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}

func (q *Queue) run() {
	for task := range q.tasks {
		installed, err := q.process(context.Background(), task)
		if err != nil {
			q.log.Error().Err(err).Str("file", task.FileName).Msg("download failed")
			q.events <- Event{TaskID: task.ID, FileName: task.FileName, Kind: EventFailed, Err: err}
			continue
		}
		q.log.Info().Str("file", task.FileName).Strs("installed", installed).Msg("download complete")
		q.events <- Event{TaskID: task.ID, FileName: task.FileName, Kind: EventCompleted, Installed: installed}
	}
	close(q.events)
}

// emit drops progress-style events rather than blocking the worker when
// the consumer falls behind; terminal events are sent blocking in run.
func (q *Queue) emit(ev Event) {
	select {
	case q.events <- ev:
	default:
	}
}

// process runs one task end-to-end. New content lands in the disabled
// directory so a fresh download never auto-activates.
func (q *Queue) process(ctx context.Context, task *Task) ([]string, error) {
	destDir, err := game.DisabledPath(q.root)
	if err != nil {
		return nil, err
	}
	destPath := filepath.Join(destDir, task.FileName)

	var lastPct float64
	_, err = q.downloader.Download(ctx, task.DownloadURL, destPath, func(p Progress) {
		if p.Percentage-lastPct < 1 && p.Downloaded != p.TotalBytes {
			return
		}
		lastPct = p.Percentage
		q.emit(Event{TaskID: task.ID, FileName: task.FileName, Kind: EventProgress, Progress: p})
	})
	if err != nil {
		return nil, err
	}

	extracted, err := q.unpack(ctx, task, destDir, destPath)
	if err != nil {
		return nil, err
	}

	keep, discard, err := q.applyKeepPolicy(task, extracted)
	if err != nil {
		return nil, err
	}
	for _, name := range discard {
		if err := os.Remove(filepath.Join(destDir, name)); err != nil {
			q.log.Warn().Err(err).Str("file", name).Msg("removing discarded file")
		}
	}

	// The preset heuristic matches the pre-rename filename, so record
	// the flags before slot assignment rewrites the pak prefix.
	variantPack := variants.IsVariantPack(task.ModName)
	presetFlags := make([]bool, len(keep))
	for i, name := range keep {
		presetFlags[i] = variantPack && variants.IsPreset(name)
	}

	installed, err := q.assignSlots(destDir, keep)
	if err != nil {
		return nil, err
	}

	for i, name := range installed {
		meta := &domain.Metadata{
			Name:          task.ModName,
			Description:   task.Description,
			ThumbnailURL:  task.ThumbnailURL,
			GameBananaID:  task.GameBananaID,
			FileID:        task.FileID,
			CategoryID:    task.CategoryID,
			Section:       task.Section,
			NSFW:          task.NSFW,
			VariantPreset: presetFlags[i],
		}
		if err := q.store.Upsert(name, meta); err != nil {
			return nil, fmt.Errorf("persisting metadata for %s: %w", name, err)
		}
	}
	return installed, nil
}

// unpack turns the downloaded payload into a list of VPK filenames
// sitting in destDir. Container archives are extracted and removed.
func (q *Queue) unpack(ctx context.Context, task *Task, destDir, destPath string) ([]string, error) {
	if !q.extractor.IsArchive(task.FileName) {
		if !paks.IsVPK(task.FileName) {
			os.Remove(destPath)
			return nil, fmt.Errorf("%w: %s", domain.ErrNotVPK, task.FileName)
		}
		return []string{task.FileName}, nil
	}

	q.emit(Event{TaskID: task.ID, FileName: task.FileName, Kind: EventExtracting})

	paths, err := q.extractor.Extract(ctx, destPath, destDir)
	if err != nil {
		os.Remove(destPath)
		return nil, err
	}
	if err := os.Remove(destPath); err != nil {
		q.log.Warn().Err(err).Str("file", task.FileName).Msg("removing container archive")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no VPK files in %s", domain.ErrExtractFailed, task.FileName)
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	sort.Strings(names)
	return names, nil
}

// applyKeepPolicy decides which extracted files to install. A
// multi-variant cosmetic pack keeps one texture plus the alphabetically
// first preset and evicts any previously installed preset; every other
// multi-file container keeps only its alphabetically first file, since
// one download installing several unrelated archives is never intended.
func (q *Queue) applyKeepPolicy(task *Task, extracted []string) (keep, discard []string, err error) {
	if variants.IsVariantPack(task.ModName) {
		if err := q.evictVariantPresets(); err != nil {
			return nil, nil, err
		}
		keep, discard = variants.Select(extracted)
		return keep, discard, nil
	}
	if len(extracted) > 1 {
		return extracted[:1], extracted[1:], nil
	}
	return extracted, nil, nil
}

// evictVariantPresets deletes prior variant-preset installs from both
// directories along with their stored metadata.
func (q *Queue) evictVariantPresets() error {
	prior, err := q.store.VariantPresetFiles()
	if err != nil {
		return err
	}
	addons, err := game.AddonsPath(q.root)
	if err != nil {
		return err
	}
	disabled, err := game.DisabledPath(q.root)
	if err != nil {
		return err
	}
	for _, name := range prior {
		for _, dir := range []string{addons, disabled} {
			if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing prior variant %s: %w", name, err)
			}
		}
		if err := q.store.Delete(name); err != nil {
			return err
		}
		q.log.Info().Str("file", name).Msg("evicted prior variant preset")
	}
	return nil
}

// assignSlots gives every kept file a unique pak priority. A file keeps
// its declared slot when no other installed mod holds it; otherwise it
// is renamed to the lowest free slot.
func (q *Queue) assignSlots(destDir string, keep []string) ([]string, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, name := range keep {
		keepSet[name] = true
	}
	occupied, err := q.occupiedSlots(keepSet)
	if err != nil {
		return nil, err
	}

	installed := make([]string, 0, len(keep))
	for _, name := range keep {
		if p, ok := paks.ParsePriority(name); ok && !occupied[p] {
			occupied[p] = true
			installed = append(installed, name)
			continue
		}
		slot, err := lowestFree(occupied)
		if err != nil {
			return nil, err
		}
		newName := paks.WithPriority(name, slot)
		if err := os.Rename(filepath.Join(destDir, name), filepath.Join(destDir, newName)); err != nil {
			return nil, fmt.Errorf("assigning slot %d to %s: %w", slot, name, err)
		}
		if err := q.store.Rename(name, newName); err != nil {
			return nil, err
		}
		occupied[slot] = true
		installed = append(installed, newName)
		q.log.Debug().Str("file", newName).Int("slot", slot).Msg("assigned pak slot")
	}
	return installed, nil
}

// occupiedSlots collects the pak priorities declared by every installed
// file in either directory, skipping the files being installed now.
func (q *Queue) occupiedSlots(exclude map[string]bool) (map[int]bool, error) {
	addons, err := game.AddonsPath(q.root)
	if err != nil {
		return nil, err
	}
	disabled, err := game.DisabledPath(q.root)
	if err != nil {
		return nil, err
	}

	occupied := make(map[int]bool)
	for _, dir := range []string{addons, disabled} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || exclude[entry.Name()] {
				continue
			}
			if p, ok := paks.ParsePriority(entry.Name()); ok {
				occupied[p] = true
			}
		}
	}
	return occupied, nil
}

func lowestFree(occupied map[int]bool) (int, error) {
	for slot := paks.MinPriority; slot <= paks.MaxPriority; slot++ {
		if !occupied[slot] {
			return slot, nil
		}
	}
	return 0, domain.ErrNoFreeSlot
}
