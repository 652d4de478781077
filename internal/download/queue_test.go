package download_test

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmm/internal/domain"
	"dmm/internal/download"
	"dmm/internal/game"
	"dmm/internal/storage/metadata"
)

type queueFixture struct {
	queue   *download.Queue
	root    string
	store   *metadata.Store
	baseURL string
}

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newQueueFixture(t *testing.T, payloads map[string][]byte) *queueFixture {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	root := t.TempDir()
	_, err := game.AddonsPath(root)
	require.NoError(t, err)

	store, err := metadata.Open(filepath.Join(t.TempDir(), "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	q := download.NewQueue(root, store, download.NewDownloader(server.Client()))
	t.Cleanup(q.Close)

	return &queueFixture{queue: q, root: root, store: store, baseURL: server.URL}
}

func waitTerminal(t *testing.T, q *download.Queue, taskID string) download.Event {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-q.Events():
			require.True(t, ok, "event channel closed before terminal event")
			if ev.TaskID != taskID {
				continue
			}
			if ev.Kind == download.EventCompleted || ev.Kind == download.EventFailed {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for terminal event")
		}
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func TestContainerKeepsOneArchiveAtLowestFreeSlot(t *testing.T) {
	archive := buildZip(t, map[string][]byte{
		"skin_blue.vpk":  []byte("blue"),
		"skin_green.vpk": []byte("green"),
		"skin_red.vpk":   []byte("red"),
	})
	fx := newQueueFixture(t, map[string][]byte{"/dl/pack.zip": archive})

	id, err := fx.queue.Enqueue(&download.Task{
		ModName:     "Skin Pack",
		DownloadURL: fx.baseURL + "/dl/pack.zip",
		FileName:    "pack.zip",
	})
	require.NoError(t, err)

	ev := waitTerminal(t, fx.queue, id)
	require.Equal(t, download.EventCompleted, ev.Kind)
	require.Equal(t, []string{"pak01_skin_blue.vpk"}, ev.Installed)

	disabled, err := game.DisabledPath(fx.root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pak01_skin_blue.vpk"}, listDir(t, disabled))
}

func TestBackToBackDownloadsGetDistinctSlots(t *testing.T) {
	fx := newQueueFixture(t, map[string][]byte{
		"/dl/a.zip": buildZip(t, map[string][]byte{"pak07_alpha_dir.vpk": []byte("a")}),
		"/dl/b.zip": buildZip(t, map[string][]byte{"pak07_beta_dir.vpk": []byte("b")}),
	})

	idA, err := fx.queue.Enqueue(&download.Task{ModName: "Alpha", DownloadURL: fx.baseURL + "/dl/a.zip", FileName: "a.zip"})
	require.NoError(t, err)
	idB, err := fx.queue.Enqueue(&download.Task{ModName: "Beta", DownloadURL: fx.baseURL + "/dl/b.zip", FileName: "b.zip"})
	require.NoError(t, err)

	evA := waitTerminal(t, fx.queue, idA)
	evB := waitTerminal(t, fx.queue, idB)
	require.Equal(t, download.EventCompleted, evA.Kind)
	require.Equal(t, download.EventCompleted, evB.Kind)

	// The first download declared slot 7 and kept it; the second
	// collided and was renamed to the lowest free slot instead.
	assert.Equal(t, []string{"pak07_alpha_dir.vpk"}, evA.Installed)
	assert.Equal(t, []string{"pak01_beta_dir.vpk"}, evB.Installed)

	disabled, err := game.DisabledPath(fx.root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pak01_beta_dir.vpk", "pak07_alpha_dir.vpk"}, listDir(t, disabled))
}

func TestPlainVPKDownload(t *testing.T) {
	fx := newQueueFixture(t, map[string][]byte{"/dl/skin.vpk": []byte("vpk")})

	id, err := fx.queue.Enqueue(&download.Task{
		ModName:      "Crimson Abrams",
		DownloadURL:  fx.baseURL + "/dl/skin.vpk",
		FileName:     "crimson_abrams.vpk",
		GameBananaID: 612345,
		Section:      "Mod",
	})
	require.NoError(t, err)

	ev := waitTerminal(t, fx.queue, id)
	require.Equal(t, download.EventCompleted, ev.Kind)
	require.Equal(t, []string{"pak01_crimson_abrams.vpk"}, ev.Installed)

	meta, err := fx.store.Get("pak01_crimson_abrams.vpk")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Crimson Abrams", meta.Name)
	assert.Equal(t, int64(612345), meta.GameBananaID)
	assert.False(t, meta.VariantPreset)
}

func TestVariantPackKeepsTextureAndFirstPreset(t *testing.T) {
	archive := buildZip(t, map[string][]byte{
		"mina_textures.vpk":        []byte("tex"),
		"clothing_preset_cozy.vpk": []byte("p1"),
		"clothing_preset_goth.vpk": []byte("p2"),
		"clothing_preset_punk.vpk": []byte("p3"),
	})
	fx := newQueueFixture(t, map[string][]byte{"/dl/mina.zip": archive})

	// A previously installed preset must be evicted before the new one
	// lands.
	addons, err := game.AddonsPath(fx.root)
	require.NoError(t, err)
	prior := "pak20_clothing_preset_old.vpk"
	require.NoError(t, os.WriteFile(filepath.Join(addons, prior), []byte("old"), 0o644))
	require.NoError(t, fx.store.Upsert(prior, &domain.Metadata{Name: "Midnight Mina — Old", VariantPreset: true}))

	id, err := fx.queue.Enqueue(&download.Task{
		ModName:     "Midnight Mina — Outfit Pack",
		DownloadURL: fx.baseURL + "/dl/mina.zip",
		FileName:    "mina.zip",
	})
	require.NoError(t, err)

	ev := waitTerminal(t, fx.queue, id)
	require.Equal(t, download.EventCompleted, ev.Kind)

	// One texture plus the alphabetically first preset; the texture is
	// installed first so it takes the lower slot.
	disabled, err := game.DisabledPath(fx.root)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"pak01_mina_textures.vpk", "pak02_clothing_preset_cozy.vpk"},
		listDir(t, disabled))

	assert.Empty(t, listDir(t, addons), "prior preset should be evicted")
	old, err := fx.store.Get(prior)
	require.NoError(t, err)
	assert.Nil(t, old, "prior preset metadata should be deleted")

	preset, err := fx.store.Get("pak02_clothing_preset_cozy.vpk")
	require.NoError(t, err)
	require.NotNil(t, preset)
	assert.True(t, preset.VariantPreset)

	tex, err := fx.store.Get("pak01_mina_textures.vpk")
	require.NoError(t, err)
	require.NotNil(t, tex)
	assert.False(t, tex.VariantPreset)
}

func TestFailedDownloadLeavesNoPartialFile(t *testing.T) {
	fx := newQueueFixture(t, nil)

	id, err := fx.queue.Enqueue(&download.Task{
		ModName:     "Gone",
		DownloadURL: fx.baseURL + "/dl/missing.vpk",
		FileName:    "missing.vpk",
	})
	require.NoError(t, err)

	ev := waitTerminal(t, fx.queue, id)
	require.Equal(t, download.EventFailed, ev.Kind)
	require.ErrorIs(t, ev.Err, domain.ErrDownloadFailed)

	disabled, err := game.DisabledPath(fx.root)
	require.NoError(t, err)
	assert.Empty(t, listDir(t, disabled))
}

func TestEnqueueAfterClose(t *testing.T) {
	fx := newQueueFixture(t, nil)
	fx.queue.Close()
	_, err := fx.queue.Enqueue(&download.Task{FileName: "x.vpk"})
	require.ErrorIs(t, err, domain.ErrQueueClosed)
}

func TestCloseWaitsForPendingEnqueues(t *testing.T) {
	fx := newQueueFixture(t, nil) // every download 404s and fails fast

	// Push well past the task buffer while Close races the producer.
	// Blocked sends must complete as the worker drains; late Enqueues
	// see the closed queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 48; i++ {
			_, err := fx.queue.Enqueue(&download.Task{
				ModName:     "Gone",
				DownloadURL: fx.baseURL + "/dl/missing.vpk",
				FileName:    "missing.vpk",
			})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrQueueClosed)
				return
			}
		}
	}()

	fx.queue.Close()

	deadline := time.After(10 * time.Second)
	for {
		select {
		case _, ok := <-fx.queue.Events():
			if ok {
				continue
			}
			select {
			case <-done:
				return
			case <-deadline:
				t.Fatal("producer still blocked after the queue drained")
			}
		case <-deadline:
			t.Fatal("queue failed to drain with a concurrent producer")
		}
	}
}
