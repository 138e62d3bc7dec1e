package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/glabrego/assetpick/internal/library"
	"github.com/glabrego/assetpick/internal/media"
	"github.com/glabrego/assetpick/internal/picker"
	"github.com/glabrego/assetpick/internal/storage"
)

func drain(t *testing.T, e *picker.Engine, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, e, c)
		}
		return
	}
	drain(t, e, e.Update(msg))
}

func writeImage(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestIntegration_IndexThenPick(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		writeImage(t, filepath.Join(root, "trip", fmt.Sprintf("p%d.png", i)), base.Add(time.Duration(i)*time.Minute))
	}
	writeImage(t, filepath.Join(root, "home", "h.png"), base.Add(time.Hour))

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "assetpick.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if _, err := NewService(nil, repo).Index(ctx, root, library.ScanOptions{}); err != nil {
		t.Fatalf("Index returned error: %v", err)
	}

	opts := picker.DefaultOptions()
	opts.PageSize = 4
	opts.GridCount = 2
	opts.MaxAssets = 2
	engine, err := picker.New(repo, opts)
	if err != nil {
		t.Fatalf("picker.New returned error: %v", err)
	}
	t.Cleanup(engine.Close)

	drain(t, engine, engine.Reload())

	albums := engine.Albums.Get()
	if len(albums) != 3 || !albums[0].IsAll || albums[0].AssetCount != 7 {
		t.Fatalf("unexpected albums: %+v", albums)
	}
	if got := len(engine.Assets.Get()); got != 4 || !engine.HasMore.Get() {
		t.Fatalf("expected first page of 4 with more, got %d", got)
	}

	drain(t, engine, engine.RequestMore(3))
	assets := engine.Assets.Get()
	if len(assets) != 7 || engine.HasMore.Get() {
		t.Fatalf("expected all 7 assets loaded, got %d (more=%v)", len(assets), engine.HasMore.Get())
	}
	if assets[0].ID != "home/h.png" {
		t.Fatalf("expected newest first, got %s", assets[0].ID)
	}

	data, cmd := engine.Thumbnail(media.AllAlbumID)
	if data != nil || cmd == nil {
		t.Fatal("expected thumbnail fetch command")
	}
	drain(t, engine, cmd)
	if data, _ := engine.Thumbnail(media.AllAlbumID); len(data) == 0 {
		t.Fatal("expected cached thumbnail")
	}

	drain(t, engine, engine.SwitchAlbum("trip"))
	trip := engine.Assets.Get()
	engine.Select(trip[0])
	engine.Select(trip[1])
	if got := engine.Select(trip[2]); got != picker.LimitReached {
		t.Fatalf("expected limit reached, got %v", got)
	}
	if diff := cmp.Diff([]string{"trip/p5.png", "trip/p4.png"}, []string{engine.Confirm()[0].ID, engine.Confirm()[1].ID}); diff != "" {
		t.Fatalf("confirmed selection mismatch (-want +got):\n%s", diff)
	}
}
