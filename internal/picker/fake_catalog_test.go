package picker

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/media"
)

type fakeCatalog struct {
	catalog.Hub

	denied   bool
	albums   []media.Album
	assets   map[string][]media.Asset
	thumbs   map[string][]byte
	albumErr error
	countErr error
	pageErr  error
	thumbErr error

	pageCalls  map[string][]int
	thumbCalls map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		assets:     make(map[string][]media.Asset),
		thumbs:     make(map[string][]byte),
		pageCalls:  make(map[string][]int),
		thumbCalls: make(map[string]int),
	}
}

func (f *fakeCatalog) addAlbum(id string, assets ...media.Asset) {
	f.albums = append(f.albums, media.Album{ID: id, Name: id, AssetCount: len(assets), IsAll: id == media.AllAlbumID})
	f.assets[id] = assets
}

func (f *fakeCatalog) HasAccess(context.Context) bool { return !f.denied }

func (f *fakeCatalog) ListAlbums(context.Context, media.RequestType) ([]media.Album, error) {
	if f.albumErr != nil {
		return nil, f.albumErr
	}
	return append([]media.Album(nil), f.albums...), nil
}

func (f *fakeCatalog) CountAssets(_ context.Context, albumID string, types media.RequestType) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.filtered(albumID, types)), nil
}

func (f *fakeCatalog) ListAssets(_ context.Context, albumID string, types media.RequestType, offset, limit int) ([]media.Asset, error) {
	f.pageCalls[albumID] = append(f.pageCalls[albumID], offset)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	all := f.filtered(albumID, types)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]media.Asset(nil), all[offset:end]...), nil
}

func (f *fakeCatalog) FetchThumbnail(_ context.Context, albumID string, _ int) ([]byte, error) {
	f.thumbCalls[albumID]++
	if f.thumbErr != nil {
		return nil, f.thumbErr
	}
	return f.thumbs[albumID], nil
}

func (f *fakeCatalog) filtered(albumID string, types media.RequestType) []media.Asset {
	out := make([]media.Asset, 0, len(f.assets[albumID]))
	for _, a := range f.assets[albumID] {
		if types.Allows(a.Type) {
			out = append(out, a)
		}
	}
	return out
}

func images(prefix string, n int) []media.Asset {
	out := make([]media.Asset, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, media.Asset{ID: fmt.Sprintf("%s%d", prefix, i+1), Type: media.TypeImage})
	}
	return out
}

func image(id string) media.Asset { return media.Asset{ID: id, Type: media.TypeImage} }

func video(id string) media.Asset { return media.Asset{ID: id, Type: media.TypeVideo, Duration: 7} }

func ids(assets []media.Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ID)
	}
	return out
}

// drain runs cmd and every follow-up command synchronously, feeding the
// messages back into the engine as a bubbletea program would.
func drain(t *testing.T, e *Engine, cmd tea.Cmd) {
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

// start lists albums and opens the first one, skipping the library watch
// command which blocks until a change arrives.
func start(t *testing.T, e *Engine) {
	t.Helper()
	drain(t, e, e.loadAlbums())
}

func newTestEngine(t *testing.T, c catalog.Catalog, mutate func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.PageSize = 4
	opts.GridCount = 2
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(c, opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}
