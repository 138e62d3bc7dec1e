// Package catalog defines the contract a media library provider fulfils for
// the picker, plus small helpers shared by provider implementations.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/glabrego/assetpick/internal/media"
)

var (
	// ErrPermissionDenied reports that the library may not be read.
	ErrPermissionDenied = errors.New("catalog access denied")
	// ErrUnavailable reports a transient failure talking to the library.
	ErrUnavailable = errors.New("catalog unavailable")
)

// Catalog is a paginated, read-only view of a media library.
//
// FetchThumbnail returns nil data and a nil error when the album has no
// renderable cover right now.
type Catalog interface {
	HasAccess(ctx context.Context) bool
	ListAlbums(ctx context.Context, types media.RequestType) ([]media.Album, error)
	CountAssets(ctx context.Context, albumID string, types media.RequestType) (int, error)
	ListAssets(ctx context.Context, albumID string, types media.RequestType, offset, limit int) ([]media.Asset, error)
	FetchThumbnail(ctx context.Context, albumID string, size int) ([]byte, error)
	Subscribe(fn func()) (cancel func())
}

// Hub fans library-changed notifications out to subscribers. It is safe for
// use from multiple goroutines.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func (h *Hub) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func())
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Notify() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Classify maps a provider error onto the two failure kinds the picker
// distinguishes. Anything that is not a permission failure is unavailable.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPermissionDenied):
		return ErrPermissionDenied
	default:
		return ErrUnavailable
	}
}
