// Package picker holds the asset listing and selection state of a picking
// session.
//
// An Engine is owned by a single goroutine. Operations that need the catalog
// return a tea.Cmd; the command runs elsewhere and its message must be handed
// back to Engine.Update on the owning goroutine, which is exactly what a
// bubbletea program does with a model's commands.
package picker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/media"
)

// AlbumsLoadedMsg carries the result of listing albums.
type AlbumsLoadedMsg struct {
	generation uint64
	Albums     []media.Album
	Err        error
}

// PageLoadedMsg carries one page of an album's assets.
type PageLoadedMsg struct {
	request pageRequest
	AlbumID string
	Total   int
	Assets  []media.Asset
	Err     error
}

// ThumbnailLoadedMsg carries an album cover. Data is nil when the catalog
// had nothing to show.
type ThumbnailLoadedMsg struct {
	AlbumID string
	Data    []byte
	Err     error
}

// LibraryChangedMsg is delivered when the catalog reports a mutation.
type LibraryChangedMsg struct{}

type Engine struct {
	catalog catalog.Catalog
	opts    Options
	log     zerolog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	changes     chan struct{}
	unsubscribe func()
	watching    bool
	closed      bool

	selection  *Selection
	cursors    map[string]*Cursor
	thumbs     *ThumbnailCache
	viewer     *Viewer
	albumsGen  uint64
	albumIndex map[string]media.Album

	Albums           *Value[[]media.Album]
	CurrentAlbum     *Value[media.Album]
	Assets           *Value[[]media.Asset]
	Selected         *Value[[]media.Asset]
	HasMore          *Value[bool]
	Switching        *Value[bool]
	PermissionDenied *Value[bool]
	LastError        *Value[error]
	Thumbnails       *Signal[string]
	LibraryChanged   Signal[struct{}]
}

// New validates opts and builds an engine over c. Nothing is fetched until
// Init's command runs.
func New(c catalog.Catalog, opts Options) (*Engine, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrInvalidConfiguration)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		catalog:    c,
		opts:       opts,
		log:        logger.With().Str("component", "picker").Logger(),
		ctx:        ctx,
		cancel:     cancel,
		changes:    make(chan struct{}, 1),
		selection:  NewSelection(opts.rules(), opts.Selected),
		cursors:    make(map[string]*Cursor),
		thumbs:     newThumbnailCache(),
		albumIndex: make(map[string]media.Album),

		Albums:           newValue[[]media.Album](nil, slices.Equal[[]media.Album]),
		CurrentAlbum:     newComparable(media.Album{}),
		Assets:           newValue[[]media.Asset](nil, sameAssets),
		Selected:         newValue[[]media.Asset](nil, sameAssets),
		HasMore:          newComparable(false),
		Switching:        newComparable(false),
		PermissionDenied: newComparable(false),
		LastError:        newValue[error](nil, func(a, b error) bool { return a == nil && b == nil }),
	}
	e.Thumbnails = &e.thumbs.Updated
	e.Selected.set(e.selection.Assets())

	changes := e.changes
	e.unsubscribe = c.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return e, nil
}

func (e *Engine) Options() Options { return e.opts }

// Init lists albums, opens the first one and starts forwarding library
// change notifications.
func (e *Engine) Init() tea.Cmd {
	if e.closed {
		return nil
	}
	cmds := []tea.Cmd{e.loadAlbums()}
	if !e.watching {
		e.watching = true
		cmds = append(cmds, e.watchLibrary())
	}
	return tea.Batch(cmds...)
}

// Reload lists albums again and drops every cursor, so each album is
// fetched from page 0 when next shown. The selection is kept.
func (e *Engine) Reload() tea.Cmd {
	if e.closed {
		return nil
	}
	for _, cur := range e.cursors {
		cur.abandon()
	}
	e.cursors = make(map[string]*Cursor)
	return e.loadAlbums()
}

// Close ends the session. Results of commands still running are ignored.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.cancel()
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.viewer = nil
}

// Update applies a message produced by one of the engine's commands and
// may return a follow-up command. Unrelated messages are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AlbumsLoadedMsg:
		return e.applyAlbums(msg)
	case PageLoadedMsg:
		e.applyPage(msg)
	case ThumbnailLoadedMsg:
		e.applyThumbnail(msg)
	case LibraryChangedMsg:
		if e.closed {
			return nil
		}
		e.log.Debug().Msg("library changed")
		e.LibraryChanged.publish(struct{}{})
		return e.watchLibrary()
	}
	return nil
}

// SwitchAlbum makes albumID current. Its cursor is created on first visit
// and reused afterwards; a pending fetch of the album being left is
// abandoned. The selection is not touched.
func (e *Engine) SwitchAlbum(albumID string) tea.Cmd {
	if e.closed {
		return nil
	}
	album, ok := e.albumIndex[albumID]
	if !ok {
		return nil
	}
	prev := e.CurrentAlbum.Get()
	if prev.ID != albumID {
		if cur, ok := e.cursors[prev.ID]; ok {
			cur.abandon()
		}
	}
	e.CurrentAlbum.set(album)

	cur := e.cursor(albumID)
	if cur.Loaded() {
		e.publishCursor(cur)
		e.Switching.set(false)
		return nil
	}
	e.Assets.set(nil)
	e.HasMore.set(false)
	if cur.InFlight() {
		e.Switching.set(true)
		return nil
	}
	return e.LoadInitialPage(albumID)
}

// LoadInitialPage fetches page 0 of albumID and replaces its asset list
// when the result arrives.
func (e *Engine) LoadInitialPage(albumID string) tea.Cmd {
	if e.closed {
		return nil
	}
	if _, ok := e.albumIndex[albumID]; !ok {
		return nil
	}
	req := e.cursor(albumID).beginInitial()
	if albumID == e.CurrentAlbum.Get().ID {
		e.Switching.set(true)
	}
	return e.fetchPage(req)
}

// LoadMoreAssets fetches the next page of the current album. It returns nil
// when the album is exhausted, not yet loaded, or a fetch is pending.
func (e *Engine) LoadMoreAssets() tea.Cmd {
	if e.closed {
		return nil
	}
	cur, ok := e.cursors[e.CurrentAlbum.Get().ID]
	if !ok {
		return nil
	}
	req, ok := cur.beginNext()
	if !ok {
		return nil
	}
	e.log.Debug().Str("album", req.albumID).Int("offset", req.offset).Msg("loading next page")
	return e.fetchPage(req)
}

// RequestMore calls LoadMoreAssets when position is within the read-ahead
// window of the end of the current list.
func (e *Engine) RequestMore(position int) tea.Cmd {
	if !e.HasMore.Get() || !ShouldLoadMore(position, len(e.Assets.Get()), e.opts.GridCount) {
		return nil
	}
	return e.LoadMoreAssets()
}

// Cursor returns the pagination state of albumID, if it has been visited.
func (e *Engine) Cursor(albumID string) (*Cursor, bool) {
	cur, ok := e.cursors[albumID]
	return cur, ok
}

// Thumbnail returns the cached cover of albumID, or a command fetching it.
// Both results are nil while a fetch for the album is already pending.
func (e *Engine) Thumbnail(albumID string) ([]byte, tea.Cmd) {
	if data, ok := e.thumbs.Get(albumID); ok {
		return data, nil
	}
	if e.closed || !e.thumbs.claim(albumID) {
		return nil, nil
	}
	ctx, c, size := e.ctx, e.catalog, e.opts.ThumbnailSize
	return nil, func() tea.Msg {
		data, err := c.FetchThumbnail(ctx, albumID, size)
		if err != nil {
			return ThumbnailLoadedMsg{AlbumID: albumID, Err: fmt.Errorf("fetch thumbnail for %s: %w", albumID, err)}
		}
		return ThumbnailLoadedMsg{AlbumID: albumID, Data: data}
	}
}

// CachedThumbnail returns albumID's cover without fetching it.
func (e *Engine) CachedThumbnail(albumID string) ([]byte, bool) {
	return e.thumbs.Get(albumID)
}

func (e *Engine) Select(asset media.Asset) Outcome {
	out := e.selection.Select(asset)
	if out == Selected {
		e.Selected.set(e.selection.Assets())
	}
	return out
}

func (e *Engine) Unselect(asset media.Asset) bool {
	if !e.selection.Unselect(asset) {
		return false
	}
	e.Selected.set(e.selection.Assets())
	return true
}

func (e *Engine) Contains(asset media.Asset) bool { return e.selection.Contains(asset) }

func (e *Engine) Position(asset media.Asset) int { return e.selection.Position(asset) }

func (e *Engine) IsDisabled(asset media.Asset) bool { return e.selection.IsDisabled(asset) }

func (e *Engine) IsEmpty() bool { return e.selection.IsEmpty() }

func (e *Engine) IsFull() bool { return e.selection.IsFull() }

// Confirm returns the selection as the final result of the session.
func (e *Engine) Confirm() []media.Asset {
	return e.selection.Assets()
}

func (e *Engine) cursor(albumID string) *Cursor {
	cur, ok := e.cursors[albumID]
	if !ok {
		cur = newCursor(albumID, e.opts.PageSize)
		e.cursors[albumID] = cur
	}
	return cur
}

func (e *Engine) publishCursor(cur *Cursor) {
	e.Assets.set(cur.Assets())
	e.HasMore.set(cur.HasMore())
}

func (e *Engine) loadAlbums() tea.Cmd {
	e.albumsGen++
	gen := e.albumsGen
	ctx, c, types := e.ctx, e.catalog, e.opts.RequestType
	e.Switching.set(true)
	return func() tea.Msg {
		if !c.HasAccess(ctx) {
			return AlbumsLoadedMsg{generation: gen, Err: catalog.ErrPermissionDenied}
		}
		albums, err := c.ListAlbums(ctx, types)
		if err != nil {
			return AlbumsLoadedMsg{generation: gen, Err: fmt.Errorf("list albums: %w", err)}
		}
		return AlbumsLoadedMsg{generation: gen, Albums: albums}
	}
}

func (e *Engine) applyAlbums(msg AlbumsLoadedMsg) tea.Cmd {
	if e.closed || msg.generation != e.albumsGen {
		e.log.Debug().Uint64("generation", msg.generation).Msg("discarding stale album list")
		return nil
	}
	if msg.Err != nil {
		e.Switching.set(false)
		e.LastError.set(msg.Err)
		if errors.Is(catalog.Classify(msg.Err), catalog.ErrPermissionDenied) {
			e.log.Warn().Msg("catalog access denied")
			e.PermissionDenied.set(true)
			e.albumIndex = make(map[string]media.Album)
			e.Albums.set(nil)
			e.CurrentAlbum.set(media.Album{})
			e.Assets.set(nil)
			e.HasMore.set(false)
			return nil
		}
		e.log.Warn().Err(msg.Err).Msg("album listing failed")
		return nil
	}

	e.PermissionDenied.set(false)
	e.LastError.set(nil)
	albums := allFirst(msg.Albums)
	e.albumIndex = make(map[string]media.Album, len(albums))
	for _, a := range albums {
		e.albumIndex[a.ID] = a
	}
	e.Albums.set(albums)

	if len(albums) == 0 {
		e.CurrentAlbum.set(media.Album{})
		e.Assets.set(nil)
		e.HasMore.set(false)
		e.Switching.set(false)
		return nil
	}
	target := albums[0].ID
	if current := e.CurrentAlbum.Get().ID; current != "" {
		if _, ok := e.albumIndex[current]; ok {
			target = current
		}
	}
	return e.SwitchAlbum(target)
}

func (e *Engine) fetchPage(req pageRequest) tea.Cmd {
	ctx, c, types := e.ctx, e.catalog, e.opts.RequestType
	return func() tea.Msg {
		msg := PageLoadedMsg{request: req, AlbumID: req.albumID}
		if !c.HasAccess(ctx) {
			msg.Err = catalog.ErrPermissionDenied
			return msg
		}
		if req.initial {
			total, err := c.CountAssets(ctx, req.albumID, types)
			if err != nil {
				msg.Err = fmt.Errorf("count assets in %s: %w", req.albumID, err)
				return msg
			}
			msg.Total = total
		}
		assets, err := c.ListAssets(ctx, req.albumID, types, req.offset, req.limit)
		if err != nil {
			msg.Err = fmt.Errorf("list assets in %s at %d: %w", req.albumID, req.offset, err)
			return msg
		}
		msg.Assets = assets
		return msg
	}
}

func (e *Engine) applyPage(msg PageLoadedMsg) {
	cur, ok := e.cursors[msg.AlbumID]
	if e.closed || !ok || !cur.current(msg.request) {
		e.log.Debug().Str("album", msg.AlbumID).Int("offset", msg.request.offset).Msg("discarding stale page")
		return
	}
	isCurrent := msg.AlbumID == e.CurrentAlbum.Get().ID

	if msg.Err != nil {
		cur.fail()
		e.LastError.set(msg.Err)
		if errors.Is(catalog.Classify(msg.Err), catalog.ErrPermissionDenied) {
			e.PermissionDenied.set(true)
		}
		e.log.Warn().Err(msg.Err).Str("album", msg.AlbumID).Msg("page fetch failed")
		if isCurrent {
			if msg.request.initial && !cur.Loaded() {
				e.Assets.set(nil)
				e.HasMore.set(false)
			}
			e.Switching.set(false)
		}
		return
	}

	if msg.request.initial {
		cur.reset(msg.Total, msg.Assets)
	} else {
		cur.appendPage(msg.Assets)
	}
	e.LastError.set(nil)
	if isCurrent {
		e.publishCursor(cur)
		e.Switching.set(false)
	}
}

func (e *Engine) applyThumbnail(msg ThumbnailLoadedMsg) {
	if e.closed {
		return
	}
	if msg.Err != nil {
		e.thumbs.release(msg.AlbumID)
		e.log.Debug().Err(msg.Err).Str("album", msg.AlbumID).Msg("thumbnail fetch failed")
		return
	}
	if !e.thumbs.store(msg.AlbumID, msg.Data) {
		e.log.Debug().Str("album", msg.AlbumID).Msg("no thumbnail stored")
	}
}

func (e *Engine) watchLibrary() tea.Cmd {
	ctx, changes := e.ctx, e.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return LibraryChangedMsg{}
		}
	}
}

func allFirst(albums []media.Album) []media.Album {
	out := make([]media.Album, 0, len(albums))
	for _, a := range albums {
		if a.IsAll {
			out = append(out, a)
		}
	}
	for _, a := range albums {
		if !a.IsAll {
			out = append(out, a)
		}
	}
	return out
}

func sameAssets(a, b []media.Asset) bool {
	return slices.EqualFunc(a, b, media.Asset.Same)
}
