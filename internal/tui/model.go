// Package tui is the terminal front end of a picking session. It renders a
// picker.Engine and turns key presses into engine operations.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/assetpick/internal/media"
	"github.com/glabrego/assetpick/internal/picker"
	"github.com/glabrego/assetpick/internal/tui/actions"
	"github.com/glabrego/assetpick/internal/tui/platform"
	"github.com/glabrego/assetpick/internal/tui/state"
	tuitheme "github.com/glabrego/assetpick/internal/tui/theme"
	"github.com/glabrego/assetpick/internal/tui/view"
)

const defaultStatusTTL = 4 * time.Second

type Model struct {
	engine *picker.Engine
	keys   KeyMap
	theme  tuitheme.Theme

	cursor   int
	anchorID string
	viewer   *picker.Viewer
	showHelp bool
	width    int
	height   int

	status        string
	statusID      int
	statusTTL     time.Duration
	library       *libraryState
	clearGraphics bool

	preview        string
	previewAssetID string
	previewErr     string

	confirmed []media.Asset
	done      bool

	openFn        func(string) error
	copyFn        func(string) error
	readFn        func(string, int64) ([]byte, error)
	renderImageFn func([]byte, int) (string, error)
}

// libraryState is shared by every copy of a Model and written by the
// engine's LibraryChanged signal.
type libraryState struct {
	changed bool
}

func NewModel(engine *picker.Engine) Model {
	library := &libraryState{}
	if engine != nil {
		engine.LibraryChanged.Subscribe(func(struct{}) { library.changed = true })
	}
	return Model{
		engine:        engine,
		library:       library,
		keys:          DefaultKeyMap(),
		theme:         tuitheme.Default(),
		statusTTL:     defaultStatusTTL,
		openFn:        platform.OpenInDefaultApp,
		copyFn:        platform.CopyToClipboard,
		readFn:        actions.ReadLimited,
		renderImageFn: view.RenderImagePreview,
	}
}

func (m Model) Init() tea.Cmd {
	if m.engine == nil {
		return nil
	}
	return m.engine.Init()
}

// Confirmed returns the picked assets and whether the user confirmed them.
// A session that was quit reports false.
func (m Model) Confirmed() ([]media.Asset, bool) {
	return append([]media.Asset(nil), m.confirmed...), m.done
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case picker.AlbumsLoadedMsg:
		cmd := m.engine.Update(msg)
		m.clampCursor()
		return m, tea.Batch(cmd, m.thumbnailCmds())
	case picker.PageLoadedMsg:
		cmd := m.engine.Update(msg)
		m.restoreAnchor()
		m.clampCursor()
		return m, cmd
	case picker.ThumbnailLoadedMsg:
		return m, m.engine.Update(msg)
	case picker.LibraryChangedMsg:
		return m.withStatus("Library changed, press r to reload", m.engine.Update(msg))
	case actions.OpenAssetSuccessMsg:
		return m.withStatus(msg.Status, nil)
	case actions.OpenAssetErrorMsg:
		return m.withStatus("Error: "+msg.Err.Error(), nil)
	case actions.PreviewSuccessMsg:
		if msg.AssetID == m.previewAssetID {
			m.preview = msg.Preview
			m.previewErr = ""
		}
		return m, nil
	case actions.PreviewErrorMsg:
		if msg.AssetID == m.previewAssetID {
			m.preview = ""
			m.previewErr = msg.Err.Error()
		}
		return m, nil
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		m.clearGraphics = false
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}
	if m.viewer != nil {
		return m.handleViewerKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	assets := m.engine.Assets.Get()
	columns := m.engine.Options().GridCount

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = m.engine.Confirm()
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.library.changed = false
		if asset, ok := m.currentAsset(); ok {
			m.anchorID = asset.ID
		}
		m.cursor = 0
		return m.withStatus("Reloading library", m.engine.Reload())
	case key.Matches(msg, m.keys.Left):
		m.cursor = state.MoveHorizontal(m.cursor, -1, len(assets), columns)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.cursor = state.MoveHorizontal(m.cursor, 1, len(assets), columns)
		return m, m.engine.RequestMore(m.cursor)
	case key.Matches(msg, m.keys.Up):
		m.cursor = state.MoveVertical(m.cursor, -1, len(assets), columns)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor = state.MoveVertical(m.cursor, 1, len(assets), columns)
		return m, m.engine.RequestMore(m.cursor)
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = state.MoveVertical(m.cursor, -m.gridRowsPerPage(), len(assets), columns)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.cursor = state.MoveVertical(m.cursor, m.gridRowsPerPage(), len(assets), columns)
		return m, m.engine.RequestMore(m.cursor)
	case key.Matches(msg, m.keys.NextAlbum):
		return m.cycleAlbum(1)
	case key.Matches(msg, m.keys.PrevAlbum):
		return m.cycleAlbum(-1)
	case key.Matches(msg, m.keys.Toggle):
		asset, ok := m.currentAsset()
		if !ok {
			return m, nil
		}
		return m.toggle(asset, m.engine.Contains, m.engine.Unselect, m.engine.Select)
	case key.Matches(msg, m.keys.Open):
		if len(assets) == 0 {
			return m, nil
		}
		m.viewer = m.engine.OpenViewer(assets, m.cursor, picker.SelectionMode)
		return m, m.previewCmd()
	case key.Matches(msg, m.keys.Preview):
		picks := m.engine.Confirm()
		if len(picks) == 0 {
			return m.withStatus("Nothing selected yet", nil)
		}
		m.viewer = m.engine.OpenViewer(picks, 0, picker.PreviewOnly)
		return m, m.previewCmd()
	case key.Matches(msg, m.keys.OpenExternal):
		return m.openAsset(m.currentAsset())
	case key.Matches(msg, m.keys.Copy):
		return m.copyAsset(m.currentAsset())
	}
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.viewer
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		merged := m.engine.CloseViewer(v)
		m.viewer = nil
		m.clearGraphics = view.ContainsKittyGraphicsEscape(m.preview)
		m.resetPreview()
		m.clampCursor()
		if merged {
			return m.withStatus(fmt.Sprintf("Selection updated (%d/%d)", len(m.engine.Selected.Get()), m.engine.Options().MaxAssets), nil)
		}
		return m, nil
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		if v.Prev() {
			return m, m.previewCmd()
		}
		return m, nil
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		if v.Next() {
			return m, m.previewCmd()
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		asset, ok := v.Current()
		if !ok || !v.CanSelect() {
			return m, nil
		}
		return m.toggle(asset, v.Contains, v.Unselect, v.Select)
	case key.Matches(msg, m.keys.OpenExternal):
		return m.openAsset(v.Current())
	case key.Matches(msg, m.keys.Copy):
		return m.copyAsset(v.Current())
	}
	return m, nil
}

// toggle flips asset in whichever selection the three functions belong to,
// the engine's or an open viewer's.
func (m Model) toggle(asset media.Asset, contains func(media.Asset) bool, unselect func(media.Asset) bool, sel func(media.Asset) picker.Outcome) (tea.Model, tea.Cmd) {
	if contains(asset) {
		unselect(asset)
		return m.withStatus("Unselected "+assetLabel(asset), nil)
	}
	switch sel(asset) {
	case picker.Selected:
		return m.withStatus("Selected "+assetLabel(asset), nil)
	case picker.LimitReached:
		return m.withStatus(fmt.Sprintf("Selection limit of %d reached", m.engine.Options().MaxAssets), nil)
	case picker.Disabled:
		return m.withStatus("This asset cannot be selected", nil)
	}
	return m, nil
}

func (m Model) cycleAlbum(delta int) (tea.Model, tea.Cmd) {
	albums := m.engine.Albums.Get()
	if len(albums) < 2 {
		return m, nil
	}
	idx := state.AlbumIndexByID(albums, m.engine.CurrentAlbum.Get().ID)
	if idx < 0 {
		idx = 0
	}
	next := albums[state.CycleIndex(idx, delta, len(albums))]
	m.cursor = 0
	m.anchorID = ""
	// Covers that came back empty or failed are asked for again.
	return m, tea.Batch(m.engine.SwitchAlbum(next.ID), m.thumbnailCmds())
}

func (m Model) openAsset(asset media.Asset, ok bool) (tea.Model, tea.Cmd) {
	if !ok {
		return m, nil
	}
	path, err := platform.ValidateAssetPath(asset.Path)
	if err != nil {
		return m.withStatus("Error: "+err.Error(), nil)
	}
	return m, actions.OpenAssetCmd(asset.ID, path, m.openFn, m.copyFn)
}

func (m Model) copyAsset(asset media.Asset, ok bool) (tea.Model, tea.Cmd) {
	if !ok {
		return m, nil
	}
	if strings.TrimSpace(asset.Path) == "" {
		return m.withStatus("Error: asset has no local file", nil)
	}
	return m, actions.CopyPathCmd(asset.ID, asset.Path, m.copyFn)
}

func (m *Model) previewCmd() tea.Cmd {
	m.resetPreview()
	if m.viewer == nil {
		return nil
	}
	asset, ok := m.viewer.Current()
	if !ok || asset.Type != media.TypeImage || asset.Path == "" {
		return nil
	}
	m.previewAssetID = asset.ID
	return actions.PreviewCmd(asset.ID, asset.Path, m.contentWidth(), view.MaxPreviewBytes, m.readFn, m.renderImageFn)
}

func (m *Model) resetPreview() {
	m.preview = ""
	m.previewErr = ""
	m.previewAssetID = ""
}

func (m Model) withStatus(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, tea.Batch(cmd, actions.ClearStatusCmd(m.statusID, m.statusTTL))
}

func (m Model) thumbnailCmds() tea.Cmd {
	var cmds []tea.Cmd
	for _, album := range m.engine.Albums.Get() {
		if _, cmd := m.engine.Thumbnail(album.ID); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// restoreAnchor moves the cursor back to the asset focused before a reload
// once that asset is loaded again.
func (m *Model) restoreAnchor() {
	if m.anchorID == "" || m.engine.Switching.Get() {
		return
	}
	if idx := state.AssetIndexByID(m.engine.Assets.Get(), m.anchorID); idx >= 0 {
		m.cursor = idx
	}
	m.anchorID = ""
}

func (m *Model) clampCursor() {
	m.cursor = state.ClampCursor(m.cursor, len(m.engine.Assets.Get()))
}

func (m Model) currentAsset() (media.Asset, bool) {
	assets := m.engine.Assets.Get()
	if m.cursor < 0 || m.cursor >= len(assets) {
		return media.Asset{}, false
	}
	return assets[m.cursor], true
}

func (m Model) gridRowsPerPage() int {
	return state.RowsPerPage(m.height, m.status != "")
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m Model) View() string {
	var b strings.Builder
	if m.clearGraphics {
		b.WriteString(view.ClearKittyGraphicsSequence())
	}
	b.WriteString(m.theme.Title.Render("Assetpick"))
	b.WriteString(" ")
	b.WriteString(m.theme.ModePill.Render(m.engine.Options().RequestType.String()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(view.Help())
		b.WriteString("\n\nPress ? or esc to close help.\n")
		return b.String()
	}

	if m.engine.PermissionDenied.Get() {
		b.WriteString("\nThe media library cannot be read. Grant access and press r to retry.\n\n")
		b.WriteString(view.Message(false, "permission denied", m.status, m.theme))
		b.WriteString("\n")
		return b.String()
	}

	if m.viewer != nil {
		b.WriteString(view.Toolbar(true, m.viewer.CanSelect()))
		b.WriteString("\n\n")
		b.WriteString(m.viewerView())
		b.WriteString("\n")
		b.WriteString(m.messageLine())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(view.RenderAlbumStrip(m.engine.Albums.Get(), m.engine.CurrentAlbum.Get().ID, m.hasCover, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Toolbar(false, true))
	b.WriteString("\n\n")

	assets := m.engine.Assets.Get()
	columns := m.engine.Options().GridCount
	switch {
	case len(assets) == 0 && m.engine.Switching.Get():
		b.WriteString("Loading assets...\n")
	case len(assets) == 0:
		b.WriteString("No assets in this album.\n")
	default:
		totalRows := state.GridRows(len(assets), columns)
		start, end := state.CenteredWindow(totalRows, m.cursor/columns, m.gridRowsPerPage())
		b.WriteString(view.RenderGrid(view.GridRenderInput{
			Assets:    assets,
			Columns:   columns,
			StartRow:  start,
			EndRow:    end,
			Cursor:    m.cursor,
			CellWidth: m.contentWidth()/columns - 1,
			StateOf: func(a media.Asset) view.CellState {
				return view.CellState{Position: m.engine.Position(a), Disabled: m.engine.IsDisabled(a)}
			},
			Theme: m.theme,
		}))
	}
	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) viewerView() string {
	v := m.viewer
	asset, ok := v.Current()
	preview := m.preview
	if preview == "" && m.previewErr != "" {
		preview = m.theme.MetaLabel.Render("preview unavailable: " + m.previewErr)
	}
	if view.ContainsKittyGraphicsEscape(preview) {
		preview = view.ClearKittyGraphicsSequence() + preview
	}
	return view.RenderViewer(view.ViewerRenderInput{
		Asset:     asset,
		HasAsset:  ok,
		Index:     v.Index(),
		Count:     v.Len(),
		CanSelect: v.CanSelect(),
		State:     view.CellState{Position: v.Position(asset), Disabled: v.CanSelect() && v.IsDisabled(asset)},
		Selected:  len(v.Selected()),
		MaxAssets: m.engine.Options().MaxAssets,
		Preview:   preview,
		Width:     m.contentWidth(),
		Theme:     m.theme,
	})
}

func (m Model) messageLine() string {
	warning := ""
	if err := m.engine.LastError.Get(); err != nil {
		warning = err.Error()
	}
	return view.Message(m.engine.Switching.Get(), warning, m.status, m.theme)
}

func (m Model) footer() string {
	album := m.engine.CurrentAlbum.Get()
	in := view.FooterInput{
		Album:     album.Name,
		Loaded:    len(m.engine.Assets.Get()),
		HasMore:   m.engine.HasMore.Get(),
		Selected:  len(m.engine.Selected.Get()),
		MaxAssets: m.engine.Options().MaxAssets,
		Mode:      "grid",
	}
	if cur, ok := m.engine.Cursor(album.ID); ok {
		in.Total = cur.TotalCount()
	}
	if m.library.changed {
		in.Mode = "grid (stale)"
	}
	return view.Footer(in, m.theme)
}

func (m Model) hasCover(albumID string) bool {
	data, ok := m.engine.CachedThumbnail(albumID)
	return ok && len(data) > 0
}

func assetLabel(asset media.Asset) string {
	if asset.Title != "" {
		return asset.Title
	}
	return asset.ID
}
