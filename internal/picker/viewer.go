package picker

import (
	"github.com/google/uuid"

	"github.com/glabrego/assetpick/internal/media"
)

type ViewerMode int

const (
	// PreviewOnly viewers browse assets and cannot change the selection.
	PreviewOnly ViewerMode = iota
	// SelectionMode viewers edit a private copy of the selection that
	// replaces the engine's selection when the viewer closes.
	SelectionMode
)

// Viewer is the state behind a full-screen asset viewer. It never shares
// storage with the engine's selection.
type Viewer struct {
	id        uuid.UUID
	mode      ViewerMode
	assets    []media.Asset
	index     int
	selection *Selection
}

// OpenViewer starts a viewer over assets positioned at index. Opening a new
// viewer while another is open makes the old one stale: closing it later
// merges nothing.
func (e *Engine) OpenViewer(assets []media.Asset, index int, mode ViewerMode) *Viewer {
	v := &Viewer{
		id:     uuid.New(),
		mode:   mode,
		assets: append([]media.Asset(nil), assets...),
	}
	v.Seek(index)
	if mode == SelectionMode {
		v.selection = e.selection.Clone()
	}
	if e.viewer != nil {
		e.log.Debug().Str("viewer", e.viewer.id.String()).Msg("replacing open viewer")
	}
	if !e.closed {
		e.viewer = v
	}
	e.log.Debug().Str("viewer", v.id.String()).Int("assets", len(v.assets)).Bool("selecting", mode == SelectionMode).Msg("viewer opened")
	return v
}

// CloseViewer ends v and, for selection-mode viewers, replaces the
// engine's selection with the viewer's. It reports whether a merge
// happened. Viewers that are not the open one are ignored.
func (e *Engine) CloseViewer(v *Viewer) bool {
	if v == nil || e.viewer != v {
		return false
	}
	e.viewer = nil
	if v.selection == nil {
		return false
	}
	e.selection.Replace(v.selection.Assets())
	e.Selected.set(e.selection.Assets())
	e.log.Debug().Str("viewer", v.id.String()).Int("selected", e.selection.Len()).Msg("viewer selection merged")
	return true
}

// OpenedViewer returns the viewer currently open, if any.
func (e *Engine) OpenedViewer() (*Viewer, bool) {
	return e.viewer, e.viewer != nil
}

func (v *Viewer) ID() uuid.UUID { return v.id }

func (v *Viewer) Mode() ViewerMode { return v.mode }

func (v *Viewer) CanSelect() bool { return v.selection != nil }

func (v *Viewer) Select(asset media.Asset) Outcome {
	if v.selection == nil {
		return Disabled
	}
	return v.selection.Select(asset)
}

func (v *Viewer) Unselect(asset media.Asset) bool {
	if v.selection == nil {
		return false
	}
	return v.selection.Unselect(asset)
}

func (v *Viewer) Contains(asset media.Asset) bool {
	return v.selection != nil && v.selection.Contains(asset)
}

func (v *Viewer) Position(asset media.Asset) int {
	if v.selection == nil {
		return 0
	}
	return v.selection.Position(asset)
}

func (v *Viewer) IsDisabled(asset media.Asset) bool {
	return v.selection == nil || v.selection.IsDisabled(asset)
}

// Selected is the viewer's private selection, nil for preview viewers.
func (v *Viewer) Selected() []media.Asset {
	if v.selection == nil {
		return nil
	}
	return v.selection.Assets()
}

func (v *Viewer) Len() int { return len(v.assets) }

func (v *Viewer) Index() int { return v.index }

// Current is the asset on screen. ok is false for an empty viewer.
func (v *Viewer) Current() (media.Asset, bool) {
	if len(v.assets) == 0 {
		return media.Asset{}, false
	}
	return v.assets[v.index], true
}

// Seek moves to index, clamped to the asset list.
func (v *Viewer) Seek(index int) {
	switch {
	case len(v.assets) == 0 || index < 0:
		v.index = 0
	case index >= len(v.assets):
		v.index = len(v.assets) - 1
	default:
		v.index = index
	}
}

func (v *Viewer) Next() bool {
	if v.index+1 >= len(v.assets) {
		return false
	}
	v.index++
	return true
}

func (v *Viewer) Prev() bool {
	if v.index == 0 {
		return false
	}
	v.index--
	return true
}
