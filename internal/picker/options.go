package picker

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/glabrego/assetpick/internal/media"
)

// ErrInvalidConfiguration is returned by New for options that can never work.
var ErrInvalidConfiguration = errors.New("invalid picker configuration")

const (
	DefaultMaxAssets     = 9
	DefaultPageSize      = 80
	DefaultGridCount     = 4
	DefaultThumbnailSize = 80
)

// Options configure a picking session.
type Options struct {
	// MaxAssets bounds the selection. 1 puts the picker in single mode.
	MaxAssets int
	// PageSize is the number of assets fetched per page. It must be a
	// multiple of GridCount so pages fill whole grid rows.
	PageSize  int
	GridCount int
	// RequestType restricts which asset types the catalog is asked for.
	RequestType media.RequestType
	// TypeExclusive locks the selection to the type of its first asset.
	TypeExclusive bool
	Filter        FilterFunc
	// ThumbnailSize is the pixel size requested for album covers.
	ThumbnailSize int
	// Selected are assets already chosen when the session starts.
	Selected []media.Asset
	Logger   *zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxAssets:     DefaultMaxAssets,
		PageSize:      DefaultPageSize,
		GridCount:     DefaultGridCount,
		RequestType:   media.RequestAll,
		ThumbnailSize: DefaultThumbnailSize,
	}
}

func (o Options) Validate() error {
	if o.MaxAssets < 1 {
		return fmt.Errorf("%w: max assets must be at least 1, got %d", ErrInvalidConfiguration, o.MaxAssets)
	}
	if o.GridCount < 1 {
		return fmt.Errorf("%w: grid count must be at least 1, got %d", ErrInvalidConfiguration, o.GridCount)
	}
	if o.PageSize < 1 {
		return fmt.Errorf("%w: page size must be at least 1, got %d", ErrInvalidConfiguration, o.PageSize)
	}
	if o.PageSize%o.GridCount != 0 {
		return fmt.Errorf("%w: page size %d is not a multiple of grid count %d", ErrInvalidConfiguration, o.PageSize, o.GridCount)
	}
	if o.ThumbnailSize < 1 {
		return fmt.Errorf("%w: thumbnail size must be at least 1, got %d", ErrInvalidConfiguration, o.ThumbnailSize)
	}
	if o.RequestType&media.RequestAll == 0 {
		return fmt.Errorf("%w: request type is empty", ErrInvalidConfiguration)
	}
	if len(o.Selected) > o.MaxAssets {
		return fmt.Errorf("%w: %d preselected assets exceed max assets %d", ErrInvalidConfiguration, len(o.Selected), o.MaxAssets)
	}
	seen := make(map[string]struct{}, len(o.Selected))
	for _, a := range o.Selected {
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: asset %s preselected twice", ErrInvalidConfiguration, a.ID)
		}
		seen[a.ID] = struct{}{}
		if o.TypeExclusive && o.Filter == nil && a.Type != o.Selected[0].Type {
			return fmt.Errorf("%w: preselected asset %s is a %s but the selection is locked to %s", ErrInvalidConfiguration, a.ID, a.Type, o.Selected[0].Type)
		}
	}
	return nil
}

func (o Options) rules() Rules {
	return Rules{MaxAssets: o.MaxAssets, TypeExclusive: o.TypeExclusive, Filter: o.Filter}
}

// ReadAheadRows is how many grid rows before the end of the loaded list the
// next page is requested.
const ReadAheadRows = 3

// ShouldLoadMore reports whether a viewer positioned at index position in a
// list of loaded items is close enough to the end to fetch the next page.
func ShouldLoadMore(position, loaded, gridCount int) bool {
	if loaded == 0 {
		return false
	}
	return position >= loaded-ReadAheadRows*gridCount
}
