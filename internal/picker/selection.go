package picker

import "github.com/glabrego/assetpick/internal/media"

// Outcome reports what Select did. Only Selected changes the set.
type Outcome int

const (
	Selected Outcome = iota
	AlreadySelected
	Disabled
	LimitReached
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case AlreadySelected:
		return "already selected"
	case Disabled:
		return "disabled"
	case LimitReached:
		return "limit reached"
	}
	return "unknown"
}

// FilterFunc decides whether candidate may not be selected. defaultDisabled
// is the type-exclusivity verdict; the returned value replaces it.
type FilterFunc func(candidate media.Asset, selected []media.Asset, defaultDisabled bool) bool

// Rules are the constraints a Selection enforces.
type Rules struct {
	MaxAssets     int
	TypeExclusive bool
	Filter        FilterFunc
}

func (r Rules) single() bool {
	return r.MaxAssets == 1
}

// Selection is an ordered, duplicate-free, bounded list of assets.
type Selection struct {
	rules  Rules
	assets []media.Asset
	ids    map[string]struct{}
}

// NewSelection builds a selection seeded with assets. Duplicates and
// anything past MaxAssets are dropped.
func NewSelection(rules Rules, seed []media.Asset) *Selection {
	s := &Selection{rules: rules}
	s.Replace(seed)
	return s
}

func (s *Selection) Select(asset media.Asset) Outcome {
	if s.Contains(asset) {
		return AlreadySelected
	}
	if s.IsDisabled(asset) {
		return Disabled
	}
	if s.rules.single() {
		s.Clear()
	} else if s.IsFull() {
		return LimitReached
	}
	s.assets = append(s.assets, asset)
	s.ids[asset.ID] = struct{}{}
	return Selected
}

func (s *Selection) Unselect(asset media.Asset) bool {
	if !s.Contains(asset) {
		return false
	}
	delete(s.ids, asset.ID)
	for i, a := range s.assets {
		if a.ID == asset.ID {
			s.assets = append(s.assets[:i:i], s.assets[i+1:]...)
			break
		}
	}
	return true
}

func (s *Selection) Contains(asset media.Asset) bool {
	_, ok := s.ids[asset.ID]
	return ok
}

// Position is the 1-based place of asset in selection order, or 0.
func (s *Selection) Position(asset media.Asset) int {
	if !s.Contains(asset) {
		return 0
	}
	for i, a := range s.assets {
		if a.ID == asset.ID {
			return i + 1
		}
	}
	return 0
}

// IsDisabled reports whether Select would refuse asset on the type rule or
// the custom filter. Already selected assets are never disabled.
func (s *Selection) IsDisabled(asset media.Asset) bool {
	if s.Contains(asset) {
		return false
	}
	disabled := false
	if s.rules.TypeExclusive && len(s.assets) > 0 {
		disabled = asset.Type != s.assets[0].Type
	}
	if s.rules.Filter != nil {
		disabled = s.rules.Filter(asset, s.Assets(), disabled)
	}
	return disabled
}

func (s *Selection) IsEmpty() bool { return len(s.assets) == 0 }

func (s *Selection) IsFull() bool { return len(s.assets) >= s.rules.MaxAssets }

func (s *Selection) Len() int { return len(s.assets) }

func (s *Selection) Max() int { return s.rules.MaxAssets }

// LockedType is the type every further pick must share, when the type rule
// is on and something is selected.
func (s *Selection) LockedType() (media.AssetType, bool) {
	if !s.rules.TypeExclusive || len(s.assets) == 0 {
		return media.TypeOther, false
	}
	return s.assets[0].Type, true
}

// Assets returns a copy of the selection in order.
func (s *Selection) Assets() []media.Asset {
	return append([]media.Asset(nil), s.assets...)
}

func (s *Selection) Clone() *Selection {
	return NewSelection(s.rules, s.assets)
}

// Replace swaps the contents wholesale, keeping the set invariants.
func (s *Selection) Replace(assets []media.Asset) {
	s.assets = make([]media.Asset, 0, len(assets))
	s.ids = make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if len(s.assets) >= s.rules.MaxAssets {
			break
		}
		if _, dup := s.ids[a.ID]; dup {
			continue
		}
		s.assets = append(s.assets, a)
		s.ids[a.ID] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.assets = s.assets[:0]
	s.ids = make(map[string]struct{})
}
