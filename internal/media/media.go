package media

import (
	"fmt"
	"strings"
	"time"
)

// AllAlbumID identifies the synthetic album that aggregates every asset.
const AllAlbumID = "all"

type AssetType int

const (
	TypeOther AssetType = iota
	TypeImage
	TypeVideo
	TypeAudio
)

func (t AssetType) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypeVideo:
		return "video"
	case TypeAudio:
		return "audio"
	default:
		return "other"
	}
}

func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return TypeImage, nil
	case "video":
		return TypeVideo, nil
	case "audio":
		return TypeAudio, nil
	case "other", "":
		return TypeOther, nil
	}
	return TypeOther, fmt.Errorf("unknown asset type: %s", s)
}

func (t AssetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AssetType) UnmarshalText(b []byte) error {
	parsed, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Asset is a single media item owned by the catalog. Two assets are the
// same item when their IDs match.
type Asset struct {
	ID         string    `json:"id"`
	Type       AssetType `json:"type"`
	Duration   int       `json:"duration"`
	Title      string    `json:"title"`
	Path       string    `json:"path,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (a Asset) Same(other Asset) bool {
	return a.ID == other.ID
}

// Album is a named grouping of assets as reported by the catalog.
type Album struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AssetCount int    `json:"asset_count"`
	IsAll      bool   `json:"is_all"`
}

// RequestType is the set of asset types a picking session asks for.
type RequestType uint8

const (
	RequestImage RequestType = 1 << iota
	RequestVideo
	RequestAudio
	RequestOther

	RequestCommon = RequestImage | RequestVideo
	RequestAll    = RequestImage | RequestVideo | RequestAudio | RequestOther
)

func (r RequestType) Allows(t AssetType) bool {
	return r&requestBit(t) != 0
}

// Types lists the asset types included in r, in declaration order.
func (r RequestType) Types() []AssetType {
	out := make([]AssetType, 0, 4)
	for _, t := range []AssetType{TypeOther, TypeImage, TypeVideo, TypeAudio} {
		if r.Allows(t) {
			out = append(out, t)
		}
	}
	return out
}

func (r RequestType) String() string {
	switch r {
	case RequestAll:
		return "all"
	case RequestCommon:
		return "common"
	case RequestImage:
		return "image"
	case RequestVideo:
		return "video"
	case RequestAudio:
		return "audio"
	}
	names := make([]string, 0, 4)
	for _, t := range r.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, "+")
}

func ParseRequestType(s string) (RequestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return RequestAll, nil
	case "common":
		return RequestCommon, nil
	case "image":
		return RequestImage, nil
	case "video":
		return RequestVideo, nil
	case "audio":
		return RequestAudio, nil
	}
	return 0, fmt.Errorf("request type must be one of image, video, audio, common, all: %s", s)
}

func requestBit(t AssetType) RequestType {
	switch t {
	case TypeImage:
		return RequestImage
	case TypeVideo:
		return RequestVideo
	case TypeAudio:
		return RequestAudio
	default:
		return RequestOther
	}
}
