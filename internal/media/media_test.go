package media

import (
	"encoding/json"
	"testing"
)

func TestParseRequestType(t *testing.T) {
	cases := map[string]RequestType{
		"":       RequestAll,
		"any":    RequestAll,
		"Image":  RequestImage,
		"common": RequestCommon,
		"audio":  RequestAudio,
	}
	for in, want := range cases {
		got, err := ParseRequestType(in)
		if err != nil {
			t.Fatalf("ParseRequestType(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRequestType(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseRequestType("pictures"); err == nil {
		t.Fatal("expected error for unknown request type")
	}
}

func TestRequestTypeAllows(t *testing.T) {
	if !RequestCommon.Allows(TypeImage) || !RequestCommon.Allows(TypeVideo) {
		t.Fatal("common should allow images and videos")
	}
	if RequestCommon.Allows(TypeAudio) {
		t.Fatal("common should not allow audio")
	}
	if got := RequestCommon.Types(); len(got) != 2 || got[0] != TypeImage || got[1] != TypeVideo {
		t.Fatalf("unexpected types for common: %v", got)
	}
	if got := (RequestImage | RequestAudio).String(); got != "image+audio" {
		t.Fatalf("unexpected composite name: %q", got)
	}
}

func TestAssetJSONUsesTypeNames(t *testing.T) {
	raw, err := json.Marshal(Asset{ID: "a1", Type: TypeVideo, Duration: 12})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if decoded["type"] != "video" {
		t.Fatalf("expected type name in JSON, got %v", decoded["type"])
	}

	var asset Asset
	if err := json.Unmarshal([]byte(`{"id":"x","type":"audio"}`), &asset); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if asset.Type != TypeAudio {
		t.Fatalf("expected audio, got %v", asset.Type)
	}
	if err := json.Unmarshal([]byte(`{"id":"x","type":"hologram"}`), &asset); err == nil {
		t.Fatal("expected error for unknown type name")
	}
}
