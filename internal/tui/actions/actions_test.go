package actions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenAssetCmd_OpensFirst(t *testing.T) {
	var opened, copied string
	msg := OpenAssetCmd("a1", "/tmp/a.png",
		func(p string) error { opened = p; return nil },
		func(p string) error { copied = p; return nil },
	)()
	got, ok := msg.(OpenAssetSuccessMsg)
	if !ok {
		t.Fatalf("expected OpenAssetSuccessMsg, got %T", msg)
	}
	if !got.Opened || got.AssetID != "a1" || opened != "/tmp/a.png" || copied != "" {
		t.Fatalf("unexpected open result: %+v opened=%q copied=%q", got, opened, copied)
	}
}

func TestOpenAssetCmd_FallsBackToCopy(t *testing.T) {
	var copied string
	msg := OpenAssetCmd("a1", "/tmp/a.png",
		func(string) error { return errors.New("no opener") },
		func(p string) error { copied = p; return nil },
	)()
	got, ok := msg.(OpenAssetSuccessMsg)
	if !ok {
		t.Fatalf("expected OpenAssetSuccessMsg, got %T", msg)
	}
	if got.Opened || copied != "/tmp/a.png" || !strings.Contains(got.Status, "copied") {
		t.Fatalf("unexpected fallback result: %+v", got)
	}
}

func TestOpenAssetCmd_BothFail(t *testing.T) {
	fail := func(string) error { return errors.New("nope") }
	msg := OpenAssetCmd("a1", "/tmp/a.png", fail, fail)()
	if _, ok := msg.(OpenAssetErrorMsg); !ok {
		t.Fatalf("expected OpenAssetErrorMsg, got %T", msg)
	}
}

func TestCopyPathCmd(t *testing.T) {
	msg := CopyPathCmd("a1", "/tmp/a.png", func(string) error { return nil })()
	if got, ok := msg.(OpenAssetSuccessMsg); !ok || got.Status != "Path copied to clipboard" {
		t.Fatalf("unexpected copy result: %#v", msg)
	}
	msg = CopyPathCmd("a1", "/tmp/a.png", nil)()
	if _, ok := msg.(OpenAssetErrorMsg); !ok {
		t.Fatalf("expected OpenAssetErrorMsg without clipboard, got %T", msg)
	}
}

func TestPreviewCmd(t *testing.T) {
	var gotWidth int
	var gotMax int64
	cmd := PreviewCmd("a1", "/x.png", 60, 1024,
		func(_ string, max int64) ([]byte, error) { gotMax = max; return []byte("img"), nil },
		func(data []byte, width int) (string, error) { gotWidth = width; return "<" + string(data) + ">", nil },
	)
	msg := cmd()
	got, ok := msg.(PreviewSuccessMsg)
	if !ok {
		t.Fatalf("expected PreviewSuccessMsg, got %T", msg)
	}
	if got.Preview != "<img>" || gotWidth != 60 || gotMax != 1024 {
		t.Fatalf("unexpected preview: %+v width=%d max=%d", got, gotWidth, gotMax)
	}

	failing := PreviewCmd("a1", "/x.png", 60, 1024,
		func(string, int64) ([]byte, error) { return nil, errors.New("gone") },
		func([]byte, int) (string, error) { return "", nil },
	)
	if msg, ok := failing().(PreviewErrorMsg); !ok || !strings.Contains(msg.Err.Error(), "read asset") {
		t.Fatalf("unexpected failure message: %#v", failing())
	}
	if PreviewCmd("a1", "/x.png", 60, 1024, nil, nil) != nil {
		t.Fatal("expected nil command without render function")
	}
}

func TestReadLimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := ReadLimited(path, 10)
	if err != nil || string(data) != "0123456789" {
		t.Fatalf("unexpected read: %q %v", data, err)
	}
	if _, err := ReadLimited(path, 9); err == nil {
		t.Fatal("expected size limit error")
	}
	if _, err := ReadLimited(filepath.Join(t.TempDir(), "missing"), 10); err == nil {
		t.Fatal("expected error for missing file")
	}
}
