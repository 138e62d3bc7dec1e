// Package actions builds the side-effecting commands the picker screen
// runs outside the engine: opening files and rendering previews.
package actions

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type OpenAssetSuccessMsg struct {
	Status  string
	AssetID string
	Opened  bool
}

type OpenAssetErrorMsg struct {
	AssetID string
	Err     error
}

type PreviewSuccessMsg struct {
	AssetID string
	Preview string
}

type PreviewErrorMsg struct {
	AssetID string
	Err     error
}

type ClearStatusMsg struct {
	ID int
}

// OpenAssetCmd opens path with openFn and falls back to copying it with
// copyFn.
func OpenAssetCmd(assetID, path string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(path); err == nil {
				return OpenAssetSuccessMsg{Status: "Opened asset in default app", AssetID: assetID, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(path); err == nil {
				return OpenAssetSuccessMsg{Status: "Could not open asset, path copied to clipboard", AssetID: assetID}
			}
		}
		return OpenAssetErrorMsg{AssetID: assetID, Err: fmt.Errorf("could not open asset or copy its path")}
	}
}

func CopyPathCmd(assetID, path string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(path); err == nil {
				return OpenAssetSuccessMsg{Status: "Path copied to clipboard", AssetID: assetID}
			}
		}
		return OpenAssetErrorMsg{AssetID: assetID, Err: fmt.Errorf("could not copy path to clipboard")}
	}
}

// PreviewCmd reads at most maxBytes of path and hands them to renderFn.
func PreviewCmd(assetID, path string, width int, maxBytes int64, readFn func(string, int64) ([]byte, error), renderFn func([]byte, int) (string, error)) tea.Cmd {
	if readFn == nil || renderFn == nil {
		return nil
	}
	return func() tea.Msg {
		data, err := readFn(path, maxBytes)
		if err != nil {
			return PreviewErrorMsg{AssetID: assetID, Err: fmt.Errorf("read asset: %w", err)}
		}
		preview, err := renderFn(data, width)
		if err != nil {
			return PreviewErrorMsg{AssetID: assetID, Err: err}
		}
		return PreviewSuccessMsg{AssetID: assetID, Preview: preview}
	}
}

// ReadLimited reads path, failing when the file exceeds maxBytes.
func ReadLimited(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxBytes)
	}
	return data, nil
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
