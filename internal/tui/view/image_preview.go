package view

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const imagePreviewRows = 18

// MaxPreviewBytes caps how much of a file is handed to chafa.
const MaxPreviewBytes = 5 * 1024 * 1024

// RenderImagePreview draws image data as terminal graphics through chafa.
func RenderImagePreview(imageData []byte, width int) (string, error) {
	if width < 30 {
		width = 40
	}
	if len(imageData) == 0 {
		return "", fmt.Errorf("no image data")
	}

	chafaPath, err := exec.LookPath("chafa")
	if err != nil {
		return "", fmt.Errorf("chafa is not installed")
	}

	args := []string{
		"--size", fmt.Sprintf("%dx%d", width, imagePreviewRows),
		"--view-size", fmt.Sprintf("%dx%d", width, imagePreviewRows),
		"--align", "top,center",
		"--format", "symbols",
		"-",
	}
	if SupportsKittyGraphics() {
		args = []string{
			"--size", fmt.Sprintf("%dx%d", width, imagePreviewRows),
			"--view-size", fmt.Sprintf("%dx%d", width, imagePreviewRows),
			"--align", "top,center",
			"--format", "kitty",
			"--passthrough", KittyPassthroughMode(),
			"--relative", "on",
			"-",
		}
	}
	cmd := exec.Command(chafaPath, args...)
	cmd.Stdin = bytes.NewReader(imageData)
	output, err := cmd.CombinedOutput()
	raw := string(output)
	trimmed := strings.TrimSpace(raw)

	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, trimmed)
	}
	if SupportsKittyGraphics() && ContainsKittyGraphicsEscape(raw) {
		return strings.TrimRight(raw, "\r\n"), nil
	}
	if trimmed == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

func SupportsKittyGraphics() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	termProgram := strings.ToLower(strings.TrimSpace(os.Getenv("TERM_PROGRAM")))
	if strings.Contains(termProgram, "ghostty") || strings.Contains(termProgram, "kitty") {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return strings.Contains(term, "xterm-kitty") || strings.Contains(term, "ghostty")
}

func ContainsKittyGraphicsEscape(s string) bool {
	return strings.Contains(s, "\x1b_G")
}

func ClearKittyGraphicsSequence() string {
	base := "\x1b_Ga=d,d=A\x1b\\"
	if os.Getenv("TMUX") == "" {
		return base
	}
	escaped := strings.ReplaceAll(base, "\x1b", "\x1b\x1b")
	return "\x1bPtmux;\x1b" + escaped + "\x1b\\"
}

func KittyPassthroughMode() string {
	if os.Getenv("TMUX") != "" {
		return "screen"
	}
	return "none"
}
