package platform

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ValidateAssetPath reports whether raw names an existing local file.
func ValidateAssetPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("asset has no local file")
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("asset file is missing: %s", trimmed)
		}
		return "", fmt.Errorf("stat asset file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("asset path is a directory: %s", trimmed)
	}
	return trimmed, nil
}

// OpenInDefaultApp hands path to the desktop's default application.
func OpenInDefaultApp(path string) error {
	name, args := openerCommand(runtime.GOOS, path)
	return exec.Command(name, args...).Run()
}

func openerCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func CopyToClipboard(text string) error {
	command, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}

func selectClipboardCommand(lookPath func(string) (string, error)) ([]string, error) {
	commands := [][]string{
		{"pbcopy"},
		{"xclip", "-selection", "clipboard"},
		{"wl-copy"},
	}
	for _, c := range commands {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}
