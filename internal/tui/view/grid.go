package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/assetpick/internal/media"
	tuitheme "github.com/glabrego/assetpick/internal/tui/theme"
)

// CellState is how a grid cell relates to the selection.
type CellState struct {
	Position int
	Disabled bool
}

type GridRenderInput struct {
	Assets    []media.Asset
	Columns   int
	StartRow  int
	EndRow    int
	Cursor    int
	CellWidth int
	StateOf   func(asset media.Asset) CellState
	Theme     tuitheme.Theme
}

func RenderGrid(in GridRenderInput) string {
	if len(in.Assets) == 0 || in.Columns <= 0 || in.StartRow >= in.EndRow || in.StartRow < 0 {
		return ""
	}
	width := in.CellWidth
	if width < 12 {
		width = 12
	}
	var b strings.Builder
	for row := in.StartRow; row < in.EndRow; row++ {
		cells := make([]string, 0, in.Columns)
		for col := 0; col < in.Columns; col++ {
			i := row*in.Columns + col
			if i >= len(in.Assets) {
				break
			}
			asset := in.Assets[i]
			st := CellState{}
			if in.StateOf != nil {
				st = in.StateOf(asset)
			}
			cells = append(cells, renderCell(asset, st, width, i == in.Cursor, in.Theme))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(asset media.Asset, st CellState, width int, active bool, th tuitheme.Theme) string {
	badge := "[ ]"
	switch {
	case st.Position > 0:
		badge = th.Badge.Render(fmt.Sprintf("[%d]", st.Position))
	case st.Disabled:
		badge = th.Disabled.Render("[-]")
	}
	prefix := "  "
	if active {
		prefix = "> "
	}
	title := asset.Title
	if title == "" {
		title = asset.ID
	}
	label := TypeIcon(asset) + " " + title
	avail := width - lipgloss.Width(prefix) - 4
	label = Truncate(label, avail)
	line := prefix + badge + " " + th.StyleAssetTitle(asset, label, st.Disabled)
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return th.RenderActiveLine(active, line)
}

func TypeIcon(asset media.Asset) string {
	switch asset.Type {
	case media.TypeImage:
		return "▣"
	case media.TypeVideo:
		if asset.Duration > 0 {
			return fmt.Sprintf("▶%s", FormatDuration(asset.Duration))
		}
		return "▶"
	case media.TypeAudio:
		return "♪"
	default:
		return "·"
	}
}

func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
