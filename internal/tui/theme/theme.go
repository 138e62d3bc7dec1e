package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/assetpick/internal/media"
)

type Theme struct {
	Title       lipgloss.Style
	ModePill    lipgloss.Style
	AlbumPill   lipgloss.Style
	AlbumActive lipgloss.Style
	Count       lipgloss.Style
	ActiveLine  lipgloss.Style
	Badge       lipgloss.Style
	Disabled    lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style

	TitleImage lipgloss.Style
	TitleVideo lipgloss.Style
	TitleAudio lipgloss.Style
	TitleOther lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		AlbumPill:   lipgloss.NewStyle().Foreground(cpSubtext0).Padding(0, 1),
		AlbumActive: lipgloss.NewStyle().Bold(true).Foreground(cpTeal).Background(cpSurface0).Padding(0, 1),
		Count:       lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		Badge:       lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		Disabled:    lipgloss.NewStyle().Foreground(cpOverlay0).Strikethrough(true),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		TitleImage:  lipgloss.NewStyle().Foreground(cpText),
		TitleVideo: lipgloss.NewStyle().
			Italic(true).
			Foreground(cpLavender),
		TitleAudio: lipgloss.NewStyle().Foreground(cpRosewater),
		TitleOther: lipgloss.NewStyle().Foreground(cpSubtext0),
	}
}

// StyleAssetTitle colours title by asset type; disabled assets are greyed
// out regardless.
func (t Theme) StyleAssetTitle(asset media.Asset, title string, disabled bool) string {
	if title == "" {
		return title
	}
	if disabled {
		return t.Disabled.Render(title)
	}
	switch asset.Type {
	case media.TypeImage:
		return t.TitleImage.Render(title)
	case media.TypeVideo:
		return t.TitleVideo.Render(title)
	case media.TypeAudio:
		return t.TitleAudio.Render(title)
	default:
		return t.TitleOther.Render(title)
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
