package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/assetpick/internal/media"
	tuitheme "github.com/glabrego/assetpick/internal/tui/theme"
)

type ViewerRenderInput struct {
	Asset     media.Asset
	HasAsset  bool
	Index     int
	Count     int
	CanSelect bool
	State     CellState
	Selected  int
	MaxAssets int
	Preview   string
	Width     int
	Theme     tuitheme.Theme
}

func RenderViewer(in ViewerRenderInput) string {
	th := in.Theme
	width := in.Width
	if width <= 0 {
		width = 80
	}
	mode := "preview"
	if in.CanSelect {
		mode = "select"
	}
	if !in.HasAsset {
		return th.ModePill.Render(mode) + "\nNothing to show.\n"
	}

	var b strings.Builder
	b.WriteString(th.ModePill.Render(mode))
	b.WriteString(" ")
	b.WriteString(th.MetaValue.Render(fmt.Sprintf("%d of %d", in.Index+1, in.Count)))
	b.WriteString("\n\n")

	title := in.Asset.Title
	if title == "" {
		title = in.Asset.ID
	}
	b.WriteString(th.StyleAssetTitle(in.Asset, Truncate(title, width), in.State.Disabled))
	b.WriteString("\n")

	meta := [][2]string{
		{"type", in.Asset.Type.String()},
		{"id", in.Asset.ID},
	}
	if in.Asset.Type == media.TypeVideo || in.Asset.Type == media.TypeAudio {
		meta = append(meta, [2]string{"duration", FormatDuration(in.Asset.Duration)})
	}
	if !in.Asset.ModifiedAt.IsZero() {
		meta = append(meta, [2]string{"modified", in.Asset.ModifiedAt.Local().Format("2006-01-02 15:04")})
	}
	if in.Asset.Path != "" {
		meta = append(meta, [2]string{"path", in.Asset.Path})
	}
	for _, kv := range meta {
		b.WriteString(th.MetaLabel.Render(kv[0]) + " " + th.MetaValue.Render(Truncate(kv[1], width)) + "\n")
	}

	if in.CanSelect {
		b.WriteString("\n")
		switch {
		case in.State.Position > 0:
			b.WriteString(th.Badge.Render(fmt.Sprintf("selected #%d", in.State.Position)))
		case in.State.Disabled:
			b.WriteString(th.Disabled.Render("cannot be selected"))
		default:
			b.WriteString(th.MetaLabel.Render("not selected"))
		}
		b.WriteString(" " + th.Count.Render(fmt.Sprintf("(%d/%d)", in.Selected, in.MaxAssets)))
		b.WriteString("\n")
	}

	if preview := strings.TrimSpace(in.Preview); preview != "" {
		b.WriteString("\n")
		b.WriteString(in.Preview)
		b.WriteString("\n")
	}
	return b.String()
}
