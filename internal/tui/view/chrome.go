package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/assetpick/internal/tui/theme"
)

func Toolbar(inViewer, canSelect bool) string {
	if inViewer {
		if canSelect {
			return "h/l prev/next | space select | o open | esc done | ? help"
		}
		return "h/l prev/next | o open | esc back | ? help"
	}
	return "hjkl move | tab album | space select | enter view | p preview | c confirm | r reload | ? help"
}

// FooterInput is the status line under the grid.
type FooterInput struct {
	Album     string
	Loaded    int
	Total     int
	HasMore   bool
	Selected  int
	MaxAssets int
	Mode      string
}

func Footer(in FooterInput, th tuitheme.Theme) string {
	more := "end"
	if in.HasMore {
		more = "more"
	}
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(in.Mode),
		th.MetaLabel.Render("album") + " " + th.MetaValue.Render(in.Album),
		th.MetaValue.Render(fmt.Sprintf("%d/%d loaded", in.Loaded, in.Total)) + " " + th.MetaLabel.Render(more),
		th.MetaLabel.Render("selected") + " " + th.Count.Render(fmt.Sprintf("%d/%d", in.Selected, in.MaxAssets)),
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, warning, status string, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	if loading {
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
	}
	if warning != "" {
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func Help() string {
	lines := []string{
		"Grid:",
		"  h/j/k/l or arrows move, pgup/pgdown jump, more assets load as you approach the end",
		"Albums:",
		"  tab/shift+tab switch album, r reloads after the library changed",
		"Selection:",
		"  space toggles the asset under the cursor, badges show the pick order",
		"Viewer:",
		"  enter browses the album with selection, p previews the current picks",
		"  esc closes the viewer and keeps the picks made inside it",
		"Finish:",
		"  c confirms the selection, q quits without picking",
	}
	return strings.Join(lines, "\n")
}
