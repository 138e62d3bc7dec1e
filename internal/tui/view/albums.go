package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/assetpick/internal/media"
	tuitheme "github.com/glabrego/assetpick/internal/tui/theme"
)

// RenderAlbumStrip lists albums on one line. Albums whose cover is cached
// carry a ◆ marker.
func RenderAlbumStrip(albums []media.Album, currentID string, hasCover func(albumID string) bool, th tuitheme.Theme) string {
	if len(albums) == 0 {
		return th.MetaLabel.Render("no albums")
	}
	parts := make([]string, 0, len(albums))
	for _, album := range albums {
		marker := ""
		if hasCover != nil && hasCover(album.ID) {
			marker = "◆ "
		}
		label := fmt.Sprintf("%s%s (%d)", marker, album.Name, album.AssetCount)
		if album.ID == currentID {
			parts = append(parts, th.AlbumActive.Render(label))
			continue
		}
		parts = append(parts, th.AlbumPill.Render(label))
	}
	return strings.Join(parts, " ")
}
