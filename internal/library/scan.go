// Package library turns a directory tree into albums and assets.
//
// Every top-level directory under the root becomes an album holding the
// media files found beneath it; files directly in the root form an album of
// their own. Assets are identified by their slash-separated path relative to
// the root, so re-scanning yields stable IDs.
package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/assetpick/internal/media"
)

// RootAlbumID identifies the album of files that sit directly in the root.
const RootAlbumID = "."

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
}

// Classify reports the asset type for a file name and whether it is media
// at all.
func Classify(name string) (media.AssetType, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := imageExtensions[ext]; ok {
		return media.TypeImage, true
	}
	if _, ok := videoExtensions[ext]; ok {
		return media.TypeVideo, true
	}
	if _, ok := audioExtensions[ext]; ok {
		return media.TypeAudio, true
	}
	return media.TypeOther, false
}

// ScanOptions configures directory scanning.
type ScanOptions struct {
	// MaxDepth limits recursion inside each album. 0 = unlimited.
	MaxDepth int
	// Concurrency caps how many albums are walked at once. 0 = 4.
	Concurrency int
}

// Album is one scanned album with its assets, newest first.
type Album struct {
	media.Album
	Assets []media.Asset
}

// Index is the result of a scan.
type Index struct {
	Root   string
	Albums []Album
}

// Scan walks root and builds an Index. Unreadable entries are skipped with
// a warning; only a missing or unreadable root is an error.
func Scan(ctx context.Context, root string, opts ScanOptions) (Index, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Index{}, fmt.Errorf("resolve library root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return Index{}, fmt.Errorf("library root not found: %s", absRoot)
		}
		return Index{}, fmt.Errorf("stat library root: %w", err)
	}
	if !info.IsDir() {
		return Index{}, fmt.Errorf("library root is not a directory: %s", absRoot)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return Index{}, fmt.Errorf("read library root: %w", err)
	}

	log.Info().Str("root", absRoot).Int("max_depth", opts.MaxDepth).Msg("Scanning media library")

	dirs := make([]string, 0, len(entries))
	var rootFiles []fs.DirEntry
	for _, de := range entries {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		if de.IsDir() {
			dirs = append(dirs, de.Name())
			continue
		}
		rootFiles = append(rootFiles, de)
	}
	sort.Strings(dirs)

	albums := make([]Album, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, dir := range dirs {
		g.Go(func() error {
			assets, err := walkAlbum(gctx, absRoot, dir, opts.MaxDepth)
			if err != nil {
				return err
			}
			albums[i] = newAlbum(dir, dir, assets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Index{}, err
	}

	out := make([]Album, 0, len(albums)+1)
	if assets := rootAssets(absRoot, rootFiles); len(assets) > 0 {
		out = append(out, newAlbum(RootAlbumID, filepath.Base(absRoot), assets))
	}
	for _, a := range albums {
		if len(a.Assets) > 0 {
			out = append(out, a)
		}
	}

	log.Info().Str("root", absRoot).Int("albums", len(out)).Msg("Library scan complete")
	return Index{Root: absRoot, Albums: out}, nil
}

func walkAlbum(ctx context.Context, root, dir string, maxDepth int) ([]media.Asset, error) {
	albumPath := filepath.Join(root, dir)
	baseDepth := strings.Count(albumPath, string(os.PathSeparator))

	var assets []media.Asset
	err := filepath.WalkDir(albumPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path, skipping")
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != albumPath {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if maxDepth > 0 && strings.Count(path, string(os.PathSeparator))-baseDepth >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if asset, ok := assetFor(root, path, d); ok {
			assets = append(assets, asset)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk album %s: %w", dir, err)
	}
	return assets, nil
}

func rootAssets(root string, files []fs.DirEntry) []media.Asset {
	assets := make([]media.Asset, 0, len(files))
	for _, de := range files {
		if asset, ok := assetFor(root, filepath.Join(root, de.Name()), de); ok {
			assets = append(assets, asset)
		}
	}
	return assets
}

func assetFor(root, path string, d fs.DirEntry) (media.Asset, bool) {
	kind, ok := Classify(d.Name())
	if !ok {
		return media.Asset{}, false
	}
	info, err := d.Info()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to stat media file, skipping")
		return media.Asset{}, false
	}
	if !info.Mode().IsRegular() {
		return media.Asset{}, false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return media.Asset{}, false
	}
	return media.Asset{
		ID:         filepath.ToSlash(rel),
		Type:       kind,
		Title:      d.Name(),
		Path:       path,
		ModifiedAt: info.ModTime().UTC(),
	}, true
}

func newAlbum(id, name string, assets []media.Asset) Album {
	sort.SliceStable(assets, func(i, j int) bool {
		if !assets[i].ModifiedAt.Equal(assets[j].ModifiedAt) {
			return assets[i].ModifiedAt.After(assets[j].ModifiedAt)
		}
		return assets[i].ID < assets[j].ID
	})
	return Album{
		Album:  media.Album{ID: id, Name: name, AssetCount: len(assets)},
		Assets: assets,
	}
}
