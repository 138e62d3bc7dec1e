package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/assetpick/internal/library"
	"github.com/glabrego/assetpick/internal/media"
)

// MirrorPageSize is how many assets Mirror requests per call.
const MirrorPageSize = 200

// RemoteCatalog is the read side of a remote library used for mirroring.
type RemoteCatalog interface {
	ListAlbums(ctx context.Context, types media.RequestType) ([]media.Album, error)
	ListAssets(ctx context.Context, albumID string, types media.RequestType, offset, limit int) ([]media.Asset, error)
	FetchThumbnail(ctx context.Context, albumID string, size int) ([]byte, error)
}

type Repository interface {
	SaveLibrary(ctx context.Context, idx library.Index) error
	SaveThumbnail(ctx context.Context, albumID string, size int, data []byte) error
}

// Summary reports what an index or mirror run stored.
type Summary struct {
	Albums     int
	Assets     int
	Thumbnails int
}

type Service struct {
	remote RemoteCatalog
	repo   Repository
}

func NewService(remote RemoteCatalog, repo Repository) *Service {
	return &Service{remote: remote, repo: repo}
}

// Index scans root and replaces the stored library with the result.
func (s *Service) Index(ctx context.Context, root string, opts library.ScanOptions) (Summary, error) {
	idx, err := library.Scan(ctx, root, opts)
	if err != nil {
		return Summary{}, fmt.Errorf("scan library: %w", err)
	}
	if err := s.repo.SaveLibrary(ctx, idx); err != nil {
		return Summary{}, fmt.Errorf("save library to index: %w", err)
	}
	return summarize(idx), nil
}

// Mirror copies the remote library's albums, assets and album covers into
// the local index. Covers are fetched at thumbSize; 0 skips them.
func (s *Service) Mirror(ctx context.Context, types media.RequestType, thumbSize, concurrency int) (Summary, error) {
	if s.remote == nil {
		return Summary{}, fmt.Errorf("mirror library: no remote catalog configured")
	}
	albums, err := s.remote.ListAlbums(ctx, types)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch albums from remote: %w", err)
	}

	idx := library.Index{Albums: make([]library.Album, 0, len(albums))}
	for _, album := range albums {
		if album.IsAll || album.ID == media.AllAlbumID {
			continue
		}
		idx.Albums = append(idx.Albums, library.Album{Album: album})
	}

	if concurrency < 1 {
		concurrency = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range idx.Albums {
		g.Go(func() error {
			assets, err := s.fetchAlbum(gctx, idx.Albums[i].ID, types)
			if err != nil {
				return err
			}
			idx.Albums[i].Assets = assets
			idx.Albums[i].AssetCount = len(assets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	if err := s.repo.SaveLibrary(ctx, idx); err != nil {
		return Summary{}, fmt.Errorf("save mirrored library to index: %w", err)
	}
	summary := summarize(idx)

	if thumbSize < 1 {
		return summary, nil
	}
	for _, album := range albums {
		data, err := s.remote.FetchThumbnail(ctx, album.ID, thumbSize)
		if err != nil {
			log.Warn().Err(err).Str("album", album.ID).Msg("Failed to fetch remote album cover")
			continue
		}
		if len(data) == 0 {
			continue
		}
		if err := s.repo.SaveThumbnail(ctx, album.ID, thumbSize, data); err != nil {
			return summary, fmt.Errorf("save album cover to index: %w", err)
		}
		summary.Thumbnails++
	}
	return summary, nil
}

func (s *Service) fetchAlbum(ctx context.Context, albumID string, types media.RequestType) ([]media.Asset, error) {
	var assets []media.Asset
	for {
		page, err := s.remote.ListAssets(ctx, albumID, types, len(assets), MirrorPageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch assets for album %s from remote: %w", albumID, err)
		}
		assets = append(assets, page...)
		if len(page) < MirrorPageSize {
			break
		}
	}
	log.Debug().Str("album", albumID).Int("assets", len(assets)).Msg("Mirrored album")
	return assets, nil
}

func summarize(idx library.Index) Summary {
	summary := Summary{Albums: len(idx.Albums)}
	for _, album := range idx.Albums {
		summary.Assets += len(album.Assets)
	}
	return summary
}
