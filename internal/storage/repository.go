package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/library"
	"github.com/glabrego/assetpick/internal/media"
)

// AllAlbumName is the display name of the aggregate album.
const AllAlbumName = "All"

const metaRootKey = "library_root"

// Repository is the SQLite library index. It implements catalog.Catalog.
type Repository struct {
	db  *sql.DB
	hub catalog.Hub
}

var _ catalog.Catalog = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS albums (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS assets (
  id TEXT PRIMARY KEY,
  album_id TEXT NOT NULL,
  type INTEGER NOT NULL,
  duration INTEGER NOT NULL DEFAULT 0,
  title TEXT NOT NULL,
  path TEXT NOT NULL DEFAULT '',
  modified_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assets_album_modified ON assets(album_id, modified_at DESC, id);
CREATE INDEX IF NOT EXISTS idx_assets_modified ON assets(modified_at DESC, id);
CREATE TABLE IF NOT EXISTS thumbnails (
  album_id TEXT NOT NULL,
  size INTEGER NOT NULL,
  data BLOB NOT NULL,
  PRIMARY KEY (album_id, size)
);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveLibrary replaces the whole index with idx and notifies subscribers.
// Cached thumbnails are dropped since album contents may have changed.
func (r *Repository) SaveLibrary(ctx context.Context, idx library.Index) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM assets`, `DELETE FROM albums`, `DELETE FROM thumbnails`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}

	albumStmt, err := tx.PrepareContext(ctx, `INSERT INTO albums (id, name, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare album statement: %w", err)
	}
	defer albumStmt.Close()

	assetStmt, err := tx.PrepareContext(ctx, `
INSERT INTO assets (id, album_id, type, duration, title, path, modified_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  album_id=excluded.album_id,
  type=excluded.type,
  duration=excluded.duration,
  title=excluded.title,
  path=excluded.path,
  modified_at=excluded.modified_at
`)
	if err != nil {
		return fmt.Errorf("prepare asset statement: %w", err)
	}
	defer assetStmt.Close()

	assetCount := 0
	for i, album := range idx.Albums {
		if album.ID == media.AllAlbumID {
			continue
		}
		if _, err := albumStmt.ExecContext(ctx, album.ID, album.Name, i); err != nil {
			return fmt.Errorf("save album %s: %w", album.ID, err)
		}
		for _, asset := range album.Assets {
			_, err := assetStmt.ExecContext(
				ctx,
				asset.ID,
				album.ID,
				int(asset.Type),
				asset.Duration,
				asset.Title,
				asset.Path,
				asset.ModifiedAt.UTC().UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("save asset %s: %w", asset.ID, err)
			}
			assetCount++
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, metaRootKey, idx.Root); err != nil {
		return fmt.Errorf("save library root: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Info().Int("albums", len(idx.Albums)).Int("assets", assetCount).Msg("Library index saved")
	r.hub.Notify()
	return nil
}

// SaveThumbnail stores pre-rendered cover bytes for an album.
func (r *Repository) SaveThumbnail(ctx context.Context, albumID string, size int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO thumbnails (album_id, size, data) VALUES (?, ?, ?)
ON CONFLICT(album_id, size) DO UPDATE SET data=excluded.data
`, albumID, size, data)
	if err != nil {
		return fmt.Errorf("save thumbnail %s: %w", albumID, err)
	}
	return nil
}

// Root returns the directory the index was built from, or "" for a mirrored
// library.
func (r *Repository) Root(ctx context.Context) (string, error) {
	var root string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaRootKey).Scan(&root)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query library root: %w", err)
	}
	return root, nil
}

func (r *Repository) HasAccess(ctx context.Context) bool {
	if err := r.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Library index not reachable")
		return false
	}
	root, err := r.Root(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Library root lookup failed")
		return false
	}
	if root == "" {
		return true
	}
	f, err := os.Open(root)
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("Library root not readable")
		return false
	}
	_ = f.Close()
	return true
}

func (r *Repository) ListAlbums(ctx context.Context, types media.RequestType) ([]media.Album, error) {
	filter, args := typeFilter("a.type", types)
	rows, err := r.db.QueryContext(ctx, `
SELECT al.id, al.name, COUNT(a.id)
FROM albums al
JOIN assets a ON a.album_id = al.id AND `+filter+`
GROUP BY al.id, al.name, al.position
ORDER BY al.position
`, args...)
	if err != nil {
		return nil, r.wrap("query albums", err)
	}
	defer rows.Close()

	albums := make([]media.Album, 1, 8)
	total := 0
	for rows.Next() {
		var album media.Album
		if err := rows.Scan(&album.ID, &album.Name, &album.AssetCount); err != nil {
			return nil, r.wrap("scan album", err)
		}
		total += album.AssetCount
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("rows iteration", err)
	}
	if total == 0 {
		return []media.Album{}, nil
	}
	albums[0] = media.Album{ID: media.AllAlbumID, Name: AllAlbumName, AssetCount: total, IsAll: true}
	return albums, nil
}

func (r *Repository) CountAssets(ctx context.Context, albumID string, types media.RequestType) (int, error) {
	where, args := assetScope(albumID, types)
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE `+where, args...).Scan(&count); err != nil {
		return 0, r.wrap("count assets", err)
	}
	return count, nil
}

func (r *Repository) ListAssets(ctx context.Context, albumID string, types media.RequestType, offset, limit int) ([]media.Asset, error) {
	if limit < 1 {
		return []media.Asset{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	where, args := assetScope(albumID, types)
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, type, duration, title, path, modified_at
FROM assets
WHERE `+where+`
ORDER BY modified_at DESC, id
LIMIT ? OFFSET ?
`, args...)
	if err != nil {
		return nil, r.wrap("query assets", err)
	}
	defer rows.Close()

	assets := make([]media.Asset, 0, limit)
	for rows.Next() {
		var (
			asset    media.Asset
			kind     int
			modified int64
		)
		if err := rows.Scan(&asset.ID, &kind, &asset.Duration, &asset.Title, &asset.Path, &modified); err != nil {
			return nil, r.wrap("scan asset", err)
		}
		asset.Type = media.AssetType(kind)
		asset.ModifiedAt = time.Unix(0, modified).UTC()
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("rows iteration", err)
	}
	return assets, nil
}

// FetchThumbnail returns a stored cover, or renders one from the album's
// newest image file and stores it. Albums without a local image yield nil.
func (r *Repository) FetchThumbnail(ctx context.Context, albumID string, size int) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM thumbnails WHERE album_id = ? AND size = ?`, albumID, size).Scan(&data)
	switch {
	case err == nil:
		return data, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, r.wrap("query thumbnail", err)
	}

	where, args := assetScope(albumID, media.RequestImage)
	var path string
	err = r.db.QueryRowContext(ctx, `
SELECT path FROM assets
WHERE `+where+` AND path != ''
ORDER BY modified_at DESC, id
LIMIT 1
`, args...).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap("query cover asset", err)
	}

	data, err = library.Thumbnail(path, size)
	if err != nil {
		return nil, fmt.Errorf("render thumbnail %s: %w", albumID, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if err := r.SaveThumbnail(ctx, albumID, size, data); err != nil {
		log.Warn().Err(err).Str("album", albumID).Msg("Failed to store rendered thumbnail")
	}
	return data, nil
}

func (r *Repository) Subscribe(fn func()) func() {
	return r.hub.Subscribe(fn)
}

// Watch polls the database for commits from any connection and notifies
// subscribers when the data version moves. It returns when ctx is done.
func (r *Repository) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open watch connection: %w", err)
	}
	defer conn.Close()

	version, err := dataVersion(ctx, conn)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		next, err := dataVersion(ctx, conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Msg("Library watch poll failed")
			continue
		}
		if next != version {
			version = next
			log.Debug().Int64("data_version", next).Msg("Library index changed")
			r.hub.Notify()
		}
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("query data version: %w", err)
	}
	return v, nil
}

func (r *Repository) wrap(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, catalog.ErrUnavailable, err)
}

// assetScope builds the WHERE clause selecting one album, or every album for
// the aggregate, restricted to types.
func assetScope(albumID string, types media.RequestType) (string, []any) {
	filter, args := typeFilter("type", types)
	if albumID == media.AllAlbumID {
		return filter, args
	}
	return "album_id = ? AND " + filter, append([]any{albumID}, args...)
}

func typeFilter(column string, types media.RequestType) (string, []any) {
	allowed := types.Types()
	if len(allowed) == 0 {
		return "0", nil
	}
	args := make([]any, 0, len(allowed))
	for _, t := range allowed {
		args = append(args, int(t))
	}
	return column + " IN (" + strings.TrimSuffix(strings.Repeat("?,", len(allowed)), ",") + ")", args
}
