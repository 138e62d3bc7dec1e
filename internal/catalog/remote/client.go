// Package remote implements catalog.Catalog over a JSON media server.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/media"
)

// DefaultRequestsPerSecond paces calls when the caller does not choose.
const DefaultRequestsPerSecond = 10

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	hub     catalog.Hub
}

var _ catalog.Catalog = (*Client)(nil)

func NewClient(baseURL, token string, httpClient *http.Client, rps float64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *Client) HasAccess(ctx context.Context) bool {
	resp, err := c.do(ctx, "/access.json")
	if err != nil {
		log.Warn().Err(err).Msg("Remote catalog access check failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) ListAlbums(ctx context.Context, types media.RequestType) ([]media.Album, error) {
	q := make(url.Values)
	q.Set("types", types.String())

	var albums []media.Album
	if err := c.getJSON(ctx, "/albums.json?"+q.Encode(), "albums", &albums); err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []media.Album{}
	}
	return albums, nil
}

func (c *Client) CountAssets(ctx context.Context, albumID string, types media.RequestType) (int, error) {
	q := make(url.Values)
	q.Set("types", types.String())

	var body struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, albumPath(albumID, "count.json")+"?"+q.Encode(), "asset count", &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

func (c *Client) ListAssets(ctx context.Context, albumID string, types media.RequestType, offset, limit int) ([]media.Asset, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		return []media.Asset{}, nil
	}
	q := make(url.Values)
	q.Set("types", types.String())
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var assets []media.Asset
	if err := c.getJSON(ctx, albumPath(albumID, "assets.json")+"?"+q.Encode(), "assets", &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []media.Asset{}
	}
	return assets, nil
}

// FetchThumbnail treats 204 and 404 as "no cover right now".
func (c *Client) FetchThumbnail(ctx context.Context, albumID string, size int) ([]byte, error) {
	q := make(url.Values)
	q.Set("size", strconv.Itoa(size))

	resp, err := c.do(ctx, albumPath(albumID, "thumbnail")+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, statusError("fetch thumbnail", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w: %w", catalog.ErrUnavailable, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (c *Client) Subscribe(fn func()) func() {
	return c.hub.Subscribe(fn)
}

// Watch polls the server's library version and notifies subscribers when it
// changes. Poll failures are logged and retried on the next tick.
func (c *Client) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	version, err := c.version(ctx)
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
		next, err := c.version(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Msg("Remote library poll failed")
			continue
		}
		if next != version {
			version = next
			log.Debug().Str("version", next).Msg("Remote library changed")
			c.hub.Notify()
		}
	}
}

func (c *Client) version(ctx context.Context) (string, error) {
	var body struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/library/version.json", "library version", &body); err != nil {
		return "", err
	}
	return body.Version, nil
}

func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	resp, err := c.do(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("list "+resource, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", resource, catalog.ErrUnavailable, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request %s: %w", path, err)
		}
		return nil, fmt.Errorf("request %s failed: %w: %w", path, catalog.ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	kind := catalog.ErrUnavailable
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = catalog.ErrPermissionDenied
	}
	return fmt.Errorf("%s failed with status %d: %w: %s", op, resp.StatusCode, kind, strings.TrimSpace(string(body)))
}

func albumPath(albumID, leaf string) string {
	return "/albums/" + url.PathEscape(albumID) + "/" + leaf
}
