package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/glabrego/assetpick/internal/catalog"
	"github.com/glabrego/assetpick/internal/media"
)

func TestHasAccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/access.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if !NewClient(ts.URL, "secret", ts.Client(), 100).HasAccess(context.Background()) {
		t.Fatal("expected access with valid token")
	}
	if NewClient(ts.URL, "wrong", ts.Client(), 100).HasAccess(context.Background()) {
		t.Fatal("expected no access with invalid token")
	}
}

func TestListAlbums_SendsTypesAndParses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("types"); got != "common" {
			t.Errorf("unexpected types query: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"all","name":"All","asset_count":3,"is_all":true},{"id":"trip","name":"Trip","asset_count":3}]`))
	}))
	defer ts.Close()

	albums, err := NewClient(ts.URL, "", ts.Client(), 100).ListAlbums(context.Background(), media.RequestCommon)
	if err != nil {
		t.Fatalf("ListAlbums returned error: %v", err)
	}
	want := []media.Album{
		{ID: "all", Name: "All", AssetCount: 3, IsAll: true},
		{ID: "trip", Name: "Trip", AssetCount: 3},
	}
	if diff := cmp.Diff(want, albums); diff != "" {
		t.Fatalf("albums mismatch (-want +got):\n%s", diff)
	}
}

func TestListAssets_SendsPaging(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums/trip/assets.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("offset") != "8" || q.Get("limit") != "4" || q.Get("types") != "video" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"id":"v1","type":"video","duration":31,"title":"clip","modified_at":"2026-02-01T00:00:00Z"}]`))
	}))
	defer ts.Close()

	assets, err := NewClient(ts.URL, "", ts.Client(), 100).ListAssets(context.Background(), "trip", media.RequestVideo, 8, 4)
	if err != nil {
		t.Fatalf("ListAssets returned error: %v", err)
	}
	if len(assets) != 1 || assets[0].Type != media.TypeVideo || assets[0].Duration != 31 {
		t.Fatalf("unexpected assets: %+v", assets)
	}
}

func TestCountAssets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums/all/count.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":42}`))
	}))
	defer ts.Close()

	n, err := NewClient(ts.URL, "", ts.Client(), 100).CountAssets(context.Background(), media.AllAlbumID, media.RequestAll)
	if err != nil || n != 42 {
		t.Fatalf("expected 42, got %d (%v)", n, err)
	}
}

func TestErrorsAreClassified(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, catalog.ErrPermissionDenied},
		{http.StatusForbidden, catalog.ErrPermissionDenied},
		{http.StatusInternalServerError, catalog.ErrUnavailable},
		{http.StatusBadGateway, catalog.ErrUnavailable},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte("nope"))
		}))
		_, err := NewClient(ts.URL, "", ts.Client(), 100).ListAssets(context.Background(), "a", media.RequestAll, 0, 4)
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		if catalog.Classify(err) != tc.want {
			t.Fatalf("status %d: Classify mismatch for %v", tc.status, err)
		}
	}
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewClient(url, "", nil, 100).ListAlbums(context.Background(), media.RequestAll)
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchThumbnail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("size") != "80" {
			t.Errorf("unexpected size: %s", r.URL.RawQuery)
		}
		switch r.URL.Path {
		case "/albums/trip/thumbnail":
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
		case "/albums/empty/thumbnail":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), 100)
	data, err := c.FetchThumbnail(context.Background(), "trip", 80)
	if err != nil || len(data) != 3 {
		t.Fatalf("expected 3 bytes, got %d (%v)", len(data), err)
	}
	for _, id := range []string{"empty", "missing"} {
		data, err := c.FetchThumbnail(context.Background(), id, 80)
		if err != nil || data != nil {
			t.Fatalf("%s: expected nil, nil, got %v, %v", id, data, err)
		}
	}
}

func TestWatchNotifiesOnVersionChange(t *testing.T) {
	var polls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/version.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if polls.Add(1) <= 2 {
			_, _ = w.Write([]byte(`{"version":"v1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"version":"v2"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), 1000)
	notified := make(chan struct{}, 1)
	cancelSub := c.Subscribe(func() {
		select {
		case notified <- struct{}{}:
		default:
		}
	})
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, 5*time.Millisecond) }()

	select {
	case <-notified:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}
