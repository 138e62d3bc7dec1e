package picker

import "github.com/glabrego/assetpick/internal/media"

// Cursor tracks how much of one album has been fetched. The asset list only
// grows between resets, and pages are appended in request order.
type Cursor struct {
	albumID  string
	pageSize int
	assets   []media.Asset
	total    int
	loaded   bool
	inFlight bool
	// generation invalidates fetches issued before a reset or abandonment.
	generation uint64
}

func newCursor(albumID string, pageSize int) *Cursor {
	return &Cursor{albumID: albumID, pageSize: pageSize}
}

func (c *Cursor) AlbumID() string { return c.albumID }

func (c *Cursor) LoadedCount() int { return len(c.assets) }

func (c *Cursor) TotalCount() int { return c.total }

func (c *Cursor) Loaded() bool { return c.loaded }

func (c *Cursor) InFlight() bool { return c.inFlight }

func (c *Cursor) Exhausted() bool {
	return c.loaded && len(c.assets) >= c.total
}

func (c *Cursor) HasMore() bool {
	return c.loaded && !c.Exhausted()
}

func (c *Cursor) Assets() []media.Asset {
	return append([]media.Asset(nil), c.assets...)
}

// pageRequest describes a fetch the cursor has committed to.
type pageRequest struct {
	owner      *Cursor
	albumID    string
	generation uint64
	offset     int
	limit      int
	initial    bool
}

// beginInitial starts a reload of page 0, superseding anything in flight.
func (c *Cursor) beginInitial() pageRequest {
	c.generation++
	c.inFlight = true
	return pageRequest{owner: c, albumID: c.albumID, generation: c.generation, offset: 0, limit: c.pageSize, initial: true}
}

// beginNext reserves the next page. ok is false when nothing should be
// fetched: not loaded yet, exhausted, or a request is pending.
func (c *Cursor) beginNext() (pageRequest, bool) {
	if !c.loaded || c.inFlight || c.Exhausted() {
		return pageRequest{}, false
	}
	c.inFlight = true
	return pageRequest{owner: c, albumID: c.albumID, generation: c.generation, offset: len(c.assets), limit: c.pageSize}, true
}

// current reports whether req is the fetch c is waiting for. Requests issued
// by a cursor that has since been replaced never match.
func (c *Cursor) current(req pageRequest) bool {
	return c.inFlight && req.owner == c && req.generation == c.generation
}

// abandon drops the pending request, if any, so its result is ignored.
func (c *Cursor) abandon() {
	if !c.inFlight {
		return
	}
	c.generation++
	c.inFlight = false
}

// fail ends a pending request without touching loaded data.
func (c *Cursor) fail() {
	c.inFlight = false
}

func (c *Cursor) reset(total int, page []media.Asset) {
	c.inFlight = false
	c.loaded = true
	c.assets = append(make([]media.Asset, 0, len(page)), page...)
	c.total = total
	c.clampTotal(len(page))
}

func (c *Cursor) appendPage(page []media.Asset) {
	c.inFlight = false
	c.assets = append(c.assets, page...)
	c.clampTotal(len(page))
}

// clampTotal stops paging when the catalog runs dry before the count it
// reported, and grows the total when it returns more than promised.
func (c *Cursor) clampTotal(got int) {
	if got < c.pageSize && len(c.assets) < c.total {
		c.total = len(c.assets)
	}
	if len(c.assets) > c.total {
		c.total = len(c.assets)
	}
}
