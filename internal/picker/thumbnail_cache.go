package picker

// ThumbnailCache holds album cover bytes for the session. An entry is written
// once; failed or empty fetches leave no entry so the next request retries.
type ThumbnailCache struct {
	entries map[string][]byte
	pending map[string]bool
	// Updated publishes the album id of every stored entry.
	Updated Signal[string]
}

func newThumbnailCache() *ThumbnailCache {
	return &ThumbnailCache{
		entries: make(map[string][]byte),
		pending: make(map[string]bool),
	}
}

func (c *ThumbnailCache) Get(albumID string) ([]byte, bool) {
	data, ok := c.entries[albumID]
	return data, ok
}

func (c *ThumbnailCache) Len() int { return len(c.entries) }

// claim marks albumID as being fetched. It returns false when the entry
// exists or a fetch is already pending.
func (c *ThumbnailCache) claim(albumID string) bool {
	if _, ok := c.entries[albumID]; ok {
		return false
	}
	if c.pending[albumID] {
		return false
	}
	c.pending[albumID] = true
	return true
}

func (c *ThumbnailCache) release(albumID string) {
	delete(c.pending, albumID)
}

// store records data and reports whether a new entry was written.
func (c *ThumbnailCache) store(albumID string, data []byte) bool {
	delete(c.pending, albumID)
	if len(data) == 0 {
		return false
	}
	if _, ok := c.entries[albumID]; ok {
		return false
	}
	c.entries[albumID] = data
	c.Updated.publish(albumID)
	return true
}
