package picker

import "testing"

func TestCursor_PagingLifecycle(t *testing.T) {
	c := newCursor("a", 4)
	if _, ok := c.beginNext(); ok {
		t.Fatal("expected no next page before the first one")
	}
	if c.HasMore() || c.Exhausted() {
		t.Fatal("unloaded cursor is neither exhausted nor has more")
	}

	req := c.beginInitial()
	if req.offset != 0 || req.limit != 4 || !req.initial {
		t.Fatalf("unexpected initial request: %+v", req)
	}
	c.reset(10, images("a", 4))

	next, ok := c.beginNext()
	if !ok || next.offset != 4 {
		t.Fatalf("expected next page at 4, got %+v (%v)", next, ok)
	}
	if _, ok := c.beginNext(); ok {
		t.Fatal("expected in-flight guard")
	}
	c.appendPage(images("b", 4))
	if c.LoadedCount() != 8 || !c.HasMore() {
		t.Fatalf("unexpected state after append: loaded=%d more=%v", c.LoadedCount(), c.HasMore())
	}
}

func TestCursor_ShortPageEndsPaging(t *testing.T) {
	c := newCursor("a", 4)
	c.beginInitial()
	c.reset(10, images("a", 4))
	c.beginNext()
	c.appendPage(nil)
	if !c.Exhausted() || c.TotalCount() != 4 {
		t.Fatalf("expected exhausted at 4, got total=%d", c.TotalCount())
	}
}

func TestCursor_AbandonInvalidatesRequest(t *testing.T) {
	c := newCursor("a", 4)
	req := c.beginInitial()
	c.abandon()
	if c.current(req) {
		t.Fatal("expected abandoned request to be stale")
	}
	again := c.beginInitial()
	if !c.current(again) {
		t.Fatal("expected new request current")
	}
}

func TestCursor_IgnoresRequestsOfReplacedCursor(t *testing.T) {
	old := newCursor("a", 4)
	stale := old.beginInitial()

	fresh := newCursor("a", 4)
	req := fresh.beginInitial()
	if stale.generation != req.generation {
		t.Fatalf("expected both cursors at the same generation, got %d and %d", stale.generation, req.generation)
	}
	if fresh.current(stale) {
		t.Fatal("expected request of the replaced cursor to be stale")
	}
	if !fresh.current(req) {
		t.Fatal("expected own request current")
	}
}

func TestShouldLoadMore(t *testing.T) {
	cases := []struct {
		position, loaded, grid int
		want                   bool
	}{
		{0, 0, 4, false},
		{0, 80, 4, false},
		{67, 80, 4, false},
		{68, 80, 4, true},
		{79, 80, 4, true},
		{0, 6, 4, true},
	}
	for _, tc := range cases {
		if got := ShouldLoadMore(tc.position, tc.loaded, tc.grid); got != tc.want {
			t.Fatalf("ShouldLoadMore(%d, %d, %d) = %v, want %v", tc.position, tc.loaded, tc.grid, got, tc.want)
		}
	}
}
