package state

import (
	"testing"

	"github.com/glabrego/assetpick/internal/media"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
}

func TestRowsPerPage(t *testing.T) {
	if got := RowsPerPage(0, false); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}
	if got := RowsPerPage(17, false); got != 10 {
		t.Fatalf("expected 10 rows, got %d", got)
	}
	if got := RowsPerPage(12, true); got != 3 {
		t.Fatalf("expected floor of 3 rows, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	start, end := CenteredWindow(5, 3, 3)
	if start != 2 || end != 5 {
		t.Fatalf("unexpected window: start=%d end=%d", start, end)
	}
	start, end = CenteredWindow(2, 1, 10)
	if start != 0 || end != 2 {
		t.Fatalf("expected full window, got start=%d end=%d", start, end)
	}
}

func TestGridMovement(t *testing.T) {
	// 10 cells in rows of 4: [0..3] [4..7] [8 9]
	if got := GridRows(10, 4); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if got := MoveHorizontal(3, 1, 10, 4); got != 3 {
		t.Fatalf("expected right edge to hold, got %d", got)
	}
	if got := MoveHorizontal(4, -1, 10, 4); got != 4 {
		t.Fatalf("expected left edge to hold, got %d", got)
	}
	if got := MoveHorizontal(8, 1, 10, 4); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := MoveHorizontal(9, 1, 10, 4); got != 9 {
		t.Fatalf("expected end of short row to hold, got %d", got)
	}
	if got := MoveVertical(6, 1, 10, 4); got != 9 {
		t.Fatalf("expected short row to land on last cell, got %d", got)
	}
	if got := MoveVertical(2, -1, 10, 4); got != 2 {
		t.Fatalf("expected top row to hold column, got %d", got)
	}
	if got := MoveVertical(9, -2, 10, 4); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestCycleIndex(t *testing.T) {
	if got := CycleIndex(0, -1, 3); got != 2 {
		t.Fatalf("expected wrap to 2, got %d", got)
	}
	if got := CycleIndex(2, 1, 3); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
	if got := CycleIndex(5, 1, 0); got != 0 {
		t.Fatalf("expected 0 for empty, got %d", got)
	}
}

func TestLookupHelpers(t *testing.T) {
	albums := []media.Album{{ID: "all"}, {ID: "trip"}}
	if got := AlbumIndexByID(albums, "trip"); got != 1 {
		t.Fatalf("expected album index 1, got %d", got)
	}
	assets := []media.Asset{{ID: "a"}, {ID: "b"}}
	if got := AssetIndexByID(assets, "c"); got != -1 {
		t.Fatalf("expected -1 for missing asset, got %d", got)
	}
}
