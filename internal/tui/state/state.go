// Package state holds cursor arithmetic for the asset grid.
package state

import "github.com/glabrego/assetpick/internal/media"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// RowsPerPage is how many grid rows fit below the chrome.
func RowsPerPage(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 7
	if hasStatus {
		headerLines += 2
	}
	rows := height - headerLines
	if rows < 3 {
		rows = 3
	}
	return rows
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// GridRows is the number of rows needed for size cells.
func GridRows(size, columns int) int {
	if size <= 0 || columns <= 0 {
		return 0
	}
	return (size + columns - 1) / columns
}

// MoveHorizontal steps cursor by delta within its row.
func MoveHorizontal(cursor, delta, size, columns int) int {
	if size <= 0 || columns <= 0 {
		return 0
	}
	row := cursor / columns
	next := cursor + delta
	if next < row*columns || next >= (row+1)*columns {
		return cursor
	}
	return ClampCursor(next, size)
}

// MoveVertical steps cursor by rows, landing on the last cell when the
// target row is short.
func MoveVertical(cursor, rows, size, columns int) int {
	if size <= 0 || columns <= 0 {
		return 0
	}
	next := cursor + rows*columns
	if next < 0 {
		return cursor % columns
	}
	return ClampCursor(next, size)
}

// CycleIndex wraps i+delta into [0, size).
func CycleIndex(i, delta, size int) int {
	if size <= 0 {
		return 0
	}
	return ((i+delta)%size + size) % size
}

func AlbumIndexByID(albums []media.Album, albumID string) int {
	for i, album := range albums {
		if album.ID == albumID {
			return i
		}
	}
	return -1
}

func AssetIndexByID(assets []media.Asset, assetID string) int {
	for i, asset := range assets {
		if asset.ID == assetID {
			return i
		}
	}
	return -1
}
