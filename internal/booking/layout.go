// Package booking holds the seat layout of a screen and the per-session seat
// selection.  Nothing here is persisted; occupancy is not tracked.
package booking

import (
	"strconv"
	"strings"
)

const (
	// SeatsPerRow is the number of seats in every row.
	SeatsPerRow = 9
	// MaxSeats bounds a single selection.
	MaxSeats = 5
)

// Rows lists the row letters front to back.
var Rows = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

// RowGroups is how rows are presented, two rows per block.
var RowGroups = [][]string{{"A", "B"}, {"C", "D"}, {"E", "F"}, {"G", "H"}, {"I", "J"}}

// Row is one row of the layout with its seat ids in order.
type Row struct {
	Label string   `json:"label"`
	Seats []string `json:"seats"`
}

// Layout is the static seat map served to clients.
type Layout struct {
	Rows     []Row      `json:"rows"`
	Groups   [][]string `json:"groups"`
	MaxSeats int        `json:"maxSeats"`
}

// SeatID returns the id of the n-th seat (1-based) in row.
func SeatID(row string, n int) string {
	return row + strconv.Itoa(n)
}

// RowSeats returns the seat ids of row, "A1" through "A9".
func RowSeats(row string) []string {
	seats := make([]string, 0, SeatsPerRow)
	for n := 1; n <= SeatsPerRow; n++ {
		seats = append(seats, SeatID(row, n))
	}
	return seats
}

// SeatIDs returns every seat id row by row.
func SeatIDs() []string {
	ids := make([]string, 0, len(Rows)*SeatsPerRow)
	for _, r := range Rows {
		ids = append(ids, RowSeats(r)...)
	}
	return ids
}

// IsValidSeat reports whether id names a seat in the layout.
func IsValidSeat(id string) bool {
	if len(id) < 2 {
		return false
	}
	row, num := id[:1], id[1:]
	if !strings.Contains("ABCDEFGHIJ", row) {
		return false
	}
	if num[0] == '0' {
		return false
	}
	n, err := strconv.Atoi(num)
	return err == nil && n >= 1 && n <= SeatsPerRow
}

// DefaultLayout builds the layout served by the API.
func DefaultLayout() Layout {
	rows := make([]Row, 0, len(Rows))
	for _, r := range Rows {
		rows = append(rows, Row{Label: r, Seats: RowSeats(r)})
	}
	return Layout{Rows: rows, Groups: RowGroups, MaxSeats: MaxSeats}
}
