package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatIDs(t *testing.T) {
	ids := SeatIDs()
	require.Len(t, ids, 90)
	assert.Equal(t, "A1", ids[0])
	assert.Equal(t, "A9", ids[8])
	assert.Equal(t, "B1", ids[9])
	assert.Equal(t, "J9", ids[89])
}

func TestIsValidSeat(t *testing.T) {
	for _, id := range []string{"A1", "E5", "J9"} {
		assert.True(t, IsValidSeat(id), id)
	}
	for _, id := range []string{"", "A", "A0", "A10", "K1", "a1", "A01", "AB", "1A"} {
		assert.False(t, IsValidSeat(id), id)
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	require.Len(t, l.Rows, 10)
	assert.Equal(t, "C", l.Rows[2].Label)
	assert.Equal(t, []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9"}, l.Rows[2].Seats)
	assert.Len(t, l.Groups, 5)
	assert.Equal(t, []string{"I", "J"}, l.Groups[4])
	assert.Equal(t, 5, l.MaxSeats)
}

func TestToggleSeat_RequiresTime(t *testing.T) {
	var s Selection
	assert.Equal(t, NoticeSelectTimeFirst, s.ToggleSeat("A1"))
	assert.Empty(t, s.Seats)
	assert.Equal(t, "Please select time first", NoticeMessage(NoticeSelectTimeFirst))
}

func TestToggleSeat_AddRemove(t *testing.T) {
	var s Selection
	s.SelectTime("2025-06-01T18:30:00Z")

	assert.Empty(t, s.ToggleSeat("A1"))
	assert.Empty(t, s.ToggleSeat("B2"))
	assert.Equal(t, []string{"A1", "B2"}, s.Seats)

	assert.Empty(t, s.ToggleSeat("A1"))
	assert.Equal(t, []string{"B2"}, s.Seats)
}

func TestToggleSeat_Limit(t *testing.T) {
	var s Selection
	s.SelectTime("18:30")
	for _, id := range []string{"A1", "A2", "A3", "A4", "A5"} {
		require.Empty(t, s.ToggleSeat(id))
	}

	assert.Equal(t, NoticeLimitReached, s.ToggleSeat("A6"))
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5"}, s.Seats)
	assert.Equal(t, "You can only select 5 seats", NoticeMessage(NoticeLimitReached))

	// removing still works at the limit
	assert.Empty(t, s.ToggleSeat("A3"))
	assert.Len(t, s.Seats, 4)
}

func TestToggleSeat_UnknownSeat(t *testing.T) {
	s := Selection{Time: "18:30"}
	assert.Equal(t, NoticeUnknownSeat, s.ToggleSeat("Z1"))
	assert.Empty(t, s.Seats)
}

func TestSelectTime_KeepsSeats(t *testing.T) {
	s := Selection{Time: "18:30", Seats: []string{"C4"}}
	s.SelectTime("21:00")
	assert.Equal(t, "21:00", s.Time)
	assert.Equal(t, []string{"C4"}, s.Seats)
}

func TestToggleSeat_DoesNotAliasInput(t *testing.T) {
	in := []string{"A1", "A2"}
	s := Selection{Time: "18:30", Seats: in}
	s.ToggleSeat("A1")
	assert.Equal(t, []string{"A1", "A2"}, in)
}

func TestSanitize(t *testing.T) {
	s := Selection{Seats: []string{"A1", "A1", "Z9", "B1", "B2", "B3", "B4", "B5"}}
	s.Sanitize()
	assert.Equal(t, []string{"A1", "B1", "B2", "B3", "B4"}, s.Seats)
}
