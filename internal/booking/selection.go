package booking

import "slices"

// Notice codes returned when a toggle is refused.
const (
	NoticeSelectTimeFirst = "select_time_first"
	NoticeLimitReached    = "limit_reached"
	NoticeUnknownSeat     = "unknown_seat"
)

var noticeText = map[string]string{
	NoticeSelectTimeFirst: "Please select time first",
	NoticeLimitReached:    "You can only select 5 seats",
	NoticeUnknownSeat:     "No such seat",
}

// NoticeMessage returns the user-facing text for a notice code.
func NoticeMessage(code string) string {
	return noticeText[code]
}

// Selection is one session's showtime choice and picked seats, in pick order.
type Selection struct {
	Time  string   `json:"time"`
	Seats []string `json:"seats"`
}

// HasTime reports whether a showtime has been chosen.
func (s Selection) HasTime() bool { return s.Time != "" }

// IsSelected reports whether seat is in the selection.
func (s Selection) IsSelected(seat string) bool {
	return slices.Contains(s.Seats, seat)
}

// SelectTime replaces the showtime.  Picked seats are kept.
func (s *Selection) SelectTime(t string) {
	s.Time = t
}

// ToggleSeat removes seat if it is picked and adds it otherwise.  A refused
// toggle returns a notice code and leaves the selection unchanged.
func (s *Selection) ToggleSeat(seat string) string {
	if !s.HasTime() {
		return NoticeSelectTimeFirst
	}
	if i := slices.Index(s.Seats, seat); i >= 0 {
		s.Seats = slices.Delete(slices.Clone(s.Seats), i, i+1)
		return ""
	}
	if !IsValidSeat(seat) {
		return NoticeUnknownSeat
	}
	if len(s.Seats) >= MaxSeats {
		return NoticeLimitReached
	}
	s.Seats = append(slices.Clone(s.Seats), seat)
	return ""
}

// Sanitize drops unknown and duplicate seats and anything past MaxSeats, so a
// client-supplied state only holds known, distinct seats within the limit.
func (s *Selection) Sanitize() {
	seen := make(map[string]bool, len(s.Seats))
	out := make([]string, 0, len(s.Seats))
	for _, id := range s.Seats {
		if seen[id] || !IsValidSeat(id) || len(out) == MaxSeats {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	s.Seats = out
}
