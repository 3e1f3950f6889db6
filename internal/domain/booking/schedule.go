package booking

import "time"

// LastBooking returns the most recent booking that has already begun at the
// instant now: the maximum start among bookings with start <= now. It returns
// nil when no booking qualifies.
func LastBooking(bookings []*Booking, now time.Time) *Booking {
	var last *Booking
	for _, b := range bookings {
		if b.Start().After(now) {
			continue
		}
		if last == nil || b.Start().After(last.Start()) {
			last = b
		}
	}
	return last
}

// NextBooking returns the earliest upcoming booking: the first booking with
// start > now in the supplied order. Callers must pass bookings sorted
// ascending by start; the repository's approved-bookings queries guarantee
// that order.
func NextBooking(bookings []*Booking, now time.Time) *Booking {
	for _, b := range bookings {
		if b.Start().After(now) {
			return b
		}
	}
	return nil
}

// GroupByItem maps bookings by their item id, preserving input order within
// each group.
func GroupByItem(bookings []*Booking) map[int64][]*Booking {
	grouped := make(map[int64][]*Booking)
	for _, b := range bookings {
		grouped[b.ItemID()] = append(grouped[b.ItemID()], b)
	}
	return grouped
}
