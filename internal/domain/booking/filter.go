package booking

import (
	"sort"
	"strings"
	"time"

	"github.com/shareit-market/service-rental/internal/domain"
)

// TimeState classifies a booking relative to the moment a listing was
// requested. It is a display-only annotation and is never persisted.
type TimeState string

const (
	TimeStateAll     TimeState = "ALL"
	TimeStateCurrent TimeState = "CURRENT"
	TimeStatePast    TimeState = "PAST"
	TimeStateFuture  TimeState = "FUTURE"
)

// ListFilter is the parsed form of the textual state keyword accepted by the
// booking listing endpoints.
type ListFilter int

const (
	FilterAll ListFilter = iota
	FilterCurrent
	FilterPast
	FilterFuture
	FilterWaiting
	FilterApproved
	FilterRejected
	FilterCanceled
)

// ParseListFilter converts the state keyword into a ListFilter. Matching is
// case-insensitive and an empty keyword means ALL. Any other keyword is
// rejected here, once, so the filtering below never sees an unknown state.
func ParseListFilter(state string) (ListFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "", "ALL":
		return FilterAll, nil
	case "CURRENT":
		return FilterCurrent, nil
	case "PAST":
		return FilterPast, nil
	case "FUTURE":
		return FilterFuture, nil
	case "WAITING":
		return FilterWaiting, nil
	case "APPROVED":
		return FilterApproved, nil
	case "REJECTED":
		return FilterRejected, nil
	case "CANCELED":
		return FilterCanceled, nil
	default:
		return 0, domain.NewValidationError("Unknown state: " + state)
	}
}

// Classified pairs a booking with its request-scoped time-state annotation.
type Classified struct {
	Booking   *Booking
	TimeState TimeState
}

// FilterByState applies the parsed filter to a booking list at the instant
// now and returns the matching bookings sorted by start descending. Time
// filters tag each match with its window classification; status filters and
// ALL leave the tag at ALL.
func FilterByState(bookings []*Booking, filter ListFilter, now time.Time) []Classified {
	filtered := make([]Classified, 0, len(bookings))

	for _, b := range bookings {
		switch filter {
		case FilterAll:
			filtered = append(filtered, Classified{Booking: b, TimeState: TimeStateAll})
		case FilterCurrent:
			if !b.Start().After(now) && b.End().After(now) {
				filtered = append(filtered, Classified{Booking: b, TimeState: TimeStateCurrent})
			}
		case FilterPast:
			if b.End().Before(now) {
				filtered = append(filtered, Classified{Booking: b, TimeState: TimeStatePast})
			}
		case FilterFuture:
			if b.Start().After(now) {
				filtered = append(filtered, Classified{Booking: b, TimeState: TimeStateFuture})
			}
		case FilterWaiting, FilterApproved, FilterRejected, FilterCanceled:
			if b.Status() == filter.status() {
				filtered = append(filtered, Classified{Booking: b, TimeState: TimeStateAll})
			}
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Booking.Start().After(filtered[j].Booking.Start())
	})
	return filtered
}

// status maps a status-kind filter back to the booking status it matches.
func (f ListFilter) status() Status {
	switch f {
	case FilterWaiting:
		return StatusWaiting
	case FilterApproved:
		return StatusApproved
	case FilterRejected:
		return StatusRejected
	case FilterCanceled:
		return StatusCanceled
	default:
		return ""
	}
}
