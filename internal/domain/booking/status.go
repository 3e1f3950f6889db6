package booking

import "fmt"

// Status represents the approval state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

var allStatuses = []Status{StatusWaiting, StatusApproved, StatusRejected, StatusCanceled}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further owner decision is possible. An
// approved or canceled booking never changes again; a rejected booking may
// still be approved once.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusCanceled
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
