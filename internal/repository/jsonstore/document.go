package jsonstore

import (
	"strings"

	"github.com/courtdesk/courtdesk/internal/domain"
)

// UnknownCourtName renders when a booking references a court that was removed
// from the settings. Stale references are kept, never repaired.
const UnknownCourtName = "Unknown"

func (d *Document) BookingByID(id string) (*domain.Booking, bool) {
	for i := range d.Bookings {
		if d.Bookings[i].ID == id {
			return &d.Bookings[i], true
		}
	}
	return nil, false
}

// BookingsFor returns the bookings for a court on a date, in stored order.
func (d *Document) BookingsFor(courtID int, date string) []domain.Booking {
	var out []domain.Booking
	for _, b := range d.Bookings {
		if b.CourtID == courtID && b.Date == date {
			out = append(out, b)
		}
	}
	return out
}

func (d *Document) CourtByID(id int) (domain.Court, bool) {
	for _, c := range d.Courts {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Court{}, false
}

// CourtName resolves a court id to its display name, falling back to
// UnknownCourtName for dangling references.
func (d *Document) CourtName(id int) string {
	if c, ok := d.CourtByID(id); ok {
		return c.Name
	}
	return UnknownCourtName
}

// UserByEmail matches case-insensitively on the address.
func (d *Document) UserByEmail(email string) (*domain.User, bool) {
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return &d.Users[i], true
		}
	}
	return nil, false
}

func (d *Document) UserByID(id string) (*domain.User, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}
