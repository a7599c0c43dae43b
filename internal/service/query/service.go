// Package query serves the read side: the schedule grid, booking lists, and
// the front-desk dashboard aggregates. Every read goes straight to the
// document store; responses are cacheable only via ETags at the transport.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/schedule"
)

type Service struct {
	store *jsonstore.Store
}

func New(store *jsonstore.Store) *Service {
	return &Service{store: store}
}

// ScheduleCell is one court/slot intersection of the grid for a date.
type ScheduleCell struct {
	CourtID int                  `json:"courtId"`
	Slot    string               `json:"slot"`
	Booked  bool                 `json:"booked"`
	Booking *domain.Booking      `json:"booking,omitempty"`
	Status  domain.BookingStatus `json:"status,omitempty"`
}

// ScheduleGrid is the full availability view for one date.
type ScheduleGrid struct {
	Date      string         `json:"date"`
	Courts    []domain.Court `json:"courts"`
	TimeSlots []string       `json:"timeSlots"`
	Cells     []ScheduleCell `json:"cells"`
}

// Schedule builds the grid for a date. Cancelled bookings never occupy a
// cell; completed ones are shown occupied only under the completedBlocks
// policy, matching what the booking side would accept.
func (s *Service) Schedule(ctx context.Context, date string, completedBlocks bool) (*ScheduleGrid, error) {
	const op = "service.query.Schedule"

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%s: %q:%w", op, date, ErrInvalidDate)
	}

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	grid := &ScheduleGrid{
		Date:      date,
		Courts:    doc.Courts,
		TimeSlots: doc.TimeSlots,
	}

	// slot -> booking index per court for this date
	for _, c := range doc.Courts {
		occupied := make(map[string]*domain.Booking)
		for i := range doc.Bookings {
			b := &doc.Bookings[i]
			if b.CourtID != c.ID || b.Date != date {
				continue
			}
			if b.Status == domain.StatusCancelled {
				continue
			}
			if b.Status == domain.StatusCompleted && !completedBlocks {
				continue
			}
			for _, slot := range schedule.Split(b.TimeSlot) {
				occupied[slot] = b
			}
		}

		for _, slot := range doc.TimeSlots {
			cell := ScheduleCell{CourtID: c.ID, Slot: slot}
			if b, ok := occupied[slot]; ok {
				cell.Booked = true
				cell.Booking = b
				cell.Status = b.Status
			}
			grid.Cells = append(grid.Cells, cell)
		}
	}

	return grid, nil
}

// Filter narrows booking listings. Zero values match everything.
type Filter struct {
	Date      string
	CourtID   int
	Status    domain.BookingStatus
	UserEmail string
}

// ListBookings returns bookings matching the filter, in stored order.
func (s *Service) ListBookings(ctx context.Context, f Filter) ([]domain.Booking, error) {
	const op = "service.query.ListBookings"

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out := []domain.Booking{}
	for _, b := range doc.Bookings {
		if f.Date != "" && b.Date != f.Date {
			continue
		}
		if f.CourtID != 0 && b.CourtID != f.CourtID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.UserEmail != "" && !strings.EqualFold(b.UserEmail, f.UserEmail) {
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

// BookingDetail is a booking joined with its court name and cost.
type BookingDetail struct {
	domain.Booking
	CourtName string  `json:"courtName"`
	Cost      float64 `json:"cost"`
}

// GetBooking loads one booking with its resolved court name. A dangling
// court reference resolves to "Unknown" rather than an error.
func (s *Service) GetBooking(ctx context.Context, id string) (*BookingDetail, error) {
	const op = "service.query.GetBooking"

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	b, ok := doc.BookingByID(id)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
	}

	return &BookingDetail{
		Booking:   *b,
		CourtName: doc.CourtName(b.CourtID),
		Cost:      cost(doc, *b),
	}, nil
}

// Dashboard holds the front-desk counters for one date plus all-time revenue.
type Dashboard struct {
	Date             string  `json:"date"`
	TotalBookings    int     `json:"totalBookings"`
	ArrivedCustomers int     `json:"arrivedCustomers"`
	PendingRequests  int     `json:"pendingRequests"`
	Revenue          float64 `json:"revenue"`
}

// GetDashboard aggregates the counters the overview screen renders: open
// bookings and arrivals for the date, pending cancellation requests, and
// revenue over completed bookings.
func (s *Service) GetDashboard(ctx context.Context, date string) (*Dashboard, error) {
	const op = "service.query.GetDashboard"

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%s: %q:%w", op, date, ErrInvalidDate)
	}

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	d := &Dashboard{Date: date}
	for _, b := range doc.Bookings {
		if b.Date == date {
			switch b.Status {
			case domain.StatusBooked, domain.StatusArrived:
				d.TotalBookings++
			}
			if b.Status == domain.StatusArrived {
				d.ArrivedCustomers++
			}
		}
		if b.Status == domain.StatusCancellationRequested {
			d.PendingRequests++
		}
		if b.Status == domain.StatusCompleted {
			d.Revenue += cost(doc, b)
		}
	}

	return d, nil
}

func cost(doc *jsonstore.Document, b domain.Booking) float64 {
	return doc.CourtRates[b.CourtID] * float64(len(schedule.Split(b.TimeSlot)))
}
