package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/schedule"
)

// Notifier dispatches booking-related emails. Dispatch is best effort: the
// implementation logs failures and never propagates them back here.
type Notifier interface {
	CancellationStatus(ctx context.Context, booking domain.Booking, courtName string, approved bool)
}

type Config struct {
	// CompletedBlocks controls whether a completed booking keeps its slots
	// blocked for new bookings. Historically this flipped between releases,
	// so it is an explicit policy knob rather than a hardcoded rule.
	CompletedBlocks bool
}

type Service struct {
	store  *jsonstore.Store
	notify Notifier
	cfg    Config
}

func New(store *jsonstore.Store, notify Notifier, cfg Config) *Service {
	return &Service{store: store, notify: notify, cfg: cfg}
}

// BookInput describes a new reservation. StartLabel/EndLabel are slot labels
// from the configured sequence; a single-slot booking uses the same label for
// both. CourtID 0 means auto-assign.
type BookInput struct {
	CourtID       int
	Date          string
	StartLabel    string
	EndLabel      string
	CustomerName  string
	CustomerPhone string
	UserEmail     string
}

// Book creates a booking after re-checking conflicts against freshly read
// state inside the store's write lock, so a slot shown free in a stale view
// is still rejected at commit time.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Booking, error) {
	const op = "service.booking.Book"

	if err := validateDate(in.Date); err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.Booking{}, fmt.Errorf("%s: customer name is required", op)
	}

	var created domain.Booking

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		seq := schedule.Sequence(doc.TimeSlots)

		r, err := seq.Range(in.StartLabel, in.EndLabel)
		if err != nil {
			return err
		}
		labels := seq.Labels(r)

		courtID := in.CourtID
		if courtID == 0 {
			court, ok := s.firstAvailableCourt(labels, in.Date, doc)
			if !ok {
				return ErrNoCourtAvailable
			}
			courtID = court.ID
		} else if s.findConflict(labels, courtID, in.Date, doc.Bookings) {
			return ErrConflict
		}

		created = domain.Booking{
			ID:            uuid.New().String(),
			CourtID:       courtID,
			Date:          in.Date,
			TimeSlot:      schedule.Join(labels),
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			UserEmail:     in.UserEmail,
			Status:        domain.StatusBooked,
		}
		doc.Bookings = append(doc.Bookings, created)
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	return created, nil
}

// BookByTimes resolves an "HH:MM" start/end pair against the configured
// sequence and books the covered range.
func (s *Service) BookByTimes(ctx context.Context, in BookInput, startTime, endTime string) (domain.Booking, error) {
	const op = "service.booking.BookByTimes"

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	seq := schedule.Sequence(doc.TimeSlots)
	r, err := seq.RangeByTimes(startTime, endTime)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	labels := seq.Labels(r)
	in.StartLabel = labels[0]
	in.EndLabel = labels[len(labels)-1]
	return s.Book(ctx, in)
}

// UpdateStatus moves a booking to next, enforcing the transition table.
// Setting the status it already has is a no-op and succeeds, so retries are
// harmless.
func (s *Service) UpdateStatus(ctx context.Context, id string, next domain.BookingStatus) (domain.Booking, error) {
	const op = "service.booking.UpdateStatus"

	if !next.Valid() {
		return domain.Booking{}, fmt.Errorf("%s: %q:%w", op, next, ErrInvalidStatus)
	}

	var updated domain.Booking

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		b, ok := doc.BookingByID(id)
		if !ok {
			return ErrBookingNotFound
		}
		if !b.Status.CanTransition(next) {
			return fmt.Errorf("%s -> %s:%w", b.Status, next, ErrIllegalTransition)
		}
		b.Status = next
		updated = *b
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// RequestCancellation flags a booked record for staff review. Non-admin
// callers may only act on their own bookings.
func (s *Service) RequestCancellation(ctx context.Context, id string, p domain.Principal) (domain.Booking, error) {
	const op = "service.booking.RequestCancellation"

	var updated domain.Booking

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		b, ok := doc.BookingByID(id)
		if !ok {
			return ErrBookingNotFound
		}
		if !p.IsAdmin() && !strings.EqualFold(b.UserEmail, p.Email) {
			return ErrNotOwner
		}
		if !b.Status.CanTransition(domain.StatusCancellationRequested) {
			return fmt.Errorf("%s -> %s:%w", b.Status, domain.StatusCancellationRequested, ErrIllegalTransition)
		}
		b.Status = domain.StatusCancellationRequested
		updated = *b
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// DecideCancellation resolves a pending request: approval cancels the
// booking and frees its slots, rejection returns it to booked. The status
// email goes out only after the decision is durable, and a failed send never
// unwinds it.
func (s *Service) DecideCancellation(ctx context.Context, id string, approve bool) (domain.Booking, error) {
	const op = "service.booking.DecideCancellation"

	next := domain.StatusBooked
	if approve {
		next = domain.StatusCancelled
	}

	var updated domain.Booking

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		b, ok := doc.BookingByID(id)
		if !ok {
			return ErrBookingNotFound
		}
		if b.Status != domain.StatusCancellationRequested {
			return ErrNotRequested
		}
		b.Status = next
		updated = *b

		if s.notify != nil && updated.UserEmail != "" {
			courtName := doc.CourtName(updated.CourtID)
			after(func(ctx context.Context) {
				s.notify.CancellationStatus(ctx, updated, courtName, approve)
			})
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// Complete marks an arrived booking paid and returns the amount charged:
// the court's hourly rate times the number of slots.
func (s *Service) Complete(ctx context.Context, id string) (domain.Booking, float64, error) {
	const op = "service.booking.Complete"

	var (
		updated domain.Booking
		amount  float64
	)

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		b, ok := doc.BookingByID(id)
		if !ok {
			return ErrBookingNotFound
		}
		if !b.Status.CanTransition(domain.StatusCompleted) {
			return fmt.Errorf("%s -> %s:%w", b.Status, domain.StatusCompleted, ErrIllegalTransition)
		}
		b.Status = domain.StatusCompleted
		updated = *b
		amount = doc.CourtRates[b.CourtID] * float64(len(schedule.Split(b.TimeSlot)))
		return nil
	})
	if err != nil {
		return domain.Booking{}, 0, fmt.Errorf("%s:%w", op, err)
	}

	return updated, amount, nil
}

// findConflict reports whether any candidate slot is already taken by an
// active booking on the same court and date. Cancelled bookings never block;
// completed ones only under the CompletedBlocks policy.
func (s *Service) findConflict(candidate []string, courtID int, date string, bookings []domain.Booking) bool {
	for _, b := range bookings {
		if b.CourtID != courtID || b.Date != date {
			continue
		}
		if !s.blocks(b.Status) {
			continue
		}
		if schedule.Intersects(candidate, schedule.Split(b.TimeSlot)) {
			return true
		}
	}
	return false
}

// firstAvailableCourt walks courts in stored order and returns the first one
// free for every candidate slot. No load balancing: stored order is the
// tie-break.
func (s *Service) firstAvailableCourt(candidate []string, date string, doc *jsonstore.Document) (domain.Court, bool) {
	for _, c := range doc.Courts {
		if !s.findConflict(candidate, c.ID, date, doc.Bookings) {
			return c, true
		}
	}
	return domain.Court{}, false
}

func (s *Service) blocks(status domain.BookingStatus) bool {
	switch status {
	case domain.StatusCancelled:
		return false
	case domain.StatusCompleted:
		return s.cfg.CompletedBlocks
	default:
		return true
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%q:%w", date, ErrInvalidDate)
	}
	return nil
}
