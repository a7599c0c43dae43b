// Package settings manages the facility configuration: courts, the slot
// sequence, and hourly rates.
package settings

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/schedule"
)

// Settings is the configurable facility state, replaced wholesale on update.
type Settings struct {
	Courts    []domain.Court    `json:"courts"`
	TimeSlots []string          `json:"timeSlots"`
	Rates     domain.CourtRates `json:"rates"`
}

type Service struct {
	store *jsonstore.Store
}

func New(store *jsonstore.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	const op = "service.settings.Get"

	var out Settings
	err := s.store.View(ctx, func(doc *jsonstore.Document) error {
		out = Settings{
			Courts:    append([]domain.Court(nil), doc.Courts...),
			TimeSlots: append([]string(nil), doc.TimeSlots...),
			Rates:     make(domain.CourtRates, len(doc.CourtRates)),
		}
		for id, r := range doc.CourtRates {
			out.Rates[id] = r
		}
		return nil
	})
	if err != nil {
		return Settings{}, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Update replaces courts, time slots and rates in one write. Existing
// bookings referencing removed courts or dropped slot labels are left as-is;
// they render with an unknown court and keep their stored labels.
func (s *Service) Update(ctx context.Context, in Settings) (Settings, error) {
	const op = "service.settings.Update"

	if err := validate(in); err != nil {
		return Settings{}, fmt.Errorf("%s:%w", op, err)
	}

	slots := append([]string(nil), in.TimeSlots...)
	sort.Strings(slots)

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		doc.Courts = append([]domain.Court(nil), in.Courts...)
		doc.TimeSlots = slots
		doc.CourtRates = make(domain.CourtRates, len(in.Rates))
		for id, r := range in.Rates {
			doc.CourtRates[id] = r
		}
		return nil
	})
	if err != nil {
		return Settings{}, fmt.Errorf("%s:%w", op, err)
	}

	in.TimeSlots = slots
	return in, nil
}

// RegenerateSlots replaces the slot sequence with one generated from an
// opening time, closing time and slot duration, leaving courts and rates
// untouched.
func (s *Service) RegenerateSlots(ctx context.Context, opening, closing string, slotMinutes int) ([]string, error) {
	const op = "service.settings.RegenerateSlots"

	slots, err := schedule.Generate(opening, closing, slotMinutes)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	err = s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		doc.TimeSlots = slots
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return slots, nil
}

func validate(in Settings) error {
	if len(in.Courts) == 0 {
		return ErrNoCourts
	}
	if len(in.TimeSlots) == 0 {
		return ErrNoSlots
	}

	seenCourt := make(map[int]bool, len(in.Courts))
	for _, c := range in.Courts {
		if seenCourt[c.ID] {
			return fmt.Errorf("court %d:%w", c.ID, ErrDuplicateCourt)
		}
		seenCourt[c.ID] = true
	}

	seenSlot := make(map[string]bool, len(in.TimeSlots))
	for _, slot := range in.TimeSlots {
		if !schedule.ValidLabel(slot) {
			return fmt.Errorf("%q:%w", slot, ErrInvalidSlot)
		}
		if seenSlot[slot] {
			return fmt.Errorf("%q:%w", slot, ErrDuplicateSlot)
		}
		seenSlot[slot] = true
	}

	for id, r := range in.Rates {
		if r < 0 {
			return fmt.Errorf("court %d:%w", id, ErrNegativeRate)
		}
	}

	return nil
}
