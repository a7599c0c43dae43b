package settings

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := jsonstore.Open(filepath.Join(t.TempDir(), "db.json"), jsonstore.Defaults{
		CourtCount:    4,
		OpeningTime:   "09:00",
		ClosingTime:   "21:00",
		SlotMinutes:   60,
		HourlyRate:    20,
		AdminEmail:    "admin@example.com",
		AdminPassword: "changeme1",
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(store)
}

func TestUpdateRoundTrip(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	in := Settings{
		Courts: []domain.Court{
			{ID: 1, Name: "Centre Court"},
			{ID: 5, Name: "Court 5"},
		},
		TimeSlots: []string{"10:00 - 11:00", "11:00 - 12:00"},
		Rates:     domain.CourtRates{1: 35, 5: 25},
	}

	if _, err := s.Update(ctx, in); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.Courts, in.Courts) {
		t.Errorf("courts = %+v", got.Courts)
	}
	if !reflect.DeepEqual(got.TimeSlots, in.TimeSlots) {
		t.Errorf("timeSlots = %v", got.TimeSlots)
	}
	if !reflect.DeepEqual(got.Rates, in.Rates) {
		t.Errorf("rates = %v", got.Rates)
	}
}

func TestUpdateSortsSlots(t *testing.T) {
	s := newService(t)

	out, err := s.Update(context.Background(), Settings{
		Courts:    []domain.Court{{ID: 1, Name: "Court 1"}},
		TimeSlots: []string{"18:00 - 19:00", "09:00 - 10:00"},
		Rates:     domain.CourtRates{1: 20},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"09:00 - 10:00", "18:00 - 19:00"}
	if !reflect.DeepEqual(out.TimeSlots, want) {
		t.Errorf("slots = %v, want %v", out.TimeSlots, want)
	}
}

func TestUpdateValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	courts := []domain.Court{{ID: 1, Name: "Court 1"}}
	slots := []string{"09:00 - 10:00"}

	tests := []struct {
		name string
		in   Settings
		want error
	}{
		{"no courts", Settings{TimeSlots: slots}, ErrNoCourts},
		{"no slots", Settings{Courts: courts}, ErrNoSlots},
		{
			"bad slot label",
			Settings{Courts: courts, TimeSlots: []string{"9am to 10am"}},
			ErrInvalidSlot,
		},
		{
			"duplicate slot",
			Settings{Courts: courts, TimeSlots: []string{"09:00 - 10:00", "09:00 - 10:00"}},
			ErrDuplicateSlot,
		},
		{
			"duplicate court id",
			Settings{
				Courts:    []domain.Court{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
				TimeSlots: slots,
			},
			ErrDuplicateCourt,
		},
		{
			"negative rate",
			Settings{Courts: courts, TimeSlots: slots, Rates: domain.CourtRates{1: -5}},
			ErrNegativeRate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Update(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateLeavesDanglingBookings(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	// place a booking on court 4, then drop court 4 from the settings
	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		doc.Bookings = append(doc.Bookings, domain.Booking{
			ID: "b-1", CourtID: 4, Date: "2024-06-01",
			TimeSlot: "09:00 - 10:00", Status: domain.StatusBooked,
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Update(ctx, Settings{
		Courts:    []domain.Court{{ID: 1, Name: "Court 1"}},
		TimeSlots: []string{"09:00 - 10:00"},
		Rates:     domain.CourtRates{1: 20},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := doc.BookingByID("b-1")
	if !ok {
		t.Fatal("booking removed by settings update")
	}
	if b.CourtID != 4 {
		t.Errorf("courtId rewritten to %d", b.CourtID)
	}
	if got := doc.CourtName(4); got != jsonstore.UnknownCourtName {
		t.Errorf("court name = %q, want %q", got, jsonstore.UnknownCourtName)
	}
}

func TestRegenerateSlots(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	slots, err := s.RegenerateSlots(ctx, "08:00", "22:00", 120)
	if err != nil {
		t.Fatalf("RegenerateSlots: %v", err)
	}
	if len(slots) != 7 {
		t.Errorf("got %d slots, want 7", len(slots))
	}

	got, _ := s.Get(ctx)
	if !reflect.DeepEqual(got.TimeSlots, slots) {
		t.Error("regenerated slots not persisted")
	}
	if len(got.Courts) != 4 {
		t.Error("regeneration touched courts")
	}
}

func TestRegenerateSlotsRejectsBadRange(t *testing.T) {
	s := newService(t)

	if _, err := s.RegenerateSlots(context.Background(), "21:00", "09:00", 60); err == nil {
		t.Error("expected error for closing before opening")
	}
}
