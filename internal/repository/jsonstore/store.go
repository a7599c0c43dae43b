// Package jsonstore persists the whole facility state as a single JSON
// document on disk. Every mutation is a read-modify-write of the full
// document, serialized by a store-level lock and flushed with a temp-file
// rename so a crash never leaves a half-written file behind.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/schedule"
	"golang.org/x/crypto/bcrypt"
)

// Document is the persisted state layout. Top-level keys are part of the
// on-disk contract and must not change.
type Document struct {
	Bookings   []domain.Booking  `json:"bookings"`
	Courts     []domain.Court    `json:"courts"`
	TimeSlots  []string          `json:"timeSlots"`
	CourtRates domain.CourtRates `json:"courtRates"`
	Users      []domain.User     `json:"users"`
}

// Defaults seeds a missing or structurally incomplete document.
type Defaults struct {
	CourtCount    int
	OpeningTime   string
	ClosingTime   string
	SlotMinutes   int
	HourlyRate    float64
	AdminEmail    string
	AdminPassword string
}

// AfterSave runs after a successful flush to disk. Mirrors an after-commit
// hook: use it for side effects that must only fire once state is durable.
type AfterSave func(ctx context.Context)

type Store struct {
	path string

	mu      sync.RWMutex
	doc     *Document
	version uint64
}

// Open loads the document at path, seeding defaults when the file is missing
// or structurally incomplete. Bookings and users already present survive a
// reseed of the facility configuration.
func Open(path string, def Defaults) (*Store, error) {
	const op = "jsonstore.Open"

	doc, seeded, err := load(path, def)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s := &Store{path: path, doc: doc}

	if seeded {
		if err := s.flush(doc); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
	}

	return s, nil
}

func load(path string, def Defaults) (*Document, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc, err := seed(&Document{}, def)
			return doc, true, err
		}
		return nil, false, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// corrupt file: start over but do not silently discard it
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Courts == nil || doc.TimeSlots == nil || doc.CourtRates == nil {
		seeded, err := seed(&doc, def)
		return seeded, true, err
	}

	if ensureAdmin(&doc, def) {
		return &doc, true, nil
	}

	return &doc, false, nil
}

// seed fills in default courts, slot sequence, rates and the bootstrap admin,
// keeping whatever bookings and users the document already holds.
func seed(doc *Document, def Defaults) (*Document, error) {
	slots, err := schedule.Generate(def.OpeningTime, def.ClosingTime, def.SlotMinutes)
	if err != nil {
		return nil, err
	}

	courts := make([]domain.Court, 0, def.CourtCount)
	rates := make(domain.CourtRates, def.CourtCount)
	for i := 1; i <= def.CourtCount; i++ {
		courts = append(courts, domain.Court{ID: i, Name: fmt.Sprintf("Court %d", i)})
		rates[i] = def.HourlyRate
	}

	doc.Courts = courts
	doc.TimeSlots = slots
	doc.CourtRates = rates
	if doc.Bookings == nil {
		doc.Bookings = []domain.Booking{}
	}
	if doc.Users == nil {
		doc.Users = []domain.User{}
	}

	ensureAdmin(doc, def)

	return doc, nil
}

func ensureAdmin(doc *Document, def Defaults) bool {
	for _, u := range doc.Users {
		if u.Email == def.AdminEmail {
			return false
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(def.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false
	}

	doc.Users = append(doc.Users, domain.User{
		ID:        "admin-user",
		FirstName: "Admin",
		LastName:  "User",
		Email:     def.AdminEmail,
		Phone:     "",
		Password:  string(hash),
		Role:      domain.RoleAdmin,
	})
	return true
}

// View runs fn with a read-locked view of the document. fn must not retain
// or mutate the document.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.doc)
}

// Update runs fn against a private copy of the document under the write
// lock, then flushes it to disk. The stored document is only replaced when
// both fn and the flush succeed, so a failed mutation leaves prior state
// intact. After-save hooks registered by fn run once the flush has happened.
func (s *Store) Update(ctx context.Context, fn func(doc *Document, after func(AfterSave)) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var hooks []AfterSave

	s.mu.Lock()

	next, err := clone(s.doc)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if err := fn(next, func(h AfterSave) { hooks = append(hooks, h) }); err != nil {
		s.mu.Unlock()
		return err
	}

	if err := s.flush(next); err != nil {
		s.mu.Unlock()
		return err
	}

	s.doc = next
	s.version++
	s.mu.Unlock()

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.doc)
}

// Version increments on every successful write. Useful for tests and for
// callers that want a cheap staleness check.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) flush(doc *Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".courtdesk-*.json")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func clone(doc *Document) (*Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
