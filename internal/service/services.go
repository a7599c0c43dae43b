package service

import (
	"github.com/courtdesk/courtdesk/internal/notify"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
	"github.com/courtdesk/courtdesk/internal/service/auth"
	"github.com/courtdesk/courtdesk/internal/service/booking"
	"github.com/courtdesk/courtdesk/internal/service/query"
	"github.com/courtdesk/courtdesk/internal/service/settings"
)

type Services struct {
	Booking  *booking.Service
	Auth     *auth.Service
	Settings *settings.Service
	Query    *query.Service

	cfg Config
}

// CompletedBlocks reports the active slot-blocking policy for completed
// bookings, so read paths render the same availability the write path
// enforces.
func (s *Services) CompletedBlocks() bool {
	return s.cfg.Booking.CompletedBlocks
}

type Config struct {
	Booking booking.Config
	Auth    auth.Config
}

func NewServices(store *jsonstore.Store, notifier *notify.Notifier, cfg Config) *Services {
	return &Services{
		Booking:  booking.New(store, notifier, cfg.Booking),
		Auth:     auth.New(store, notifier, cfg.Auth),
		Settings: settings.New(store),
		Query:    query.New(store),
		cfg:      cfg,
	}
}
