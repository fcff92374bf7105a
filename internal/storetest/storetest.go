// Package storetest provides an in-memory link and attendee store for handler
// tests. It keeps the single-active-link rule the PostgreSQL repositories enforce.
package storetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aura-attendance/backend/internal/links"
	"github.com/aura-attendance/backend/internal/models"
	"github.com/aura-attendance/backend/internal/registrations"
	"github.com/aura-attendance/backend/internal/roster"
)

// Store is an in-memory implementation of every store interface the handlers use.
type Store struct {
	mu        sync.Mutex
	links     []models.AccessLink
	attendees []models.Attendee
	now       func() time.Time

	// Err, when set, is returned by every operation.
	Err error
}

// New returns an empty store whose clock advances one second per created row.
func New() *Store {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	return &Store{now: func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}}
}

// AddLink inserts a link with a fixed token, deactivating others when active.
func (s *Store) AddLink(token string, active bool) models.AccessLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.deactivateAll()
	}
	l := models.AccessLink{ID: int64(len(s.links) + 1), Token: token, IsActive: active, CreatedAt: s.now()}
	s.links = append(s.links, l)
	return l
}

// Generate implements links.Store.
func (s *Store) Generate(_ context.Context) (*models.AccessLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	l := s.AddLink(uuid.NewString(), true)
	return &l, nil
}

// Toggle implements links.Store.
func (s *Store) Toggle(_ context.Context, id int64) (*models.AccessLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].ID != id {
			continue
		}
		if s.links[i].IsActive {
			s.links[i].IsActive = false
		} else {
			s.deactivateAll()
			s.links[i].IsActive = true
		}
		l := s.links[i]
		return &l, nil
	}
	return nil, links.ErrNotFound
}

// List implements roster.LinkLister.
func (s *Store) List(_ context.Context) ([]models.AccessLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.AccessLink(nil), s.links...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetActive implements roster.LinkLister.
func (s *Store) GetActive(_ context.Context) (*models.AccessLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.IsActive {
			return &l, nil
		}
	}
	return nil, nil
}

// GetActiveByToken implements registrations.LinkFinder.
func (s *Store) GetActiveByToken(_ context.Context, token string) (*models.AccessLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Token == token && l.IsActive {
			return &l, nil
		}
	}
	return nil, links.ErrNotFound
}

// Create implements registrations.AttendeeCreator.
func (s *Store) Create(_ context.Context, a *models.Attendee) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Token == a.AccessTokenUsed && l.IsActive {
			a.ID = int64(len(s.attendees) + 1)
			s.attendees = append(s.attendees, *a)
			return nil
		}
	}
	return registrations.ErrLinkInactive
}

// AddAttendee stores an attendee directly, bypassing the link check.
func (s *Store) AddAttendee(a models.Attendee) models.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = int64(len(s.attendees) + 1)
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	s.attendees = append(s.attendees, a)
	return a
}

// ListAttendees implements roster.AttendeeLister.
func (s *Store) ListAttendees(_ context.Context, srt roster.Sort) ([]models.Attendee, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Attendee(nil), s.attendees...)
	sort.SliceStable(out, func(i, j int) bool {
		// NULL groups sort last in both directions, as in PostgreSQL with NULLS LAST.
		if srt.Field == roster.FieldGroup && (out[i].Group == nil) != (out[j].Group == nil) {
			return out[j].Group == nil
		}
		c := compare(out[i], out[j], srt.Field)
		if c == 0 {
			c = compareInt(out[i].ID, out[j].ID)
		}
		if srt.Order == roster.OrderAsc {
			return c < 0
		}
		return c > 0
	})
	return out, nil
}

// Attendees returns a copy of the stored attendees in insertion order.
func (s *Store) Attendees() []models.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Attendee(nil), s.attendees...)
}

// Links returns a copy of the stored links in insertion order.
func (s *Store) Links() []models.AccessLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AccessLink(nil), s.links...)
}

// ActiveCount returns how many links are active.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.links {
		if l.IsActive {
			n++
		}
	}
	return n
}

// ErrBoom is a convenient persistence failure for tests.
var ErrBoom = errors.New("storetest: boom")

func (s *Store) deactivateAll() {
	for i := range s.links {
		s.links[i].IsActive = false
	}
}

func compare(a, b models.Attendee, f roster.Field) int {
	switch f {
	case roster.FieldName:
		return strings.Compare(a.Name, b.Name)
	case roster.FieldRole:
		return strings.Compare(a.Role, b.Role)
	case roster.FieldGroup:
		return strings.Compare(a.GroupName(), b.GroupName())
	default:
		return a.Timestamp.Compare(b.Timestamp)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
