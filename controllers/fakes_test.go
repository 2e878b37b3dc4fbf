package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/models"
	"github.com/meinhoongagan/petcare/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeAuth stands in for middleware.Protected: the caller is taken from the
// X-User-ID and X-Role headers.
func fakeAuth(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Get("X-User-ID"))
	c.Locals("userID", uint(id))
	c.Locals("role", models.Role(c.Get("X-Role")))
	return c.Next()
}

func modelID(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

type caller struct {
	id   uint
	role models.Role
}

func doJSON(t *testing.T, app *fiber.App, who caller, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who.id != 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(int(who.id)))
		req.Header.Set("X-Role", string(who.role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		out["_raw"] = string(raw)
	}
	return resp.StatusCode, out
}

type fakeProviders struct {
	mu    sync.Mutex
	byID  map[uint]*models.Provider
	maxID uint
}

func newFakeProviders(ps ...*models.Provider) *fakeProviders {
	f := &fakeProviders{byID: map[uint]*models.Provider{}}
	for _, p := range ps {
		f.byID[p.ID] = p
		if p.ID > f.maxID {
			f.maxID = p.ID
		}
	}
	return f
}

func (f *fakeProviders) Create(ctx context.Context, p *models.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxID++
	p.ID = f.maxID
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProviders) GetByID(ctx context.Context, id uint) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProviders) GetByUserID(ctx context.Context, userID uint) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProviders) List(ctx context.Context, filter repository.ProviderFilter) ([]models.Provider, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Provider
	for _, p := range f.byID {
		if filter.Category == "" || p.Category == filter.Category {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProviders) UpdateProfile(ctx context.Context, p *models.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

type fakeAvailability struct {
	mu      sync.Mutex
	weeks   map[uint]availability.Weekly
	saves   int
	saveErr error
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{weeks: map[uint]availability.Weekly{}}
}

func (f *fakeAvailability) GetAvailability(ctx context.Context, providerID uint) (availability.Weekly, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.weeks[providerID]
	if !ok {
		return availability.NewWeekly(), nil
	}
	return w.Clone(), nil
}

func (f *fakeAvailability) SaveAvailability(ctx context.Context, providerID uint, w availability.Weekly) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.weeks[providerID] = w.Clone()
	return nil
}

func (f *fakeAvailability) day(providerID uint, d availability.Weekday) availability.Day {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weeks[providerID].Day(d)
}

type fakeSessions struct {
	mu      sync.Mutex
	buffers map[string][]availability.TimeSlot
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{buffers: map[string][]availability.TimeSlot{}}
}

func sessionKey(providerID uint, day availability.Weekday) string {
	return fmt.Sprintf("%d:%s", providerID, day)
}

func (f *fakeSessions) Load(ctx context.Context, providerID uint, day availability.Weekday) ([]availability.TimeSlot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf, ok := f.buffers[sessionKey(providerID, day)]
	return append([]availability.TimeSlot(nil), buf...), ok, nil
}

func (f *fakeSessions) Save(ctx context.Context, providerID uint, day availability.Weekday, slots []availability.TimeSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buffers[sessionKey(providerID, day)] = append([]availability.TimeSlot{}, slots...)
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, providerID uint, day availability.Weekday) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.buffers, sessionKey(providerID, day))
	return nil
}

func (f *fakeSessions) open(providerID uint, day availability.Weekday) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.buffers[sessionKey(providerID, day)]
	return ok
}

type fakeNotifiers struct {
	mu   sync.Mutex
	sent []availability.Notification
}

func (f *fakeNotifiers) For(providerID uint) availability.Notifier {
	return availability.NotifierFunc(func(n availability.Notification) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.sent = append(f.sent, n)
	})
}

func (f *fakeNotifiers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeServices struct {
	byID map[uint]*models.Service
}

func (f *fakeServices) ListByProvider(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.byID {
		if s.ProviderID == providerID && (!activeOnly || s.Active) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeServices) Get(ctx context.Context, id uint) (*models.Service, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeServices) Create(ctx context.Context, s *models.Service) error {
	s.ID = uint(len(f.byID) + 1)
	f.byID[s.ID] = s
	return nil
}

func (f *fakeServices) Update(ctx context.Context, s *models.Service) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeServices) Delete(ctx context.Context, providerID, id uint) error {
	s, ok := f.byID[id]
	if !ok || s.ProviderID != providerID {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePets struct {
	byID map[uint]*models.Pet
}

func (f *fakePets) ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	var out []models.Pet
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePets) Get(ctx context.Context, ownerID, id uint) (*models.Pet, error) {
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePets) Create(ctx context.Context, p *models.Pet) error {
	p.ID = uint(len(f.byID) + 1)
	f.byID[p.ID] = p
	return nil
}

func (f *fakePets) Update(ctx context.Context, p *models.Pet) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePets) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakeBookings struct {
	mu   sync.Mutex
	byID map[uint]*models.Booking
}

func newFakeBookings(bs ...*models.Booking) *fakeBookings {
	f := &fakeBookings{byID: map[uint]*models.Booking{}}
	for _, b := range bs {
		f.byID[b.ID] = b
	}
	return f
}

func (f *fakeBookings) CreateIfFree(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.byID {
		if other.ProviderID == b.ProviderID && other.Date == b.Date && other.Status != models.StatusCanceled &&
			other.StartTime < b.EndTime && b.StartTime < other.EndTime {
			return repository.ErrSlotTaken
		}
	}
	if err := b.BeforeCreate(nil); err != nil {
		return err
	}
	b.ID = uint(len(f.byID) + 1)
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBookings) Get(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) ListForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.byID {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListForProvider(ctx context.Context, providerID uint, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.byID {
		if b.ProviderID == providerID && (date == "" || b.Date == date) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) BusyIntervals(ctx context.Context, providerID uint, date string) ([]availability.Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []availability.Interval
	for _, b := range f.byID {
		if b.ProviderID == providerID && b.Date == date && b.Status != models.StatusCanceled {
			out = append(out, b.Interval())
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = b.Status
	return nil
}
