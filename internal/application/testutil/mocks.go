// Package testutil provides in-memory ports for testing the application layer.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/externaltoken"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
)

// FakeCipher marks values instead of encrypting them.
type FakeCipher struct{}

func (FakeCipher) Encrypt(plain string) (string, error) { return "sealed:" + plain, nil }

func (FakeCipher) Decrypt(sealed string) (string, error) {
	plain, ok := strings.CutPrefix(sealed, "sealed:")
	if !ok {
		return "", errors.New("not sealed")
	}
	return plain, nil
}

// Transactor runs fn directly. CommitErr, when set, is returned after fn
// succeeds to simulate a failed commit.
type Transactor struct {
	CommitErr error
	Calls     atomic.Int32
}

func (t *Transactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls.Add(1)
	if err := fn(ctx); err != nil {
		return err
	}
	return t.CommitErr
}

// MockTokenRepository is an in-memory externaltoken.Repository.
type MockTokenRepository struct {
	mu     sync.Mutex
	rows   []*externaltoken.Token
	nextID uint

	CreateErr error
	FindErr   error
	FindCalls atomic.Int32
	// FindDelay slows reads so concurrent callers overlap.
	FindDelay time.Duration
	// AfterFind runs once a row has been read, before it is returned.
	AfterFind func()
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{}
}

func (m *MockTokenRepository) Create(_ context.Context, t *externaltoken.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.nextID++
	t.SetID(m.nextID)
	m.rows = append(m.rows, t)
	return nil
}

func (m *MockTokenRepository) DeleteByUser(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.UserID() == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *MockTokenRepository) FindLatestValid(_ context.Context, userID uint, now time.Time) (*externaltoken.Token, error) {
	m.FindCalls.Add(1)
	if m.FindDelay > 0 {
		time.Sleep(m.FindDelay)
	}
	tok, err := m.findLatestValid(userID, now)
	if m.AfterFind != nil {
		m.AfterFind()
	}
	return tok, err
}

func (m *MockTokenRepository) findLatestValid(userID uint, now time.Time) (*externaltoken.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.UserID() == userID && !r.IsExpired(now) {
			return r, nil
		}
	}
	return nil, externaltoken.ErrNotFound
}

// Count returns the stored rows of userID.
func (m *MockTokenRepository) Count(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.UserID() == userID {
			n++
		}
	}
	return n
}

type integrationKey struct {
	userID   uint
	provider integration.Provider
}

// MockIntegrationRepository is an in-memory integration.Repository.
type MockIntegrationRepository struct {
	mu     sync.Mutex
	rows   map[integrationKey]*integration.Integration
	nextID uint

	SaveErr   error
	GetErr    error
	SaveCalls atomic.Int32
}

func NewMockIntegrationRepository() *MockIntegrationRepository {
	return &MockIntegrationRepository{rows: make(map[integrationKey]*integration.Integration)}
}

func (m *MockIntegrationRepository) GetByUserAndProvider(_ context.Context, userID uint, provider integration.Provider) (*integration.Integration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	i, ok := m.rows[integrationKey{userID, provider}]
	if !ok {
		return nil, integration.ErrNotFound
	}
	return i, nil
}

func (m *MockIntegrationRepository) Save(_ context.Context, i *integration.Integration) error {
	m.SaveCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	key := integrationKey{i.UserID(), i.Provider()}
	if existing, ok := m.rows[key]; ok && i.ID() == 0 {
		i.SetID(existing.ID())
	}
	if i.ID() == 0 {
		m.nextID++
		i.SetID(m.nextID)
	}
	m.rows[key] = i
	return nil
}

func (m *MockIntegrationRepository) ListByUser(_ context.Context, userID uint) ([]*integration.Integration, error) {
	return m.filter(func(i *integration.Integration) bool { return i.UserID() == userID }), nil
}

func (m *MockIntegrationRepository) ListConnected(_ context.Context, provider integration.Provider) ([]*integration.Integration, error) {
	return m.filter(func(i *integration.Integration) bool {
		return i.Provider() == provider && i.Status() == integration.StatusConnected
	}), nil
}

func (m *MockIntegrationRepository) CountByStatus(_ context.Context, userID uint) (map[integration.Status]int64, error) {
	out := make(map[integration.Status]int64)
	for _, i := range m.filter(func(i *integration.Integration) bool { return i.UserID() == userID }) {
		out[i.Status()]++
	}
	return out, nil
}

// Put stores i as is, for arranging test state.
func (m *MockIntegrationRepository) Put(i *integration.Integration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[integrationKey{i.UserID(), i.Provider()}] = i
}

func (m *MockIntegrationRepository) filter(keep func(*integration.Integration) bool) []*integration.Integration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*integration.Integration
	for _, i := range m.rows {
		if keep(i) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].UserID() != out[b].UserID() {
			return out[a].UserID() < out[b].UserID()
		}
		return out[a].Provider() < out[b].Provider()
	})
	return out
}

// MockSyncLogRepository is an in-memory synclog.Repository.
type MockSyncLogRepository struct {
	mu      sync.Mutex
	entries []*synclog.Entry

	CreateErr error
	UpdateErr error
}

func NewMockSyncLogRepository() *MockSyncLogRepository {
	return &MockSyncLogRepository{}
}

func (m *MockSyncLogRepository) Create(_ context.Context, e *synclog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	e.SetID(uint(len(m.entries) + 1))
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockSyncLogRepository) Update(_ context.Context, e *synclog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i, cur := range m.entries {
		if cur.ID() == e.ID() {
			m.entries[i] = e
			return nil
		}
	}
	return synclog.ErrNotFound
}

func (m *MockSyncLogRepository) FindLatestCompleted(_ context.Context, f synclog.Filter) (*synclog.Entry, error) {
	var latest *synclog.Entry
	for _, e := range m.scoped(f) {
		if e.Status() != synclog.StatusCompleted {
			continue
		}
		if latest == nil || !e.CompletedAt().Before(*latest.CompletedAt()) {
			latest = e
		}
	}
	if latest == nil {
		return nil, synclog.ErrNotFound
	}
	return latest, nil
}

func (m *MockSyncLogRepository) ExistsProcessing(_ context.Context, f synclog.Filter) (bool, error) {
	for _, e := range m.scoped(f) {
		if e.IsProcessing() {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockSyncLogRepository) ListRecent(_ context.Context, f synclog.Filter, limit int) ([]*synclog.Entry, error) {
	all := m.scoped(f)
	var out []*synclog.Entry
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *MockSyncLogRepository) ListStartedBetween(_ context.Context, f synclog.Filter, from, to time.Time) ([]*synclog.Entry, error) {
	var out []*synclog.Entry
	for _, e := range m.scoped(f) {
		if !e.StartedAt().Before(from) && !e.StartedAt().After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Add stores e as is, for arranging test state.
func (m *MockSyncLogRepository) Add(e *synclog.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.SetID(uint(len(m.entries) + 1))
	m.entries = append(m.entries, e)
}

// All returns every entry in creation order.
func (m *MockSyncLogRepository) All() []*synclog.Entry {
	return m.scoped(synclog.Filter{})
}

func (m *MockSyncLogRepository) scoped(f synclog.Filter) []*synclog.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*synclog.Entry
	for _, e := range m.entries {
		if f.UserID != nil && (e.UserID() == nil || *e.UserID() != *f.UserID) {
			continue
		}
		if f.Entity != "" && e.Entity() != f.Entity {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MockAttendanceRepository is an in-memory attendance.Repository.
type MockAttendanceRepository struct {
	mu   sync.Mutex
	rows map[string]*attendance.Record
	// Order lists upserted keys in call order.
	Order []string

	// FailOn makes UpsertByKey fail for the given employee ids.
	FailOn map[string]error
}

func NewMockAttendanceRepository() *MockAttendanceRepository {
	return &MockAttendanceRepository{rows: make(map[string]*attendance.Record), FailOn: make(map[string]error)}
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (m *MockAttendanceRepository) UpsertByKey(_ context.Context, employeeID string, date time.Time, f attendance.Fields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailOn[employeeID]; ok {
		return false, err
	}
	key := attendanceKey(employeeID, date)
	m.Order = append(m.Order, key)
	syncedAt := f.SyncedAt
	rec := &attendance.Record{
		EmployeeID: employeeID,
		Date:       date,
		Status:     f.Status,
		CheckIn:    f.CheckIn,
		CheckOut:   f.CheckOut,
		Hours:      f.Hours,
		Overtime:   f.Overtime,
		Source:     f.Source,
		SyncedAt:   &syncedAt,
		ExternalID: f.ExternalID,
	}
	_, existed := m.rows[key]
	m.rows[key] = rec
	return !existed, nil
}

func (m *MockAttendanceRepository) FindByKey(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[attendanceKey(employeeID, date)]
	if !ok {
		return nil, attendance.ErrNotFound
	}
	return rec, nil
}

func (m *MockAttendanceRepository) CountBetween(_ context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if !r.Date.Before(from) && !r.Date.After(to) {
			n++
		}
	}
	return n, nil
}
