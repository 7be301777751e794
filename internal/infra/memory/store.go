package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type state struct {
	ids map[string]uint

	users        map[uint]models.User
	barbers      map[uint]models.Barber
	packages     map[uint]models.Package
	slots        map[uint]models.Schedule
	slotKeys     map[schedule.Key]uint
	reservations map[uint]models.Reservation
	payments     map[uint]models.Payment
	auditLogs    []models.AuditLog

	reservationSeq int64
}

func newState() *state {
	return &state{
		ids:          map[string]uint{},
		users:        map[uint]models.User{},
		barbers:      map[uint]models.Barber{},
		packages:     map[uint]models.Package{},
		slots:        map[uint]models.Schedule{},
		slotKeys:     map[schedule.Key]uint{},
		reservations: map[uint]models.Reservation{},
		payments:     map[uint]models.Payment{},
	}
}

func (st *state) clone() *state {
	out := newState()
	for k, v := range st.ids {
		out.ids[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.barbers {
		out.barbers[k] = v
	}
	for k, v := range st.packages {
		out.packages[k] = v
	}
	for k, v := range st.slots {
		out.slots[k] = v
	}
	for k, v := range st.slotKeys {
		out.slotKeys[k] = v
	}
	for k, v := range st.reservations {
		out.reservations[k] = v
	}
	for k, v := range st.payments {
		out.payments[k] = v
	}
	out.auditLogs = append(out.auditLogs, st.auditLogs...)
	out.reservationSeq = st.reservationSeq
	return out
}

func (st *state) nextID(table string) uint {
	st.ids[table]++
	return st.ids[table]
}

// Store keeps every table in process memory. A single mutex stands in for
// the database's row locking; Transaction holds it for the whole callback
// and restores a snapshot when the callback fails.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, st: newState()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Transaction(ctx context.Context, fn func(tx booking.Repository) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Store{mu: s.mu, st: s.st, inTx: true}

	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	defer s.lock()()

	u, ok := s.st.users[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.lock()()

	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, booking.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	defer s.lock()()

	for _, existing := range s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return booking.ErrDuplicate
		}
	}
	u.ID = s.st.nextID("users")
	stamp(&u.CreatedAt, &u.UpdatedAt)
	s.st.users[u.ID] = *u
	return nil
}

func (s *Store) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	defer s.lock()()

	b, ok := s.st.barbers[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &b, nil
}

func (s *Store) ListBarbers(ctx context.Context, onlyActive bool) ([]models.Barber, error) {
	defer s.lock()()

	out := make([]models.Barber, 0, len(s.st.barbers))
	for _, b := range s.st.barbers {
		if onlyActive && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveBarber(ctx context.Context, b *models.Barber) error {
	defer s.lock()()

	if b.ID == 0 {
		b.ID = s.st.nextID("barbers")
	} else if _, ok := s.st.barbers[b.ID]; !ok {
		return booking.ErrNotFound
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	s.st.barbers[b.ID] = *b
	return nil
}

func (s *Store) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	defer s.lock()()

	p, ok := s.st.packages[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPackages(ctx context.Context, onlyActive bool) ([]models.Package, error) {
	defer s.lock()()

	out := make([]models.Package, 0, len(s.st.packages))
	for _, p := range s.st.packages {
		if onlyActive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SavePackage(ctx context.Context, p *models.Package) error {
	defer s.lock()()

	if p.ID == 0 {
		p.ID = s.st.nextID("packages")
	} else if _, ok := s.st.packages[p.ID]; !ok {
		return booking.ErrNotFound
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.st.packages[p.ID] = *p
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	defer s.lock()()

	l.ID = s.st.nextID("audit_logs")
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.st.auditLogs = append(s.st.auditLogs, *l)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, action, entity string, limit, offset int) ([]models.AuditLog, int64, error) {
	defer s.lock()()

	var matched []models.AuditLog
	for i := len(s.st.auditLogs) - 1; i >= 0; i-- {
		l := s.st.auditLogs[i]
		if action != "" && l.Action != action {
			continue
		}
		if entity != "" && l.Entity != entity {
			continue
		}
		matched = append(matched, l)
	}
	return page(matched, limit, offset), int64(len(matched)), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

var _ booking.Repository = (*Store)(nil)
