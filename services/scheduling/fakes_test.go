package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"mendly/database/repository"
	bookingRepo "mendly/database/repository/booking"
	"mendly/models"
	"mendly/utils"

	"github.com/go-redis/redis/v8"
)

type memStores struct{ byID map[string]*models.Store }

func (m *memStores) Create(ctx context.Context, st *models.Store) error {
	m.byID[st.ID] = st
	return nil
}
func (m *memStores) GetByID(ctx context.Context, id string) (*models.Store, error) {
	st, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return st, nil
}
func (m *memStores) Update(ctx context.Context, st *models.Store) error {
	m.byID[st.ID] = st
	return nil
}
func (m *memStores) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]models.Store, int64, error) {
	return nil, 0, nil
}

type memTreatments struct{ byID map[string]*models.Treatment }

func (m *memTreatments) Create(ctx context.Context, t *models.Treatment) error {
	m.byID[t.ID] = t
	return nil
}
func (m *memTreatments) GetByID(ctx context.Context, id string) (*models.Treatment, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}
func (m *memTreatments) Update(ctx context.Context, t *models.Treatment) error {
	m.byID[t.ID] = t
	return nil
}
func (m *memTreatments) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error) {
	return nil, 0, nil
}
func (m *memTreatments) ListRequiringResource(ctx context.Context, storeID, resourceID string) ([]models.Treatment, error) {
	return nil, nil
}

type memUsers struct{ byID map[string]*models.User }

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}
func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (m *memUsers) Update(ctx context.Context, u *models.User) error {
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) ListStaffByStore(ctx context.Context, storeID string) ([]models.User, error) {
	var ids []string
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []models.User
	for _, id := range ids {
		u := m.byID[id]
		if u.StoreID == storeID && u.IsStaff() && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}
func (m *memUsers) List(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, int64, error) {
	return nil, 0, nil
}

type memSlots struct {
	mu   sync.Mutex
	byID map[string]*models.Timeslot
}

func (m *memSlots) GetByID(ctx context.Context, id string) (*models.Timeslot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sl
	return &cp, nil
}
func (m *memSlots) ListByStoreAndDate(ctx context.Context, storeID, localDate string) ([]models.Timeslot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Timeslot
	for _, sl := range m.byID {
		if sl.StoreID == storeID && sl.LocalDate == localDate {
			out = append(out, *sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}
func (m *memSlots) ListCovering(ctx context.Context, storeID string, start, end time.Time, treatmentID string) ([]models.Timeslot, error) {
	return nil, nil
}
func (m *memSlots) AnyBookedOnDate(ctx context.Context, storeID, localDate string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sl := range m.byID {
		if sl.StoreID == storeID && sl.LocalDate == localDate && sl.CurrentBookings > 0 {
			return true, nil
		}
	}
	return false, nil
}
func (m *memSlots) ReplaceForDate(ctx context.Context, storeID, localDate string, slots []models.Timeslot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sl := range m.byID {
		if sl.StoreID == storeID && sl.LocalDate == localDate && sl.CurrentBookings > 0 {
			return repository.ErrSlotsBooked
		}
	}
	for id, sl := range m.byID {
		if sl.StoreID == storeID && sl.LocalDate == localDate {
			delete(m.byID, id)
		}
	}
	for i := range slots {
		cp := slots[i]
		m.byID[cp.ID] = &cp
	}
	return nil
}

// memBookings only needs the staff-busy lookup; the engine's write paths
// never run in scheduling tests.
type memBookings struct{ byID map[string]*models.Booking }

func (m *memBookings) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}
func (m *memBookings) Update(ctx context.Context, b *models.Booking) error {
	m.byID[b.ID] = b
	return nil
}
func (m *memBookings) CountOverlapping(ctx context.Context, f bookingRepo.OverlapFilter) (int64, error) {
	return 0, nil
}
func (m *memBookings) CountForStoreBetween(ctx context.Context, storeID string, start, end time.Time, excludeID string) (int64, error) {
	return 0, nil
}
func (m *memBookings) FindStaffBusy(ctx context.Context, staffIDs []string, start, end time.Time) (map[string]bool, error) {
	busy := make(map[string]bool)
	for _, b := range m.byID {
		if !b.BlocksCap || b.StaffID == "" || !b.Overlaps(start, end) {
			continue
		}
		for _, id := range staffIDs {
			if id == b.StaffID {
				busy[id] = true
			}
		}
	}
	return busy, nil
}
func (m *memBookings) HasUpcomingForTreatment(ctx context.Context, treatmentID string, after time.Time) (bool, error) {
	return false, nil
}
func (m *memBookings) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (m *memBookings) ListByStore(ctx context.Context, storeID string, f bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (m *memBookings) CreateWithSlotClaim(ctx context.Context, b *models.Booking, slotID string) error {
	m.byID[b.ID] = b
	return nil
}
func (m *memBookings) CancelWithSlotRelease(ctx context.Context, b *models.Booking) error {
	m.byID[b.ID] = b
	return nil
}
func (m *memBookings) RescheduleWithSlotSwap(ctx context.Context, b *models.Booking, oldSlotID string) error {
	m.byID[b.ID] = b
	return nil
}

type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *memLocker) Acquire(ctx context.Context, storeID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[storeID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[storeID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type emittedEvent struct {
	Type string
	Data interface{}
}

type memDispatcher struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (d *memDispatcher) Emit(ctx context.Context, eventType string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, emittedEvent{Type: eventType, Data: data})
}

func (d *memDispatcher) countOf(eventType string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type schedulingFixture struct {
	svc      *DefaultSchedulingService
	stores   *memStores
	slots    *memSlots
	bookings *memBookings
	users    *memUsers
	events   *memDispatcher
}

// newSchedulingFixture builds a Berlin store open Mon-Fri 09:00-18:00 and
// Saturday 10:00-14:00, closed Sundays.
func newSchedulingFixture() *schedulingFixture {
	// Cache reads and writes fail softly against a closed port, forcing the
	// compute path in every availability test.
	utils.CacheClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	hours := models.OperatingHours{
		models.DayMonday:    {Open: "09:00", Close: "18:00"},
		models.DayTuesday:   {Open: "09:00", Close: "18:00"},
		models.DayWednesday: {Open: "09:00", Close: "18:00"},
		models.DayThursday:  {Open: "09:00", Close: "18:00"},
		models.DayFriday:    {Open: "09:00", Close: "18:00"},
		models.DaySaturday:  {Open: "10:00", Close: "14:00"},
		models.DaySunday:    {Closed: true},
	}

	f := &schedulingFixture{
		stores: &memStores{byID: map[string]*models.Store{
			"store-1": {
				ID:             "store-1",
				Name:           "Mendly Mitte",
				Timezone:       "Europe/Berlin",
				OperatingHours: hours,
				Settings:       models.DefaultStoreSettings(),
				IsActive:       true,
			},
		}},
		slots:    &memSlots{byID: map[string]*models.Timeslot{}},
		bookings: &memBookings{byID: map[string]*models.Booking{}},
		users:    &memUsers{byID: map[string]*models.User{}},
		events:   &memDispatcher{},
	}

	treatments := &memTreatments{byID: map[string]*models.Treatment{
		"treat-massage": {
			ID: "treat-massage", StoreID: "store-1", Name: "Back Massage",
			DurationMinutes: 60, Price: models.Price{Amount: 45, Currency: "EUR"},
			RequiredStaffLevel: models.SkillSenior, MaxConcurrentBookings: 5, IsActive: true,
		},
	}}

	f.svc = &DefaultSchedulingService{
		Stores:     f.stores,
		Slots:      f.slots,
		Treatments: treatments,
		Users:      f.users,
		Bookings:   f.bookings,
		Locker:     &memLocker{locks: map[string]*sync.Mutex{}},
		Events:     f.events,
	}
	return f
}

func (f *schedulingFixture) store() *models.Store { return f.stores.byID["store-1"] }

func (f *schedulingFixture) treatments() *memTreatments {
	return f.svc.Treatments.(*memTreatments)
}

func (f *schedulingFixture) seedSlot(sl models.Timeslot) {
	cp := sl
	f.slots.byID[cp.ID] = &cp
}
