package booking

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

// -----------------------------
// In-memory fakes
// -----------------------------

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
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (m *memUsers) Update(ctx context.Context, u *models.User) error {
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) ListStaffByStore(ctx context.Context, storeID string) ([]models.User, error) {
	var out []models.User
	for _, u := range m.byID {
		if u.StoreID == storeID && u.IsStaff() && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}
func (m *memUsers) List(ctx context.Context, role models.Role, page, pageSize int) ([]models.User, int64, error) {
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
	var out []models.Treatment
	for _, t := range m.byID {
		if t.StoreID != storeID || !t.IsActive {
			continue
		}
		for _, rid := range t.RequiredResources {
			if rid == resourceID {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

type memResources struct{ byID map[string]*models.Resource }

func (m *memResources) Create(ctx context.Context, r *models.Resource) error {
	m.byID[r.ID] = r
	return nil
}
func (m *memResources) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}
func (m *memResources) GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error) {
	var out []models.Resource
	for _, id := range ids {
		if r, ok := m.byID[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (m *memResources) Update(ctx context.Context, r *models.Resource) error {
	m.byID[r.ID] = r
	return nil
}
func (m *memResources) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error) {
	return nil, 0, nil
}

// memSlots and memBookings share one mutex so the counter moves the booking
// transactions make stay atomic, like the Mongo transactions they stand in
// for.
type memSlots struct {
	mu   *sync.Mutex
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
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Timeslot
	for _, sl := range m.byID {
		if sl.StoreID != storeID || !sl.IsActive {
			continue
		}
		if !sl.Covers(start, end) || !sl.AcceptsTreatment(treatmentID) {
			continue
		}
		out = append(out, *sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
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

type memBookings struct {
	mu    *sync.Mutex
	byID  map[string]*models.Booking
	slots map[string]*models.Timeslot // shared with memSlots
}

func (m *memBookings) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}
func (m *memBookings) Update(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}
func (m *memBookings) CountOverlapping(ctx context.Context, f bookingRepo.OverlapFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.byID {
		if !b.BlocksCap || b.ID == f.ExcludeID {
			continue
		}
		if f.StoreID != "" && b.StoreID != f.StoreID {
			continue
		}
		if f.TreatmentID != "" && b.TreatmentID != f.TreatmentID {
			continue
		}
		if len(f.TreatmentIDs) > 0 && !containsString(f.TreatmentIDs, b.TreatmentID) {
			continue
		}
		if f.StaffID != "" && b.StaffID != f.StaffID {
			continue
		}
		if !b.Overlaps(f.Start, f.End) {
			continue
		}
		n++
	}
	return n, nil
}
func (m *memBookings) CountForStoreBetween(ctx context.Context, storeID string, start, end time.Time, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.byID {
		if !b.BlocksCap || b.ID == excludeID || b.StoreID != storeID {
			continue
		}
		if b.BookingDateTime.Before(start) || !b.BookingDateTime.Before(end) {
			continue
		}
		n++
	}
	return n, nil
}
func (m *memBookings) FindStaffBusy(ctx context.Context, staffIDs []string, start, end time.Time) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	busy := make(map[string]bool)
	for _, b := range m.byID {
		if !b.BlocksCap || b.StaffID == "" || !b.Overlaps(start, end) {
			continue
		}
		if containsString(staffIDs, b.StaffID) {
			busy[b.StaffID] = true
		}
	}
	return busy, nil
}
func (m *memBookings) HasUpcomingForTreatment(ctx context.Context, treatmentID string, after time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byID {
		if b.BlocksCap && b.TreatmentID == treatmentID && b.BookingDateTime.After(after) {
			return true, nil
		}
	}
	return false, nil
}
func (m *memBookings) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.byID {
		if b.CustomerID != customerID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}
func (m *memBookings) ListByStore(ctx context.Context, storeID string, f bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.byID {
		if b.StoreID == storeID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}
func (m *memBookings) CreateWithSlotClaim(ctx context.Context, b *models.Booking, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[slotID]
	if !ok {
		return repository.ErrNotFound
	}
	if sl.CurrentBookings >= sl.MaxCapacity {
		return repository.ErrSlotFull
	}
	sl.CurrentBookings++
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}
func (m *memBookings) CancelWithSlotRelease(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sl, ok := m.slots[b.TimeslotID]; ok && sl.CurrentBookings > 0 {
		sl.CurrentBookings--
	}
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}
func (m *memBookings) RescheduleWithSlotSwap(ctx context.Context, b *models.Booking, oldSlotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	newSl, ok := m.slots[b.TimeslotID]
	if !ok {
		return repository.ErrNotFound
	}
	if newSl.CurrentBookings >= newSl.MaxCapacity {
		return repository.ErrSlotFull
	}
	newSl.CurrentBookings++
	if oldSl, ok := m.slots[oldSlotID]; ok && oldSl.CurrentBookings > 0 {
		oldSl.CurrentBookings--
	}
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

// memLocker hands out real per-store mutexes so concurrent admission tests
// exercise actual serialization.
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

// -----------------------------
// Fixture
// -----------------------------

// fixedNow anchors every test clock: 2026-08-25 10:00 UTC.
var fixedNow = time.Date(2026, time.August, 25, 10, 0, 0, 0, time.UTC)

type engineFixture struct {
	svc        *DefaultBookingService
	stores     *memStores
	users      *memUsers
	treatments *memTreatments
	resources  *memResources
	slots      *memSlots
	bookings   *memBookings
	events     *memDispatcher
}

// newEngineFixture builds a Berlin store open 09:00-18:00 every day, one
// 60-minute massage treatment capped at 2 concurrent bookings, one senior
// staff member, and a single slot covering 2026-09-01 09:00-17:00 local
// (07:00-15:00 UTC) with room for 3 bookings.
func newEngineFixture() *engineFixture {
	// BumpAvailabilityEpoch needs a client; pointing it at a closed port
	// makes cache writes fail softly, which the engine tolerates.
	utils.CacheClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	allWeek := models.OperatingHours{}
	for _, day := range []string{
		models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday,
		models.DayFriday, models.DaySaturday, models.DaySunday,
	} {
		allWeek[day] = models.DayHours{Open: "09:00", Close: "18:00"}
	}

	mu := &sync.Mutex{}
	slotMap := map[string]*models.Timeslot{
		"slot-1": {
			ID:          "slot-1",
			StoreID:     "store-1",
			StartTime:   time.Date(2026, time.September, 1, 7, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2026, time.September, 1, 15, 0, 0, 0, time.UTC),
			LocalDate:   "2026-09-01",
			MaxCapacity: 3,
			IsActive:    true,
		},
	}

	f := &engineFixture{
		stores: &memStores{byID: map[string]*models.Store{
			"store-1": {
				ID:             "store-1",
				Name:           "Mendly Mitte",
				Timezone:       "Europe/Berlin",
				OperatingHours: allWeek,
				Settings:       models.DefaultStoreSettings(),
				IsActive:       true,
			},
		}},
		users: &memUsers{byID: map[string]*models.User{
			"cust-1": {ID: "cust-1", Email: "anna@example.com", Role: models.RoleCustomer, IsActive: true},
			"staff-1": {
				ID: "staff-1", Email: "jo@example.com", Role: models.RoleStaff,
				StoreID: "store-1", SkillLevel: models.SkillSenior, IsActive: true,
			},
		}},
		treatments: &memTreatments{byID: map[string]*models.Treatment{
			"treat-massage": {
				ID: "treat-massage", StoreID: "store-1", Name: "Back Massage",
				DurationMinutes: 60, Price: models.Price{Amount: 45, Currency: "EUR"},
				RequiredStaffLevel: models.SkillAny, MaxConcurrentBookings: 2, IsActive: true,
			},
		}},
		resources: &memResources{byID: map[string]*models.Resource{}},
		slots:     &memSlots{mu: mu, byID: slotMap},
		bookings:  &memBookings{mu: mu, byID: map[string]*models.Booking{}, slots: slotMap},
		events:    &memDispatcher{},
	}

	f.svc = &DefaultBookingService{
		Stores:     f.stores,
		Users:      f.users,
		Treatments: f.treatments,
		Resources:  f.resources,
		Slots:      f.slots,
		Bookings:   f.bookings,
		Locker:     &memLocker{locks: map[string]*sync.Mutex{}},
		Events:     f.events,
		Now:        func() time.Time { return fixedNow },
	}
	return f
}

func (f *engineFixture) store() *models.Store { return f.stores.byID["store-1"] }

// seedBooking inserts a capacity-holding booking and bumps its slot counter,
// mirroring what a committed CreateWithSlotClaim leaves behind.
func (f *engineFixture) seedBooking(id string, start time.Time, minutes int, mutate ...func(*models.Booking)) *models.Booking {
	b := &models.Booking{
		ID:              id,
		CustomerID:      "cust-1",
		StoreID:         "store-1",
		TreatmentID:     "treat-massage",
		TimeslotID:      "slot-1",
		BookingDateTime: start,
		EndDateTime:     start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		CreatedAt:       fixedNow,
		UpdatedAt:       fixedNow,
	}
	b.SetStatus(models.BookingConfirmed)
	for _, fn := range mutate {
		fn(b)
	}
	f.bookings.byID[id] = b
	if b.Status.BlocksCapacity() {
		if sl, ok := f.slots.byID[b.TimeslotID]; ok {
			sl.CurrentBookings++
		}
	}
	return b
}

// baseRequest is a valid admission: 2026-09-01 10:00 Berlin (08:00 UTC).
func (f *engineFixture) baseRequest() CreateRequest {
	return CreateRequest{
		CustomerID:      "cust-1",
		StoreID:         "store-1",
		TreatmentID:     "treat-massage",
		BookingDateTime: time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC),
		ActorRole:       models.RoleCustomer,
	}
}

func intPtr(n int) *int { return &n }
