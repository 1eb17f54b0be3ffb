package catalog

import (
	"context"
	"testing"
	"time"

	"mendly/database/repository"
	bookingRepo "mendly/database/repository/booking"
	"mendly/models"
	"mendly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}
func (m *memTreatments) GetByID(ctx context.Context, id string) (*models.Treatment, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}
func (m *memTreatments) Update(ctx context.Context, t *models.Treatment) error {
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}
func (m *memTreatments) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Treatment, int64, error) {
	var out []models.Treatment
	for _, t := range m.byID {
		if t.StoreID != storeID {
			continue
		}
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
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
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}
func (m *memResources) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
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
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}
func (m *memResources) ListByStore(ctx context.Context, storeID string, activeOnly bool, page, pageSize int) ([]models.Resource, int64, error) {
	return nil, 0, nil
}

// stubBookings answers the upcoming-bookings guard; nothing else in the
// catalog touches bookings.
type stubBookings struct{ upcoming map[string]bool }

func (s *stubBookings) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, repository.ErrNotFound
}
func (s *stubBookings) Update(ctx context.Context, b *models.Booking) error { return nil }
func (s *stubBookings) CountOverlapping(ctx context.Context, f bookingRepo.OverlapFilter) (int64, error) {
	return 0, nil
}
func (s *stubBookings) CountForStoreBetween(ctx context.Context, storeID string, start, end time.Time, excludeID string) (int64, error) {
	return 0, nil
}
func (s *stubBookings) FindStaffBusy(ctx context.Context, staffIDs []string, start, end time.Time) (map[string]bool, error) {
	return map[string]bool{}, nil
}
func (s *stubBookings) HasUpcomingForTreatment(ctx context.Context, treatmentID string, after time.Time) (bool, error) {
	return s.upcoming[treatmentID], nil
}
func (s *stubBookings) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus, page, pageSize int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *stubBookings) ListByStore(ctx context.Context, storeID string, f bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *stubBookings) CreateWithSlotClaim(ctx context.Context, b *models.Booking, slotID string) error {
	return nil
}
func (s *stubBookings) CancelWithSlotRelease(ctx context.Context, b *models.Booking) error {
	return nil
}
func (s *stubBookings) RescheduleWithSlotSwap(ctx context.Context, b *models.Booking, oldSlotID string) error {
	return nil
}

type catalogFixture struct {
	svc        *DefaultCatalogService
	treatments *memTreatments
	resources  *memResources
	bookings   *stubBookings
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		treatments: &memTreatments{byID: map[string]*models.Treatment{}},
		resources: &memResources{byID: map[string]*models.Resource{
			"res-room": {ID: "res-room", StoreID: "store-1", Name: "Room 1", Capacity: 2, IsActive: true},
		}},
		bookings: &stubBookings{upcoming: map[string]bool{}},
	}
	f.svc = &DefaultCatalogService{
		Stores: &memStores{byID: map[string]*models.Store{
			"store-1": {ID: "store-1", Name: "Mendly Mitte", Timezone: "Europe/Berlin",
				Settings: models.DefaultStoreSettings(), IsActive: true},
			"store-dark": {ID: "store-dark", Name: "Closed Down", Timezone: "Europe/Berlin",
				Settings: models.DefaultStoreSettings(), IsActive: false},
		}},
		Treatments: f.treatments,
		Resources:  f.resources,
		Bookings:   f.bookings,
	}
	return f
}

func validTreatment() *models.Treatment {
	return &models.Treatment{
		StoreID:         "store-1",
		Name:            "Hot Stone Massage",
		DurationMinutes: 60,
		Price:           models.Price{Amount: 75, Currency: "EUR"},
	}
}

func TestCreateTreatment_AppliesDefaults(t *testing.T) {
	f := newCatalogFixture()

	created, err := f.svc.CreateTreatment(context.Background(), validTreatment())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, models.SkillAny, created.RequiredStaffLevel)
	assert.Equal(t, 1, created.MaxConcurrentBookings)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateTreatment_Validation(t *testing.T) {
	f := newCatalogFixture()

	cases := []struct {
		name   string
		mutate func(*models.Treatment)
	}{
		{"missing name", func(tr *models.Treatment) { tr.Name = "" }},
		{"too short", func(tr *models.Treatment) { tr.DurationMinutes = 10 }},
		{"too long", func(tr *models.Treatment) { tr.DurationMinutes = 500 }},
		{"negative price", func(tr *models.Treatment) { tr.Price.Amount = -1 }},
		{"bad currency", func(tr *models.Treatment) { tr.Price.Currency = "EURO" }},
		{"bad staff level", func(tr *models.Treatment) { tr.RequiredStaffLevel = "master" }},
		{"negative concurrency", func(tr *models.Treatment) { tr.MaxConcurrentBookings = -2 }},
		{"inactive store", func(tr *models.Treatment) { tr.StoreID = "store-dark" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTreatment()
			tc.mutate(tr)
			_, err := f.svc.CreateTreatment(context.Background(), tr)
			var ve *utils.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}

	tr := validTreatment()
	tr.StoreID = "ghost"
	_, err := f.svc.CreateTreatment(context.Background(), tr)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateTreatment_ResourceReferences(t *testing.T) {
	f := newCatalogFixture()
	f.resources.byID["res-foreign"] = &models.Resource{
		ID: "res-foreign", StoreID: "store-2", Name: "Elsewhere", Capacity: 1, IsActive: true,
	}
	f.resources.byID["res-broken"] = &models.Resource{
		ID: "res-broken", StoreID: "store-1", Name: "Broken Sauna", Capacity: 1, IsActive: false,
	}

	cases := []struct {
		name string
		refs []string
	}{
		{"unknown resource", []string{"ghost"}},
		{"foreign resource", []string{"res-foreign"}},
		{"inactive resource", []string{"res-broken"}},
		{"duplicate reference", []string{"res-room", "res-room"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTreatment()
			tr.RequiredResources = tc.refs
			_, err := f.svc.CreateTreatment(context.Background(), tr)
			var ve *utils.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}

	tr := validTreatment()
	tr.RequiredResources = []string{"res-room"}
	created, err := f.svc.CreateTreatment(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"res-room"}, created.RequiredResources)
}

func TestUpdateTreatment_PatchesAndRevalidates(t *testing.T) {
	f := newCatalogFixture()
	created, err := f.svc.CreateTreatment(context.Background(), validTreatment())
	require.NoError(t, err)

	newName := "Hot Stone Deluxe"
	newDuration := 90
	upd, err := f.svc.UpdateTreatment(context.Background(), created.ID, TreatmentUpdate{
		Name:            &newName,
		DurationMinutes: &newDuration,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, upd.Name)
	assert.Equal(t, 90, upd.DurationMinutes)
	// Untouched fields survive.
	assert.Equal(t, models.Price{Amount: 75, Currency: "EUR"}, upd.Price)

	badDuration := 5
	_, err = f.svc.UpdateTreatment(context.Background(), created.ID, TreatmentUpdate{DurationMinutes: &badDuration})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	// The rejected patch left the stored record alone.
	stored, _ := f.treatments.GetByID(context.Background(), created.ID)
	assert.Equal(t, 90, stored.DurationMinutes)
}

func TestDeactivateTreatment_GuardsUpcomingBookings(t *testing.T) {
	f := newCatalogFixture()
	created, err := f.svc.CreateTreatment(context.Background(), validTreatment())
	require.NoError(t, err)

	f.bookings.upcoming[created.ID] = true
	err = f.svc.DeactivateTreatment(context.Background(), created.ID)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	f.bookings.upcoming[created.ID] = false
	require.NoError(t, f.svc.DeactivateTreatment(context.Background(), created.ID))
	stored, _ := f.treatments.GetByID(context.Background(), created.ID)
	assert.False(t, stored.IsActive)

	// Deactivating twice is a no-op, not an error.
	require.NoError(t, f.svc.DeactivateTreatment(context.Background(), created.ID))
}

func TestCreateResource_Validation(t *testing.T) {
	f := newCatalogFixture()

	created, err := f.svc.CreateResource(context.Background(), &models.Resource{
		StoreID: "store-1", Name: "Sauna", Type: "room", Capacity: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	_, err = f.svc.CreateResource(context.Background(), &models.Resource{StoreID: "store-1", Capacity: 1})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.CreateResource(context.Background(), &models.Resource{StoreID: "store-1", Name: "Pool", Capacity: 0})
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.CreateResource(context.Background(), &models.Resource{StoreID: "ghost", Name: "Pool", Capacity: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateResource_DeactivationGuard(t *testing.T) {
	f := newCatalogFixture()
	tr := validTreatment()
	tr.RequiredResources = []string{"res-room"}
	created, err := f.svc.CreateTreatment(context.Background(), tr)
	require.NoError(t, err)

	// An active treatment still requires the room.
	off := false
	_, err = f.svc.UpdateResource(context.Background(), "res-room", ResourceUpdate{IsActive: &off})
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	// Once the dependent treatment is gone the room can be retired.
	require.NoError(t, f.svc.DeactivateTreatment(context.Background(), created.ID))
	res, err := f.svc.UpdateResource(context.Background(), "res-room", ResourceUpdate{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, res.IsActive)
}

func TestUpdateResource_CapacityFloor(t *testing.T) {
	f := newCatalogFixture()

	bad := 0
	_, err := f.svc.UpdateResource(context.Background(), "res-room", ResourceUpdate{Capacity: &bad})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)

	three := 3
	res, err := f.svc.UpdateResource(context.Background(), "res-room", ResourceUpdate{Capacity: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Capacity)
}
