// service/rental/rental_service_test.go
package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"rentalhub/model"
	"rentalhub/util/clock"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// --- mocks ---

type txMock struct{}

func (txMock) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type assetRepoMock struct {
	createFn       func(ctx context.Context, a *model.Asset) error
	getByIDFn      func(ctx context.Context, id int64) (*model.Asset, error)
	getForUpdateFn func(ctx context.Context, id int64) (*model.Asset, error)
	listFn         func(ctx context.Context) ([]model.Asset, error)
	listAvailFn    func(ctx context.Context) ([]model.Asset, error)
	updateFn       func(ctx context.Context, a *model.Asset) error
	setAvailFn     func(ctx context.Context, id int64, available bool) error
	deleteFn       func(ctx context.Context, id int64) error
}

var _ AssetRepo = (*assetRepoMock)(nil)

func (m *assetRepoMock) Create(ctx context.Context, a *model.Asset) error {
	if m.createFn == nil {
		a.ID = 1
		return nil
	}
	return m.createFn(ctx, a)
}
func (m *assetRepoMock) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	if m.getByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getByIDFn(ctx, id)
}
func (m *assetRepoMock) GetByIDForUpdate(ctx context.Context, id int64) (*model.Asset, error) {
	if m.getForUpdateFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getForUpdateFn(ctx, id)
}
func (m *assetRepoMock) List(ctx context.Context) ([]model.Asset, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}
func (m *assetRepoMock) ListAvailable(ctx context.Context) ([]model.Asset, error) {
	if m.listAvailFn == nil {
		return nil, nil
	}
	return m.listAvailFn(ctx)
}
func (m *assetRepoMock) Update(ctx context.Context, a *model.Asset) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, a)
}
func (m *assetRepoMock) SetAvailability(ctx context.Context, id int64, available bool) error {
	if m.setAvailFn == nil {
		return nil
	}
	return m.setAvailFn(ctx, id, available)
}
func (m *assetRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type customerRepoMock struct {
	createFn  func(ctx context.Context, c *model.Customer) error
	getByIDFn func(ctx context.Context, id int64) (*model.Customer, error)
	listFn    func(ctx context.Context) ([]model.Customer, error)
	updateFn  func(ctx context.Context, c *model.Customer) error
	deleteFn  func(ctx context.Context, id int64) error
	byEmailFn func(ctx context.Context, email string) (bool, error)
}

var _ CustomerRepo = (*customerRepoMock)(nil)

func (m *customerRepoMock) Create(ctx context.Context, c *model.Customer) error {
	if m.createFn == nil {
		c.ID = 1
		return nil
	}
	return m.createFn(ctx, c)
}
func (m *customerRepoMock) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	if m.getByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getByIDFn(ctx, id)
}
func (m *customerRepoMock) List(ctx context.Context) ([]model.Customer, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}
func (m *customerRepoMock) Update(ctx context.Context, c *model.Customer) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, c)
}
func (m *customerRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}
func (m *customerRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.byEmailFn == nil {
		return false, nil
	}
	return m.byEmailFn(ctx, email)
}

type bookingRepoMock struct {
	insertFn         func(ctx context.Context, b *model.Booking) error
	getByIDFn        func(ctx context.Context, id int64) (*model.Booking, error)
	getForUpdateFn   func(ctx context.Context, id int64) (*model.Booking, error)
	listFn           func(ctx context.Context) ([]model.Booking, error)
	listForAssetFn   func(ctx context.Context, assetID int64) ([]model.Booking, error)
	listForCustFn    func(ctx context.Context, customerID int64) ([]model.Booking, error)
	activeForAssetFn func(ctx context.Context, assetID int64) (bool, error)
	activeForCustFn  func(ctx context.Context, customerID int64) (bool, error)
	markClosedFn     func(ctx context.Context, id int64, endDate time.Time) error
	deleteFn         func(ctx context.Context, id int64) error
}

var _ BookingRepo = (*bookingRepoMock)(nil)

func (m *bookingRepoMock) Insert(ctx context.Context, b *model.Booking) error {
	if m.insertFn == nil {
		b.ID = 1
		return nil
	}
	return m.insertFn(ctx, b)
}
func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getByIDFn(ctx, id)
}
func (m *bookingRepoMock) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getForUpdateFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getForUpdateFn(ctx, id)
}
func (m *bookingRepoMock) List(ctx context.Context) ([]model.Booking, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}
func (m *bookingRepoMock) ListForAsset(ctx context.Context, assetID int64) ([]model.Booking, error) {
	if m.listForAssetFn == nil {
		return nil, nil
	}
	return m.listForAssetFn(ctx, assetID)
}
func (m *bookingRepoMock) ListForCustomer(ctx context.Context, customerID int64) ([]model.Booking, error) {
	if m.listForCustFn == nil {
		return nil, nil
	}
	return m.listForCustFn(ctx, customerID)
}
func (m *bookingRepoMock) ExistsActiveForAsset(ctx context.Context, assetID int64) (bool, error) {
	if m.activeForAssetFn == nil {
		return false, nil
	}
	return m.activeForAssetFn(ctx, assetID)
}
func (m *bookingRepoMock) ExistsActiveForCustomer(ctx context.Context, customerID int64) (bool, error) {
	if m.activeForCustFn == nil {
		return false, nil
	}
	return m.activeForCustFn(ctx, customerID)
}
func (m *bookingRepoMock) MarkClosed(ctx context.Context, id int64, endDate time.Time) error {
	if m.markClosedFn == nil {
		return nil
	}
	return m.markClosedFn(ctx, id, endDate)
}
func (m *bookingRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

func newTestService(a AssetRepo, c CustomerRepo, b BookingRepo) Service {
	return New(txMock{}, a, c, b, clock.NewFixed(testDay))
}

func drill(available bool) *model.Asset {
	return &model.Asset{ID: 1, AssetName: "Drill", Category: "Tools", DailyRate: 150, Available: available}
}

func anna() *model.Customer {
	return &model.Customer{ID: 1, FirstName: "Anna", LastName: "Lindqvist", Email: "a@example.com"}
}

// --- asset rules ---

func TestAddAsset_Validation(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	ctx := context.Background()

	cases := []AssetInput{
		{AssetName: "D", Category: "Tools", DailyRate: 150},
		{AssetName: "  ", Category: "Tools", DailyRate: 150},
		{AssetName: "Drill", Category: "", DailyRate: 150},
		{AssetName: "Drill", Category: "Tools", DailyRate: 0},
		{AssetName: "Drill", Category: "Tools", DailyRate: -1},
	}
	for _, in := range cases {
		_, err := svc.AddAsset(ctx, in)
		require.Equal(t, ErrInvalidInput, Code(err), "input %+v", in)
	}
}

func TestAddAsset_AlwaysAvailable(t *testing.T) {
	var stored *model.Asset
	a := &assetRepoMock{createFn: func(ctx context.Context, as *model.Asset) error {
		as.ID = 7
		stored = as
		return nil
	}}
	svc := newTestService(a, &customerRepoMock{}, &bookingRepoMock{})

	got, err := svc.AddAsset(context.Background(), AssetInput{
		AssetName: "Drill", Category: "Tools", DailyRate: 150, Available: false,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), got.ID)
	require.True(t, stored.Available, "new assets start available regardless of input")
}

func TestUpdateAsset_NotFound(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	_, err := svc.UpdateAsset(context.Background(), 99, AssetInput{
		AssetName: "Drill", Category: "Tools", DailyRate: 150,
	})
	require.Equal(t, ErrAssetNotFound, Code(err))
	require.True(t, IsNotFound(err))
}

func TestDeleteAsset_BlockedByActiveBooking(t *testing.T) {
	deleted := false
	a := &assetRepoMock{deleteFn: func(ctx context.Context, id int64) error {
		deleted = true
		return nil
	}}
	b := &bookingRepoMock{activeForAssetFn: func(ctx context.Context, assetID int64) (bool, error) {
		return true, nil
	}}
	svc := newTestService(a, &customerRepoMock{}, b)

	err := svc.DeleteAsset(context.Background(), 1)
	require.Equal(t, ErrActiveBooking, Code(err))
	require.True(t, IsConflict(err))
	require.False(t, deleted, "asset must be untouched on failure")
}

func TestDeleteAsset_OK(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	require.NoError(t, svc.DeleteAsset(context.Background(), 1))
}

// --- customer rules ---

func TestAddCustomer_BlankEmail(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	_, err := svc.AddCustomer(context.Background(), CustomerInput{
		FirstName: "Anna", LastName: "Lindqvist", Email: "   ",
	})
	require.Equal(t, ErrInvalidInput, Code(err))
}

func TestAddCustomer_DuplicateEmail(t *testing.T) {
	created := false
	c := &customerRepoMock{
		byEmailFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
		createFn: func(ctx context.Context, cu *model.Customer) error {
			created = true
			return nil
		},
	}
	svc := newTestService(&assetRepoMock{}, c, &bookingRepoMock{})

	_, err := svc.AddCustomer(context.Background(), CustomerInput{
		FirstName: "Anna", LastName: "Lindqvist", Email: "a@example.com",
	})
	require.Equal(t, ErrEmailTaken, Code(err))
	require.False(t, created, "store must not gain a customer")
}

func TestAddCustomer_UniqueViolationMapsToConflict(t *testing.T) {
	// the pre-check can race; the DB constraint is the backstop
	c := &customerRepoMock{
		createFn: func(ctx context.Context, cu *model.Customer) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "rhub_customers_email_key"}
		},
	}
	svc := newTestService(&assetRepoMock{}, c, &bookingRepoMock{})

	_, err := svc.AddCustomer(context.Background(), CustomerInput{
		FirstName: "Anna", LastName: "Lindqvist", Email: "a@example.com",
	})
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	_, err := svc.UpdateCustomer(context.Background(), 5, CustomerInput{
		FirstName: "Anna", LastName: "Lindqvist", Email: "a@example.com",
	})
	require.Equal(t, ErrCustomerNotFound, Code(err))
}

func TestDeleteCustomer_BlockedByActiveBooking(t *testing.T) {
	b := &bookingRepoMock{activeForCustFn: func(ctx context.Context, id int64) (bool, error) {
		return true, nil
	}}
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, b)

	err := svc.DeleteCustomer(context.Background(), 1)
	require.Equal(t, ErrActiveBooking, Code(err))
}

// --- booking lifecycle ---

func TestRegisterBooking_AssetNotFound_NoWrites(t *testing.T) {
	var wrote bool
	a := &assetRepoMock{setAvailFn: func(ctx context.Context, id int64, av bool) error {
		wrote = true
		return nil
	}}
	b := &bookingRepoMock{insertFn: func(ctx context.Context, bk *model.Booking) error {
		wrote = true
		return nil
	}}
	svc := newTestService(a, &customerRepoMock{}, b)

	_, err := svc.RegisterBooking(context.Background(), 42, 1, BookingInput{})
	require.Equal(t, ErrAssetNotFound, Code(err))
	require.False(t, wrote, "no write may occur before the checks pass")
}

func TestRegisterBooking_CustomerNotFound_NoAssetMutation(t *testing.T) {
	var wrote bool
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return drill(true), nil },
		setAvailFn: func(ctx context.Context, id int64, av bool) error {
			wrote = true
			return nil
		},
	}
	svc := newTestService(a, &customerRepoMock{}, &bookingRepoMock{})

	_, err := svc.RegisterBooking(context.Background(), 1, 42, BookingInput{})
	require.Equal(t, ErrCustomerNotFound, Code(err))
	require.False(t, wrote)
}

func TestRegisterBooking_AssetUnavailable(t *testing.T) {
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return drill(false), nil },
	}
	svc := newTestService(a, &customerRepoMock{}, &bookingRepoMock{})

	_, err := svc.RegisterBooking(context.Background(), 1, 1, BookingInput{})
	require.Equal(t, ErrAssetRented, Code(err))
	require.True(t, IsConflict(err))
}

func TestRegisterBooking_ActiveBookingDoubleCheck(t *testing.T) {
	// availability flag says free but an active booking exists; both
	// sources are consulted and the stricter one wins
	var inserted bool
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return drill(true), nil },
	}
	c := &customerRepoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Customer, error) { return anna(), nil },
	}
	b := &bookingRepoMock{
		activeForAssetFn: func(ctx context.Context, assetID int64) (bool, error) { return true, nil },
		insertFn: func(ctx context.Context, bk *model.Booking) error {
			inserted = true
			return nil
		},
	}
	svc := newTestService(a, c, b)

	_, err := svc.RegisterBooking(context.Background(), 1, 1, BookingInput{})
	require.Equal(t, ErrActiveBooking, Code(err))
	require.False(t, inserted)
}

func TestRegisterBooking_Success_DefaultStartDate(t *testing.T) {
	var flippedTo *bool
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return drill(true), nil },
		setAvailFn: func(ctx context.Context, id int64, av bool) error {
			flippedTo = &av
			return nil
		},
	}
	c := &customerRepoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Customer, error) { return anna(), nil },
	}
	b := &bookingRepoMock{
		insertFn: func(ctx context.Context, bk *model.Booking) error {
			bk.ID = 1
			return nil
		},
	}
	svc := newTestService(a, c, b)

	got, err := svc.RegisterBooking(context.Background(), 1, 1, BookingInput{})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)
	require.True(t, got.Active)
	require.Equal(t, testDay, got.StartDate, "start date defaults to the current date")
	require.Nil(t, got.EndDate)
	require.Equal(t, "Drill", got.AssetName)
	require.Equal(t, "Anna Lindqvist", got.CustomerName)
	require.NotNil(t, flippedTo)
	require.False(t, *flippedTo, "asset must be marked unavailable")
}

func TestRegisterBooking_SuppliedStartDate(t *testing.T) {
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return drill(true), nil },
	}
	c := &customerRepoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Customer, error) { return anna(), nil },
	}
	svc := newTestService(a, c, &bookingRepoMock{})

	start := time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)
	got, err := svc.RegisterBooking(context.Background(), 1, 1, BookingInput{StartDate: &start})
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got.StartDate,
		"supplied start date is truncated to the day")
}

func TestCloseBooking_Success(t *testing.T) {
	var freedTo *bool
	var closedAt *time.Time
	a := &assetRepoMock{
		setAvailFn: func(ctx context.Context, id int64, av bool) error {
			freedTo = &av
			return nil
		},
	}
	b := &bookingRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: 1, AssetID: 1, CustomerID: 1, StartDate: testDay, Active: true}, nil
		},
		markClosedFn: func(ctx context.Context, id int64, end time.Time) error {
			closedAt = &end
			return nil
		},
	}
	svc := newTestService(a, &customerRepoMock{}, b)

	got, err := svc.CloseBooking(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, got.Active)
	require.NotNil(t, got.EndDate)
	require.Equal(t, testDay, *got.EndDate)
	require.NotNil(t, closedAt)
	require.Equal(t, testDay, *closedAt)
	require.NotNil(t, freedTo)
	require.True(t, *freedTo, "asset must become available again")
}

func TestCloseBooking_AlreadyClosed(t *testing.T) {
	var touchedAsset bool
	a := &assetRepoMock{
		setAvailFn: func(ctx context.Context, id int64, av bool) error {
			touchedAsset = true
			return nil
		},
	}
	end := testDay
	b := &bookingRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: 1, AssetID: 1, Active: false, EndDate: &end}, nil
		},
	}
	svc := newTestService(a, &customerRepoMock{}, b)

	_, err := svc.CloseBooking(context.Background(), 1)
	require.Equal(t, ErrBookingClosed, Code(err))
	require.False(t, touchedAsset, "availability flips back exactly once")
}

func TestCloseBooking_NotFound(t *testing.T) {
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, &bookingRepoMock{})
	_, err := svc.CloseBooking(context.Background(), 9)
	require.Equal(t, ErrBookingNotFound, Code(err))
}

func TestDeleteBooking_ActiveIsBlocked(t *testing.T) {
	var deleted bool
	b := &bookingRepoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: 1, Active: true}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(&assetRepoMock{}, &customerRepoMock{}, b)

	err := svc.DeleteBooking(context.Background(), 1)
	require.Equal(t, ErrBookingActive, Code(err))
	require.False(t, deleted)
}

func TestDeleteBooking_ClosedIsRemoved(t *testing.T) {
	var availTouched bool
	a := &assetRepoMock{setAvailFn: func(ctx context.Context, id int64, av bool) error {
		availTouched = true
		return nil
	}}
	end := testDay
	b := &bookingRepoMock{
		getByIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: 1, AssetID: 1, Active: false, EndDate: &end}, nil
		},
	}
	svc := newTestService(a, &customerRepoMock{}, b)

	require.NoError(t, svc.DeleteBooking(context.Background(), 1))
	require.False(t, availTouched, "deleting a closed booking leaves availability alone")
}

func TestRegisterBooking_StoreFaultSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	a := &assetRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Asset, error) { return nil, boom },
	}
	svc := newTestService(a, &customerRepoMock{}, &bookingRepoMock{})

	_, err := svc.RegisterBooking(context.Background(), 1, 1, BookingInput{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, ErrCode(""), Code(err), "storage faults stay uncoded")
}
