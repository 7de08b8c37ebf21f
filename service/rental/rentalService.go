package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rentalhub/model"
	"rentalhub/util/clock"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidInput     ErrCode = "INVALID_INPUT"
	ErrAssetNotFound    ErrCode = "ASSET_NOT_FOUND"
	ErrCustomerNotFound ErrCode = "CUSTOMER_NOT_FOUND"
	ErrBookingNotFound  ErrCode = "BOOKING_NOT_FOUND"
	ErrAssetRented      ErrCode = "ASSET_RENTED"
	ErrActiveBooking    ErrCode = "ACTIVE_BOOKING"
	ErrEmailTaken       ErrCode = "EMAIL_TAKEN"
	ErrBookingClosed    ErrCode = "BOOKING_CLOSED"
	ErrBookingActive    ErrCode = "BOOKING_ACTIVE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code, or "" for uncoded (unexpected) errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// IsNotFound reports whether err is one of the not-found codes.
func IsNotFound(err error) bool {
	switch Code(err) {
	case ErrAssetNotFound, ErrCustomerNotFound, ErrBookingNotFound:
		return true
	}
	return false
}

// IsConflict reports whether err is a state conflict.
func IsConflict(err error) bool {
	switch Code(err) {
	case ErrAssetRented, ErrActiveBooking, ErrEmailTaken, ErrBookingClosed, ErrBookingActive:
		return true
	}
	return false
}

// inputs

type AssetInput struct {
	AssetName string
	Category  string
	DailyRate float64
	Available bool
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

type BookingInput struct {
	StartDate *time.Time
	Note      *string
}

// repository boundaries consumed by the coordinator

type AssetRepo interface {
	Create(ctx context.Context, a *model.Asset) error
	GetByID(ctx context.Context, id int64) (*model.Asset, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Asset, error)
	List(ctx context.Context) ([]model.Asset, error)
	ListAvailable(ctx context.Context) ([]model.Asset, error)
	Update(ctx context.Context, a *model.Asset) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}

type CustomerRepo interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type BookingRepo interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListForAsset(ctx context.Context, assetID int64) ([]model.Booking, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]model.Booking, error)
	ExistsActiveForAsset(ctx context.Context, assetID int64) (bool, error)
	ExistsActiveForCustomer(ctx context.Context, customerID int64) (bool, error)
	MarkClosed(ctx context.Context, id int64, endDate time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Tx runs fn atomically; repository calls made with the ctx it passes
// join that transaction.
type Tx interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the sole entry point external callers use. It owns every
// cross-entity rule: no double booking, no deleting entities with an
// active booking, availability flipped together with the booking write.
type Service interface {
	ListAssets(ctx context.Context) ([]model.Asset, error)
	ListAvailableAssets(ctx context.Context) ([]model.Asset, error)
	AddAsset(ctx context.Context, in AssetInput) (*model.Asset, error)
	UpdateAsset(ctx context.Context, id int64, in AssetInput) (*model.Asset, error)
	DeleteAsset(ctx context.Context, id int64) error

	ListCustomers(ctx context.Context) ([]model.Customer, error)
	AddCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	ListBookings(ctx context.Context) ([]model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	RegisterBooking(ctx context.Context, assetID, customerID int64, in BookingInput) (*model.Booking, error)
	CloseBooking(ctx context.Context, id int64) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	AssetHistory(ctx context.Context, assetID int64) ([]model.Booking, error)
	CustomerHistory(ctx context.Context, customerID int64) ([]model.Booking, error)
}

type service struct {
	tx        Tx
	assets    AssetRepo
	customers CustomerRepo
	bookings  BookingRepo
	clk       clock.Clock
}

func New(tx Tx, assets AssetRepo, customers CustomerRepo, bookings BookingRepo, clk clock.Clock) Service {
	return &service{tx: tx, assets: assets, customers: customers, bookings: bookings, clk: clk}
}

// ----- assets -----

func (s *service) ListAssets(ctx context.Context) ([]model.Asset, error) {
	return s.assets.List(ctx)
}

func (s *service) ListAvailableAssets(ctx context.Context) ([]model.Asset, error) {
	return s.assets.ListAvailable(ctx)
}

// AddAsset persists a new asset. New assets are always available; the
// flag only ever flips through the booking lifecycle.
func (s *service) AddAsset(ctx context.Context, in AssetInput) (*model.Asset, error) {
	if err := validateAsset(in); err != nil {
		return nil, err
	}
	a := &model.Asset{
		AssetName: strings.TrimSpace(in.AssetName),
		Category:  strings.TrimSpace(in.Category),
		DailyRate: in.DailyRate,
		Available: true,
	}
	if err := s.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) UpdateAsset(ctx context.Context, id int64, in AssetInput) (*model.Asset, error) {
	if err := validateAsset(in); err != nil {
		return nil, err
	}
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, ErrAssetNotFound, "asset", id)
	}
	existing.AssetName = strings.TrimSpace(in.AssetName)
	existing.Category = strings.TrimSpace(in.Category)
	existing.DailyRate = in.DailyRate
	existing.Available = in.Available
	if err := s.assets.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) DeleteAsset(ctx context.Context, id int64) error {
	active, err := s.bookings.ExistsActiveForAsset(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return makeErr(ErrActiveBooking, "cannot delete asset: active booking exists")
	}
	if err := s.assets.Delete(ctx, id); err != nil {
		return mapNoRows(err, ErrAssetNotFound, "asset", id)
	}
	return nil
}

func validateAsset(in AssetInput) error {
	name := strings.TrimSpace(in.AssetName)
	if n := len([]rune(name)); n < 2 || n > 100 {
		return makeErr(ErrInvalidInput, "asset name must be 2-100 characters")
	}
	if strings.TrimSpace(in.Category) == "" {
		return makeErr(ErrInvalidInput, "category is required")
	}
	if in.DailyRate <= 0 {
		return makeErr(ErrInvalidInput, "daily rate must be greater than zero")
	}
	return nil
}

// ----- customers -----

func (s *service) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.List(ctx)
}

func (s *service) AddCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	taken, err := s.customers.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, makeErr(ErrEmailTaken, "email already registered")
	}
	c := &model.Customer{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Phone:     in.Phone,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrEmailTaken, "email already registered")
		}
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*model.Customer, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, ErrCustomerNotFound, "customer", id)
	}
	existing.FirstName = strings.TrimSpace(in.FirstName)
	existing.LastName = strings.TrimSpace(in.LastName)
	existing.Email = in.Email
	existing.Phone = in.Phone
	if err := s.customers.Update(ctx, existing); err != nil {
		// unlike AddCustomer there is no explicit pre-check here; the DB
		// unique constraint still guards against stealing another
		// customer's email
		if isUniqueViolation(err) {
			return nil, makeErr(ErrEmailTaken, "email already registered")
		}
		return nil, err
	}
	return existing, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	active, err := s.bookings.ExistsActiveForCustomer(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return makeErr(ErrActiveBooking, "cannot delete customer: active booking exists")
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return mapNoRows(err, ErrCustomerNotFound, "customer", id)
	}
	return nil
}

func validateCustomer(in CustomerInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return makeErr(ErrInvalidInput, "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return makeErr(ErrInvalidInput, "last name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return makeErr(ErrInvalidInput, "email is required")
	}
	return nil
}

// ----- bookings -----

func (s *service) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *service) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, ErrBookingNotFound, "booking", id)
	}
	return b, nil
}

// RegisterBooking opens a booking for an asset and customer. The asset
// row is locked first, so the availability check, the active-booking
// check and both writes commit as one unit; a concurrent attempt on the
// same asset blocks until this one commits and then fails the check.
func (s *service) RegisterBooking(ctx context.Context, assetID, customerID int64, in BookingInput) (*model.Booking, error) {
	var booking *model.Booking

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assets.GetByIDForUpdate(ctx, assetID)
		if err != nil {
			return mapNoRows(err, ErrAssetNotFound, "asset", assetID)
		}
		if !asset.Available {
			return makeErr(ErrAssetRented, "asset is already rented out")
		}

		customer, err := s.customers.GetByID(ctx, customerID)
		if err != nil {
			return mapNoRows(err, ErrCustomerNotFound, "customer", customerID)
		}

		// availability flag and active bookings are independently kept
		// state; consult both
		active, err := s.bookings.ExistsActiveForAsset(ctx, assetID)
		if err != nil {
			return err
		}
		if active {
			return makeErr(ErrActiveBooking, "asset already has an active booking")
		}

		start := s.today()
		if in.StartDate != nil {
			start = dateOnly(*in.StartDate)
		}

		b := &model.Booking{
			AssetID:      asset.ID,
			AssetName:    asset.AssetName,
			CustomerID:   customer.ID,
			CustomerName: customer.FullName(),
			StartDate:    start,
			Active:       true,
			Note:         in.Note,
		}

		if err := s.assets.SetAvailability(ctx, asset.ID, false); err != nil {
			return err
		}
		if err := s.bookings.Insert(ctx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CloseBooking marks the booking returned and frees the asset, as one
// transaction. Closing twice fails the second time.
func (s *service) CloseBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var booking *model.Booking

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return mapNoRows(err, ErrBookingNotFound, "booking", id)
		}
		if !b.Active {
			return makeErr(ErrBookingClosed, "booking is already closed")
		}

		end := s.today()
		if err := s.assets.SetAvailability(ctx, b.AssetID, true); err != nil {
			return err
		}
		if err := s.bookings.MarkClosed(ctx, b.ID, end); err != nil {
			return err
		}

		b.Active = false
		b.EndDate = &end
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// DeleteBooking removes a closed booking. The asset is already available
// at that point, so availability is not touched.
func (s *service) DeleteBooking(ctx context.Context, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return mapNoRows(err, ErrBookingNotFound, "booking", id)
	}
	if b.Active {
		return makeErr(ErrBookingActive, "cannot delete active booking: close it first")
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return mapNoRows(err, ErrBookingNotFound, "booking", id)
	}
	return nil
}

func (s *service) AssetHistory(ctx context.Context, assetID int64) ([]model.Booking, error) {
	return s.bookings.ListForAsset(ctx, assetID)
}

func (s *service) CustomerHistory(ctx context.Context, customerID int64) ([]model.Booking, error) {
	return s.bookings.ListForCustomer(ctx, customerID)
}

// ----- helpers -----

func (s *service) today() time.Time { return dateOnly(s.clk.Now()) }

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapNoRows(err error, code ErrCode, kind string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return makeErr(code, fmt.Sprintf("%s with id %d does not exist", kind, id))
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
