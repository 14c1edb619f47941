package booking

import (
	"context"
	"testing"
	"time"

	"landshare/internal/domain"
	"landshare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil && args.Error(0) == nil {
		b.ID = 7 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelWithReason(ctx context.Context, bookingID int64, reason string) error {
	args := m.Called(ctx, bookingID, reason)
	return args.Error(0)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) HasStaffCapability(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockDisputeCloser struct {
	mock.Mock
}

func (m *MockDisputeCloser) ForceCloseForBooking(ctx context.Context, bookingID int64, note string) error {
	args := m.Called(ctx, bookingID, note)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, listingID int64) error {
	args := m.Called(ctx, ownerUserID, bookingID, listingID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error {
	args := m.Called(ctx, userID, bookingID, reason)
	return args.Error(0)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          7,
		ListingID:   3,
		OwnerID:     10,
		RenterID:    20,
		TotalAmount: 500.00,
		Status:      domain.BookingConfirmed,
	}
}

func newTestService() (*Service, *MockBookingRepository, *MockIdentityProvider, *MockDisputeCloser, *MockNotificationSender) {
	repo := new(MockBookingRepository)
	identity := new(MockIdentityProvider)
	disputes := new(MockDisputeCloser)
	notifs := new(MockNotificationSender)
	return NewService(repo, identity, disputes, notifs), repo, identity, disputes, notifs
}

func TestService_Create_Success(t *testing.T) {
	svc, repo, _, _, notifs := newTestService()

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyBookingCreated", mock.Anything, int64(10), int64(7), int64(3)).Return(nil)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	b, err := svc.Create(context.Background(), 20, CreateBookingRequest{
		ListingID:   3,
		OwnerID:     10,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		TotalAmount: 500.00,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, int64(20), b.RenterID)
	notifs.AssertCalled(t, "NotifyBookingCreated", mock.Anything, int64(10), int64(7), int64(3))
}

func TestService_Create_DatesOutOfOrder(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), 20, CreateBookingRequest{
		ListingID:   3,
		OwnerID:     10,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, -1),
		TotalAmount: 500.00,
	})

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_SelfBooking(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), 10, CreateBookingRequest{
		ListingID:   3,
		OwnerID:     10,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		TotalAmount: 500.00,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Get_PartyAndStaff(t *testing.T) {
	svc, repo, identity, _, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(7)).Return(confirmedBooking(), nil)
	identity.On("HasStaffCapability", mock.Anything, int64(99)).Return(true, nil)

	b, err := svc.Get(context.Background(), 20, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)

	b, err = svc.Get(context.Background(), 99, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
}

func TestService_Get_OutsiderSeesNotFound(t *testing.T) {
	svc, repo, identity, _, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(7)).Return(confirmedBooking(), nil)
	identity.On("HasStaffCapability", mock.Anything, int64(42)).Return(false, nil)

	_, err := svc.Get(context.Background(), 42, 7)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Cancel_ForceClosesLiveDispute(t *testing.T) {
	svc, repo, _, disputes, notifs := newTestService()

	cancelled := confirmedBooking()
	cancelled.Status = domain.BookingCancelled
	cancelled.CancellationReason = "weather"

	repo.On("GetByID", mock.Anything, int64(7)).Return(confirmedBooking(), nil).Once()
	repo.On("CancelWithReason", mock.Anything, int64(7), "weather").Return(nil)
	disputes.On("ForceCloseForBooking", mock.Anything, int64(7), "booking was cancelled: weather").Return(nil)
	notifs.On("NotifyBookingCancelled", mock.Anything, int64(10), int64(7), "weather").Return(nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(cancelled, nil).Once()

	b, err := svc.Cancel(context.Background(), 20, 7, "weather")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	disputes.AssertCalled(t, "ForceCloseForBooking", mock.Anything, int64(7), "booking was cancelled: weather")
	notifs.AssertCalled(t, "NotifyBookingCancelled", mock.Anything, int64(10), int64(7), "weather")
}

func TestService_Cancel_RequiresReason(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.Cancel(context.Background(), 20, 7, "")

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "CancelWithReason", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	b := confirmedBooking()
	b.Status = domain.BookingCancelled
	repo.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

	_, err := svc.Cancel(context.Background(), 20, 7, "changed my mind")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_Cancel_UnknownBooking(t *testing.T) {
	svc, repo, identity, _, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(8)).Return(nil, repository.ErrBookingNotFound)
	identity.On("HasStaffCapability", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Cancel(context.Background(), 20, 8, "whatever")

	assert.ErrorIs(t, err, ErrNotFound)
}
