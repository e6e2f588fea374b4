package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id int64) (*event.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByInitiator(ctx context.Context, initiatorID int64, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, initiatorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockParticipationRepository implements participation.Repository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Create(ctx context.Context, tx transaction.Tx, r *participation.Request) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetByID(ctx context.Context, id int64) (*participation.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id int64) (*participation.Request, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []int64) ([]*participation.Request, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*participation.Request, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*participation.Request, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ExistsActive(ctx context.Context, tx transaction.Tx, requesterID, eventID int64) (bool, error) {
	args := m.Called(ctx, tx, requesterID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipationRepository) CountByStatus(ctx context.Context, tx transaction.Tx, eventID int64, status participation.Status) (int, error) {
	args := m.Called(ctx, tx, eventID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockParticipationRepository) CountActive(ctx context.Context, tx transaction.Tx, eventID int64) (int, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockParticipationRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

func (m *MockParticipationRepository) CountGroupByStatus(ctx context.Context) (map[participation.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[participation.Status]int), args.Error(1)
}

func (m *MockParticipationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, requests ...*participation.Request) error {
	args := m.Called(ctx, tx, requests)
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockCategoryRepository implements category.Repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLocker implements transaction.Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) LockEvent(ctx context.Context, eventID int64) (transaction.Lock, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Lock), args.Error(1)
}

// MockLock implements transaction.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockViewStatsClient implements ViewStatsClient
type MockViewStatsClient struct {
	mock.Mock
}

func (m *MockViewStatsClient) ViewCount(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewStatsClient) ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

// MockViewCountCache implements ViewCountCache
type MockViewCountCache struct {
	mock.Mock
}

func (m *MockViewCountCache) GetViewCount(ctx context.Context, eventID int64) (int64, bool, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockViewCountCache) Invalidate(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockViewCountCache) GetViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, []int64, error) {
	args := m.Called(ctx, eventIDs)
	var hits map[int64]int64
	if v := args.Get(0); v != nil {
		hits = v.(map[int64]int64)
	}
	var missing []int64
	if v := args.Get(1); v != nil {
		missing = v.([]int64)
	}
	return hits, missing, args.Error(2)
}

func (m *MockViewCountCache) SetViewCounts(ctx context.Context, counts map[int64]int64) error {
	args := m.Called(ctx, counts)
	return args.Error(0)
}
