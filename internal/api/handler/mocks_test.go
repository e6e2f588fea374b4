package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) summary(args mock.Arguments) (*application.EventSummary, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.EventSummary), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, initiatorID int64, d event.Details) (*application.EventSummary, error) {
	return m.summary(m.Called(ctx, initiatorID, d))
}

func (m *MockEventService) UpdateEvent(ctx context.Context, actorID, eventID int64, patch event.UpdatePatch) (*application.EventSummary, error) {
	return m.summary(m.Called(ctx, actorID, eventID, patch))
}

func (m *MockEventService) AdminUpdateEvent(ctx context.Context, eventID int64, patch event.UpdatePatch) (*application.EventSummary, error) {
	return m.summary(m.Called(ctx, eventID, patch))
}

func (m *MockEventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*application.EventSummary, error) {
	return m.summary(m.Called(ctx, userID, eventID))
}

func (m *MockEventService) ListUserEvents(ctx context.Context, userID int64, from, size int) ([]*application.EventSummary, error) {
	args := m.Called(ctx, userID, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.EventSummary), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, actorID, eventID int64) error {
	return m.Called(ctx, actorID, eventID).Error(0)
}

// MockParticipationService はParticipationServiceInterfaceのモック
type MockParticipationService struct {
	mock.Mock
}

func (m *MockParticipationService) request(args mock.Arguments) (*participation.Request, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockParticipationService) requests(args mock.Arguments) ([]*participation.Request, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationService) CreateRequest(ctx context.Context, requesterID, eventID int64) (*participation.Request, error) {
	return m.request(m.Called(ctx, requesterID, eventID))
}

func (m *MockParticipationService) CancelRequest(ctx context.Context, requesterID, requestID int64) (*participation.Request, error) {
	return m.request(m.Called(ctx, requesterID, requestID))
}

func (m *MockParticipationService) ProcessBatch(ctx context.Context, organizerID, eventID int64, requestIDs []int64, desired participation.Status) (*participation.BatchResult, error) {
	args := m.Called(ctx, organizerID, eventID, requestIDs, desired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.BatchResult), args.Error(1)
}

func (m *MockParticipationService) ListUserRequests(ctx context.Context, userID int64) ([]*participation.Request, error) {
	return m.requests(m.Called(ctx, userID))
}

func (m *MockParticipationService) ListEventRequests(ctx context.Context, organizerID, eventID int64) ([]*participation.Request, error) {
	return m.requests(m.Called(ctx, organizerID, eventID))
}

// MockDirectoryService はDirectoryServiceInterfaceのモック
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockDirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}
