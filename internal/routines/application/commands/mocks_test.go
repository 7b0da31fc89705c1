package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

type ctxKey string

// mockRoutineRepo is a mock implementation of domain.RoutineRepository.
type mockRoutineRepo struct {
	mock.Mock
}

func (m *mockRoutineRepo) Save(ctx context.Context, routine *domain.Routine) error {
	args := m.Called(ctx, routine)
	return args.Error(0)
}

func (m *mockRoutineRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Routine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Routine), args.Error(1)
}

func (m *mockRoutineRepo) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Routine, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*domain.Routine), args.Error(1)
}

func (m *mockRoutineRepo) FindActiveByOwner(ctx context.Context, ownerID string) ([]*domain.Routine, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*domain.Routine), args.Error(1)
}

func (m *mockRoutineRepo) ListOwners(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRoutineRepo) NextOrderIndex(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// mockUnitOfWork is a mock implementation of application.UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type checkinKey struct {
	routineID uuid.UUID
	day       sharedDomain.Day
}

// memoryCheckins is an in-memory domain.CheckinRepository.
type memoryCheckins struct {
	rows map[checkinKey]*domain.Checkin
}

func newMemoryCheckins() *memoryCheckins {
	return &memoryCheckins{rows: make(map[checkinKey]*domain.Checkin)}
}

func (m *memoryCheckins) row(routineID uuid.UUID, ownerID string, d sharedDomain.Day) *domain.Checkin {
	key := checkinKey{routineID, d}
	c, ok := m.rows[key]
	if !ok {
		c = &domain.Checkin{ID: uuid.New(), RoutineID: routineID, OwnerID: ownerID, Day: d}
		m.rows[key] = c
	}
	return c
}

func (m *memoryCheckins) MarkDone(_ context.Context, routineID uuid.UUID, ownerID string, d sharedDomain.Day) error {
	c := m.row(routineID, ownerID, d)
	if c.CheckedAt == nil {
		now := time.Now()
		c.CheckedAt = &now
	}
	c.UndoneAt, c.Skipped, c.SkipReason = nil, false, ""
	return nil
}

func (m *memoryCheckins) Undo(_ context.Context, routineID uuid.UUID, d sharedDomain.Day) error {
	if c, ok := m.rows[checkinKey{routineID, d}]; ok {
		now := time.Now()
		c.CheckedAt, c.UndoneAt = nil, &now
	}
	return nil
}

func (m *memoryCheckins) Skip(_ context.Context, routineID uuid.UUID, ownerID string, d sharedDomain.Day, reason string) error {
	c := m.row(routineID, ownerID, d)
	c.CheckedAt, c.UndoneAt, c.Skipped, c.SkipReason = nil, nil, true, reason
	return nil
}

func (m *memoryCheckins) Clear(_ context.Context, routineID uuid.UUID, d sharedDomain.Day) error {
	if c, ok := m.rows[checkinKey{routineID, d}]; ok {
		c.CheckedAt, c.UndoneAt, c.Skipped, c.SkipReason = nil, nil, false, ""
	}
	return nil
}

func (m *memoryCheckins) Get(_ context.Context, routineID uuid.UUID, d sharedDomain.Day) (*domain.Checkin, error) {
	c, ok := m.rows[checkinKey{routineID, d}]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *memoryCheckins) ListForRoutine(context.Context, uuid.UUID, sharedDomain.Day, sharedDomain.Day) ([]*domain.Checkin, error) {
	return nil, nil
}

func (m *memoryCheckins) ListForOwnerDay(context.Context, string, sharedDomain.Day) ([]*domain.Checkin, error) {
	return nil, nil
}

func (m *memoryCheckins) FirstDoneDay(context.Context, string) (sharedDomain.Day, error) {
	return sharedDomain.Day{}, nil
}

func (m *memoryCheckins) LastDoneDayBefore(context.Context, string, sharedDomain.Day) (sharedDomain.Day, error) {
	return sharedDomain.Day{}, nil
}

// mockSettingsRepo is a mock implementation of domain.SettingsRepository.
type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context, ownerID string) (*domain.UserSettings, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSettings), args.Error(1)
}

func (m *mockSettingsRepo) Save(ctx context.Context, settings *domain.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type recordingObserver struct {
	owners []string
}

func (o *recordingObserver) SettingsChanged(_ context.Context, ownerID string) {
	o.owners = append(o.owners, ownerID)
}
