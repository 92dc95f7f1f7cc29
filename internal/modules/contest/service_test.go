package contest

import (
	"context"
	"testing"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repository

type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Create(ctx context.Context, c *domain.Contest) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id int64) (*domain.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contest), args.Error(1)
}

func (m *MockContestRepository) UpdateContent(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockContestRepository) UpdateStatus(ctx context.Context, id int64, status domain.ContestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockContestRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContestRepository) List(ctx context.Context, f repository.ContestFilters) ([]domain.Contest, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Contest), args.Get(1).(int64), args.Error(2)
}

func (m *MockContestRepository) ListByCreator(ctx context.Context, creatorID int64, limit, offset int) ([]domain.Contest, int64, error) {
	args := m.Called(ctx, creatorID, limit, offset)
	return args.Get(0).([]domain.Contest), args.Get(1).(int64), args.Error(2)
}

func validCreateRequest() CreateContestRequest {
	return CreateContestRequest{
		Name:       "Logo refresh",
		Task:       "Deliver a vector logo",
		Category:   string(domain.CategoryImageDesign),
		Price:      5,
		PrizeMoney: 500,
		Deadline:   time.Now().Add(14 * 24 * time.Hour),
	}
}

func TestCreate_StartsPending(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(contests)
	creator := &domain.User{ID: 1, Role: domain.RoleCreator}

	c, err := service.Create(context.Background(), creator, validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, domain.ContestPending, c.Status)
	assert.Equal(t, int64(1), c.CreatorID)
}

func TestCreate_RejectsPastDeadline(t *testing.T) {
	service := NewService(new(MockContestRepository))

	req := validCreateRequest()
	req.Deadline = time.Now().Add(-time.Hour)

	_, err := service.Create(context.Background(), &domain.User{ID: 1}, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_RejectsStartAfterDeadline(t *testing.T) {
	service := NewService(new(MockContestRepository))

	req := validCreateRequest()
	start := req.Deadline.Add(time.Hour)
	req.StartDate = &start

	_, err := service.Create(context.Background(), &domain.User{ID: 1}, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	service := NewService(new(MockContestRepository))

	req := validCreateRequest()
	req.Category = "interpretive_dance"

	_, err := service.Create(context.Background(), &domain.User{ID: 1}, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_PendingToApproved(t *testing.T) {
	contests := new(MockContestRepository)

	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestPending,
	}, nil).Once()
	contests.On("UpdateStatus", mock.Anything, int64(7), domain.ContestApproved).Return(nil)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved,
	}, nil).Once()

	service := NewService(contests)

	c, err := service.UpdateStatus(context.Background(), 7, domain.ContestApproved)

	assert.NoError(t, err)
	assert.Equal(t, domain.ContestApproved, c.Status)
}

func TestUpdateStatus_RejectedCanBeReReviewed(t *testing.T) {
	contests := new(MockContestRepository)

	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestRejected,
	}, nil).Once()
	contests.On("UpdateStatus", mock.Anything, int64(7), domain.ContestApproved).Return(nil)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved,
	}, nil).Once()

	service := NewService(contests)

	_, err := service.UpdateStatus(context.Background(), 7, domain.ContestApproved)
	assert.NoError(t, err)
}

func TestUpdateStatus_ApprovedCannotGoBack(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved,
	}, nil)

	service := NewService(contests)

	_, err := service.UpdateStatus(context.Background(), 7, domain.ContestPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = service.UpdateStatus(context.Background(), 7, domain.ContestRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdate_CreatorCannotEditApproved(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved, CreatorID: 1,
	}, nil)

	service := NewService(contests)
	creator := &domain.User{ID: 1, Role: domain.RoleCreator}

	name := "New name"
	_, err := service.Update(context.Background(), 7, creator, UpdateContestRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdate_AdminCannotEditSettled(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestCompleted, CreatorID: 1, WinnerDeclared: true,
	}, nil)

	service := NewService(contests)
	admin := &domain.User{ID: 2, Role: domain.RoleAdmin}

	name := "New name"
	_, err := service.Update(context.Background(), 7, admin, UpdateContestRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdate_SomeoneElsesContest(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestPending, CreatorID: 1,
	}, nil)

	service := NewService(contests)
	other := &domain.User{ID: 2, Role: domain.RoleCreator}

	name := "New name"
	_, err := service.Update(context.Background(), 7, other, UpdateContestRequest{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDelete_CreatorOnlyWhilePending(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved, CreatorID: 1,
	}, nil)

	service := NewService(contests)
	creator := &domain.User{ID: 1, Role: domain.RoleCreator}

	err := service.Delete(context.Background(), 7, creator)
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestDelete_AdminAtAnyStatus(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{
		ID: 7, Status: domain.ContestApproved, CreatorID: 1,
	}, nil)
	contests.On("Delete", mock.Anything, int64(7)).Return(nil)

	service := NewService(contests)
	admin := &domain.User{ID: 2, Role: domain.RoleAdmin}

	err := service.Delete(context.Background(), 7, admin)
	assert.NoError(t, err)
	contests.AssertExpectations(t)
}

func TestList_PublicStatusesOnly(t *testing.T) {
	contests := new(MockContestRepository)
	contests.On("List", mock.Anything, mock.MatchedBy(func(f repository.ContestFilters) bool {
		return len(f.Statuses) == 2 &&
			f.Statuses[0] == domain.ContestApproved &&
			f.Statuses[1] == domain.ContestCompleted
	})).Return([]domain.Contest{}, int64(0), nil)

	service := NewService(contests)

	_, _, err := service.List(context.Background(), ListQuery{})
	assert.NoError(t, err)
	contests.AssertExpectations(t)
}
