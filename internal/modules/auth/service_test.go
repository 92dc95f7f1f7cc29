package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"contesthub/internal/domain"
	jwtsvc "contesthub/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetBySubject(ctx context.Context, subjectID string) (*domain.User, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateCreatorStatus(ctx context.Context, id int64, status domain.CreatorStatus, role domain.UserRole) error {
	args := m.Called(ctx, id, status, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAccountStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

const adminEmail = "admin@contesthub.local"

func testToken(t *testing.T, j *jwtsvc.Service, subject, email string) string {
	t.Helper()
	token, err := j.GenerateToken(subject, email)
	assert.NoError(t, err)
	return token
}

func TestAuthenticate_ProvisionsFirstTimeUser(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	users.On("GetBySubject", mock.Anything, "sub-1").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.SubjectID == "sub-1" && u.Email == "casey@example.com" && u.Role == domain.RoleUser
	})).Return(nil)

	service := NewService(users, j, adminEmail)

	user, err := service.Authenticate(context.Background(), testToken(t, j, "sub-1", "casey@example.com"))

	assert.NoError(t, err)
	assert.Equal(t, "casey", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestAuthenticate_AdminGrantedOnCreationOnly(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	users.On("GetBySubject", mock.Anything, "sub-admin").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil)

	service := NewService(users, j, adminEmail)

	user, err := service.Authenticate(context.Background(), testToken(t, j, "sub-admin", adminEmail))

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestAuthenticate_AdminMismatchSurfaced(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	// a stored admin row whose email no longer matches the configured admin
	// identity must be refused, never silently demoted
	users.On("GetBySubject", mock.Anything, "sub-old").Return(&domain.User{
		ID: 1, SubjectID: "sub-old", Email: "former-admin@example.com", Role: domain.RoleAdmin,
		AccountStatus: domain.AccountActive,
	}, nil)

	service := NewService(users, j, adminEmail)

	_, err := service.Authenticate(context.Background(), testToken(t, j, "sub-old", "former-admin@example.com"))
	assert.ErrorIs(t, err, ErrAdminMismatch)
}

func TestAuthenticate_BannedUserRefused(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	users.On("GetBySubject", mock.Anything, "sub-2").Return(&domain.User{
		ID: 2, SubjectID: "sub-2", Email: "banned@example.com", Role: domain.RoleUser,
		AccountStatus: domain.AccountBanned,
	}, nil)

	service := NewService(users, j, adminEmail)

	_, err := service.Authenticate(context.Background(), testToken(t, j, "sub-2", "banned@example.com"))
	assert.ErrorIs(t, err, ErrBanned)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	service := NewService(users, j, adminEmail)

	_, err := service.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_ProvisionRaceAdoptsWinnerRow(t *testing.T) {
	users := new(MockUserRepository)
	j := jwtsvc.New("test-secret", time.Hour)

	existing := &domain.User{
		ID: 7, SubjectID: "sub-3", Email: "race@example.com", Role: domain.RoleUser,
		AccountStatus: domain.AccountActive,
	}
	users.On("GetBySubject", mock.Anything, "sub-3").Return(nil, gorm.ErrRecordNotFound).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(errors.New("UNIQUE constraint failed: users.subject_id"))
	users.On("GetBySubject", mock.Anything, "sub-3").Return(existing, nil).Once()

	service := NewService(users, j, adminEmail)

	user, err := service.Authenticate(context.Background(), testToken(t, j, "sub-3", "race@example.com"))

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestRequestCreator_PendingBlocksReapply(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleUser, CreatorStatus: domain.CreatorPending,
	}, nil)

	service := NewService(users, jwtsvc.New("test-secret", time.Hour), adminEmail)

	_, err := service.RequestCreator(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRequestPending)
}

func TestRequestCreator_RejectedMayReapply(t *testing.T) {
	users := new(MockUserRepository)

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleUser, CreatorStatus: domain.CreatorRejected,
	}, nil).Once()
	users.On("UpdateCreatorStatus", mock.Anything, int64(1), domain.CreatorPending, domain.RoleUser).Return(nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleUser, CreatorStatus: domain.CreatorPending,
	}, nil).Once()

	service := NewService(users, jwtsvc.New("test-secret", time.Hour), adminEmail)

	user, err := service.RequestCreator(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.CreatorPending, user.CreatorStatus)
}

func TestReviewCreator_ApproveGrantsRole(t *testing.T) {
	users := new(MockUserRepository)

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleUser, CreatorStatus: domain.CreatorPending,
	}, nil).Once()
	users.On("UpdateCreatorStatus", mock.Anything, int64(1), domain.CreatorApproved, domain.RoleCreator).Return(nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleCreator, CreatorStatus: domain.CreatorApproved,
	}, nil).Once()

	service := NewService(users, jwtsvc.New("test-secret", time.Hour), adminEmail)

	user, err := service.ReviewCreator(context.Background(), 1, true)

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCreator, user.Role)
	users.AssertExpectations(t)
}

func TestReviewCreator_NothingPending(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleUser, CreatorStatus: domain.CreatorNone,
	}, nil)

	service := NewService(users, jwtsvc.New("test-secret", time.Hour), adminEmail)

	_, err := service.ReviewCreator(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetBanned_AdminUnbannable(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Role: domain.RoleAdmin,
	}, nil)

	service := NewService(users, jwtsvc.New("test-secret", time.Hour), adminEmail)

	_, err := service.SetBanned(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrForbidden)
}
