package auth

import (
	"context"
	"strings"

	"contesthub/internal/domain"
	"contesthub/internal/repository"
)

// Service is the identity gate: it turns an externally verified credential
// into a resolved local user, auto-provisioning first-time users.
type Service struct {
	users      UserRepositoryInterface
	verifier   TokenVerifier
	adminEmail string
}

func NewService(users UserRepositoryInterface, verifier TokenVerifier, adminEmail string) *Service {
	return &Service{
		users:      users,
		verifier:   verifier,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

// Authenticate verifies the bearer credential and resolves the local user by
// the verified subject id. The admin role is trusted only while the stored
// email still matches the configured admin identity; a stored admin row whose
// email no longer matches is surfaced as a conflict, never silently demoted.
func (s *Service) Authenticate(ctx context.Context, bearerToken string) (*domain.User, error) {
	claims, err := s.verifier.ValidateToken(bearerToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetBySubject(ctx, claims.Subject)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, err
		}
		user, err = s.provision(ctx, claims.Subject, email)
		if err != nil {
			return nil, err
		}
	}

	if user.Role == domain.RoleAdmin && user.Email != s.adminEmail {
		return nil, ErrAdminMismatch
	}
	if user.IsBanned() {
		return nil, ErrBanned
	}

	return user, nil
}

// provision creates the first-touch user row. The admin role is granted on
// creation only, and only to the configured admin email.
func (s *Service) provision(ctx context.Context, subjectID, email string) (*domain.User, error) {
	role := domain.RoleUser
	if email == s.adminEmail {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		SubjectID:     subjectID,
		Email:         email,
		Name:          nameFromEmail(email),
		Role:          role,
		CreatorStatus: domain.CreatorNone,
		AccountStatus: domain.AccountActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// concurrent first requests race on the unique subject index; the
		// loser adopts the row the winner created
		if repository.IsUniqueViolation(err) {
			return s.users.GetBySubject(ctx, subjectID)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// RequestCreator moves the caller's creator status to pending for admin
// review. Rejected users may re-apply.
func (s *Service) RequestCreator(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.CreatorStatus {
	case domain.CreatorApproved:
		return nil, ErrAlreadyCreator
	case domain.CreatorPending:
		return nil, ErrRequestPending
	}
	if user.IsCreator() || user.IsAdmin() {
		return nil, ErrAlreadyCreator
	}

	if err := s.users.UpdateCreatorStatus(ctx, userID, domain.CreatorPending, user.Role); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ReviewCreator resolves a pending creator request. Approval also grants the
// creator role; rejection leaves the role untouched.
func (s *Service) ReviewCreator(ctx context.Context, userID int64, approve bool) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CreatorStatus != domain.CreatorPending {
		return nil, ErrInvalidStatus
	}

	status := domain.CreatorRejected
	role := user.Role
	if approve {
		status = domain.CreatorApproved
		role = domain.RoleCreator
	}

	if err := s.users.UpdateCreatorStatus(ctx, userID, status, role); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, limit, (page-1)*limit)
}

// SetBanned toggles the account status. Admin accounts cannot be banned.
func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrForbidden
	}

	status := domain.AccountActive
	if banned {
		status = domain.AccountBanned
	}
	if err := s.users.UpdateAccountStatus(ctx, userID, status); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// DeleteUser hard-deletes the row. Participant lists keep the dangling
// reference; readers tolerate it.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrForbidden
	}
	return s.users.Delete(ctx, userID)
}

func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
