package repository

import (
	"context"
	"strings"
	"time"

	"contesthub/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

type userModel struct {
	ID                   int64     `gorm:"column:id;primaryKey"`
	SubjectID            string    `gorm:"column:subject_id;uniqueIndex"`
	Email                string    `gorm:"column:email;uniqueIndex"`
	Name                 string    `gorm:"column:name"`
	PhotoURL             *string   `gorm:"column:photo_url"`
	Bio                  *string   `gorm:"column:bio"`
	Address              *string   `gorm:"column:address"`
	Role                 string    `gorm:"column:role"`
	CreatorStatus        string    `gorm:"column:creator_status"`
	AccountStatus        string    `gorm:"column:account_status"`
	ContestsParticipated int       `gorm:"column:contests_participated"`
	ContestsWon          int       `gorm:"column:contests_won"`
	Points               int       `gorm:"column:points"`
	Balance              float64   `gorm:"column:balance"`
	TotalEarnings        float64   `gorm:"column:total_earnings"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var photo, bio, address string
	if m.PhotoURL != nil {
		photo = *m.PhotoURL
	}
	if m.Bio != nil {
		bio = *m.Bio
	}
	if m.Address != nil {
		address = *m.Address
	}

	return &domain.User{
		ID:                   m.ID,
		SubjectID:            m.SubjectID,
		Email:                m.Email,
		Name:                 m.Name,
		PhotoURL:             photo,
		Bio:                  bio,
		Address:              address,
		Role:                 domain.UserRole(m.Role),
		CreatorStatus:        domain.CreatorStatus(m.CreatorStatus),
		AccountStatus:        domain.AccountStatus(m.AccountStatus),
		ContestsParticipated: m.ContestsParticipated,
		ContestsWon:          m.ContestsWon,
		Points:               m.Points,
		Balance:              m.Balance,
		TotalEarnings:        m.TotalEarnings,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var photo, bio, address *string
	if u.PhotoURL != "" {
		v := u.PhotoURL
		photo = &v
	}
	if u.Bio != "" {
		v := u.Bio
		bio = &v
	}
	if u.Address != "" {
		v := u.Address
		address = &v
	}

	return userModel{
		ID:                   u.ID,
		SubjectID:            u.SubjectID,
		Email:                email,
		Name:                 u.Name,
		PhotoURL:             photo,
		Bio:                  bio,
		Address:              address,
		Role:                 string(u.Role),
		CreatorStatus:        string(u.CreatorStatus),
		AccountStatus:        string(u.AccountStatus),
		ContestsParticipated: u.ContestsParticipated,
		ContestsWon:          u.ContestsWon,
		Points:               u.Points,
		Balance:              u.Balance,
		TotalEarnings:        u.TotalEarnings,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetBySubject(ctx context.Context, subjectID string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", u.ID).Updates(&m).Error
}

// UpdateProfile touches only the caller-editable display fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) UpdateCreatorStatus(ctx context.Context, id int64, status domain.CreatorStatus, role domain.UserRole) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"creator_status": string(status),
		"role":           string(role),
	}).Error
}

func (r *UserRepository) UpdateAccountStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		Update("account_status", string(status)).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&userModel{}, id).Error
}

// IncrementParticipated bumps contests_participated by one. Issued at most once
// per confirmed registration; the caller holds the already-registered guard.
func (r *UserRepository) IncrementParticipated(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		Update("contests_participated", gorm.Expr("contests_participated + 1")).Error
}

// CreditWinnings applies the settlement credit as one atomic row update.
func (r *UserRepository) CreditWinnings(ctx context.Context, id int64, prize float64, points int) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"balance":        gorm.Expr("balance + ?", prize),
		"total_earnings": gorm.Expr("total_earnings + ?", prize),
		"contests_won":   gorm.Expr("contests_won + 1"),
		"points":         gorm.Expr("points + ?", points),
	}).Error
}

// DebitBalance decrements balance by amount, conditioned on the balance still
// covering it at decrement time. Returns false when the condition failed.
func (r *UserRepository) DebitBalance(ctx context.Context, id int64, amount float64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListRanked returns the leaderboard slice: points > 0, ordered by points,
// then contest wins, with name/id as the stable display tie-break.
func (r *UserRepository) ListRanked(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{}).Where("points > 0")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []userModel
	if err := q.Order("points DESC, contests_won DESC, name ASC, id ASC").
		Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

// RankBefore counts users strictly ahead of the given (points, wins) key in
// the leaderboard total order. Competition ranking: rank = RankBefore + 1.
func (r *UserRepository) RankBefore(ctx context.Context, points, wins int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("points > 0 AND (points > ? OR (points = ? AND contests_won > ?))", points, points, wins).
		Count(&n).Error
	return n, err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []userModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

// GetByIDs returns the found users keyed by id. Missing ids are simply absent;
// participant lists may hold dangling references after an admin delete.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var ms []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[m.ID] = toDomainUser(m)
	}
	return out, nil
}
