package repository

import (
	"context"
	"time"

	"contesthub/internal/domain"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) DB() *gorm.DB { return r.db }

type submissionModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	ContestID   int64     `gorm:"column:contest_id;uniqueIndex:idx_submission_contest_user"`
	UserID      int64     `gorm:"column:user_id;uniqueIndex:idx_submission_contest_user"`
	Content     string    `gorm:"column:content;type:text"`
	IsWinner    bool      `gorm:"column:is_winner"`
	Rank        int       `gorm:"column:rank"`
	PrizeAmount float64   `gorm:"column:prize_amount"`
	SubmittedAt time.Time `gorm:"column:submitted_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string { return "submissions" }

func toDomainSubmission(m submissionModel) *domain.Submission {
	return &domain.Submission{
		ID:          m.ID,
		ContestID:   m.ContestID,
		UserID:      m.UserID,
		Content:     m.Content,
		IsWinner:    m.IsWinner,
		Rank:        m.Rank,
		PrizeAmount: m.PrizeAmount,
		SubmittedAt: m.SubmittedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSubmissionModel(s *domain.Submission) submissionModel {
	return submissionModel{
		ID:          s.ID,
		ContestID:   s.ContestID,
		UserID:      s.UserID,
		Content:     s.Content,
		IsWinner:    s.IsWinner,
		Rank:        s.Rank,
		PrizeAmount: s.PrizeAmount,
		SubmittedAt: s.SubmittedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Create inserts the submission; the (contest_id, user_id) unique index is the
// at-most-one-submission invariant, so callers map a constraint violation to
// the already-submitted error rather than a generic failure.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	m := toSubmissionModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainSubmission(m)
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	var m submissionModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSubmission(m), nil
}

func (r *SubmissionRepository) GetByContestAndUser(ctx context.Context, contestID, userID int64) (*domain.Submission, error) {
	var m submissionModel
	tx := r.db.WithContext(ctx).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSubmission(m), nil
}

func (r *SubmissionRepository) ListByContest(ctx context.Context, contestID int64) ([]domain.Submission, error) {
	var ms []submissionModel
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("submitted_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Submission, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSubmission(m))
	}
	return out, nil
}

// MarkWinner flips is_winner exactly once per submission; the conditional
// guard keeps a settlement replay from rewriting rank or prize.
func (r *SubmissionRepository) MarkWinner(ctx context.Context, id int64, rank int, prize float64) error {
	return r.db.WithContext(ctx).Model(&submissionModel{}).
		Where("id = ? AND is_winner = ?", id, false).
		Updates(map[string]any{
			"is_winner":    true,
			"rank":         rank,
			"prize_amount": prize,
		}).Error
}

func (r *SubmissionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Submission, int64, error) {
	q := r.db.WithContext(ctx).Model(&submissionModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []submissionModel
	if err := q.Order("submitted_at DESC, id DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Submission, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSubmission(m))
	}
	return out, total, nil
}
