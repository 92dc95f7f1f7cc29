package repository

import (
	"context"
	"time"

	"contesthub/internal/domain"

	"gorm.io/gorm"
)

type ContestRepository struct {
	db *gorm.DB
}

func NewContestRepository(db *gorm.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) DB() *gorm.DB { return r.db }

type contestModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	Name              string     `gorm:"column:name"`
	ImageURL          *string    `gorm:"column:image_url"`
	Description       string     `gorm:"column:description;type:text"`
	Task              string     `gorm:"column:task;type:text"`
	Category          string     `gorm:"column:category;index"`
	Price             float64    `gorm:"column:price"`
	PrizeMoney        float64    `gorm:"column:prize_money"`
	StartDate         *time.Time `gorm:"column:start_date"`
	Deadline          time.Time  `gorm:"column:deadline;index"`
	Status            string     `gorm:"column:status;index"`
	CreatorID         int64      `gorm:"column:creator_id;index"`
	ParticipantsCount int        `gorm:"column:participants_count"`
	WinnerDeclared    bool       `gorm:"column:winner_declared"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (contestModel) TableName() string { return "contests" }

// contestParticipantModel is the add-to-set participant store: the composite
// unique index is what makes a retried confirm unable to duplicate a slot.
type contestParticipantModel struct {
	ContestID int64     `gorm:"column:contest_id;uniqueIndex:idx_contest_participant"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_contest_participant"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime"`
}

func (contestParticipantModel) TableName() string { return "contest_participants" }

type contestWinnerModel struct {
	ContestID int64   `gorm:"column:contest_id;uniqueIndex:idx_contest_winner_rank"`
	Rank      int     `gorm:"column:rank;uniqueIndex:idx_contest_winner_rank"`
	UserID    int64   `gorm:"column:user_id"`
	Prize     float64 `gorm:"column:prize"`
	Paid      bool    `gorm:"column:paid"`
}

func (contestWinnerModel) TableName() string { return "contest_winners" }

func toDomainContest(m contestModel) *domain.Contest {
	var image string
	if m.ImageURL != nil {
		image = *m.ImageURL
	}

	return &domain.Contest{
		ID:                m.ID,
		Name:              m.Name,
		ImageURL:          image,
		Description:       m.Description,
		Task:              m.Task,
		Category:          domain.ContestCategory(m.Category),
		Price:             m.Price,
		PrizeMoney:        m.PrizeMoney,
		StartDate:         m.StartDate,
		Deadline:          m.Deadline,
		Status:            domain.ContestStatus(m.Status),
		CreatorID:         m.CreatorID,
		ParticipantsCount: m.ParticipantsCount,
		WinnerDeclared:    m.WinnerDeclared,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toContestModel(c *domain.Contest) contestModel {
	var image *string
	if c.ImageURL != "" {
		v := c.ImageURL
		image = &v
	}

	return contestModel{
		ID:                c.ID,
		Name:              c.Name,
		ImageURL:          image,
		Description:       c.Description,
		Task:              c.Task,
		Category:          string(c.Category),
		Price:             c.Price,
		PrizeMoney:        c.PrizeMoney,
		StartDate:         c.StartDate,
		Deadline:          c.Deadline,
		Status:            string(c.Status),
		CreatorID:         c.CreatorID,
		ParticipantsCount: c.ParticipantsCount,
		WinnerDeclared:    c.WinnerDeclared,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r *ContestRepository) Create(ctx context.Context, c *domain.Contest) error {
	m := toContestModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainContest(m)
	return nil
}

func (r *ContestRepository) GetByID(ctx context.Context, id int64) (*domain.Contest, error) {
	var m contestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainContest(m), nil
}

// UpdateContent rewrites the structural fields. Status gating (pending-only for
// non-admin editors) lives in the service layer.
func (r *ContestRepository) UpdateContent(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&contestModel{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ContestRepository) UpdateStatus(ctx context.Context, id int64, status domain.ContestStatus) error {
	return r.db.WithContext(ctx).Model(&contestModel{}).Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *ContestRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", id).Delete(&contestParticipantModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&contestModel{}, id).Error
	})
}

// ContestFilters narrows List. Timeline filtering happens in SQL against Now
// so the derived bucket can never drift from what single-contest reads report.
type ContestFilters struct {
	Category string
	Timeline domain.Timeline
	Search   string
	Statuses []domain.ContestStatus
	Now      time.Time
	Limit    int
	Offset   int
}

func (r *ContestRepository) List(ctx context.Context, f ContestFilters) ([]domain.Contest, int64, error) {
	q := r.db.WithContext(ctx).Model(&contestModel{})

	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	switch f.Timeline {
	case domain.TimelineUpcoming:
		q = q.Where("start_date IS NOT NULL AND start_date > ? AND winner_declared = ?", f.Now, false)
	case domain.TimelineOngoing:
		q = q.Where("(start_date IS NULL OR start_date <= ?) AND deadline > ? AND winner_declared = ?", f.Now, f.Now, false)
	case domain.TimelinePast:
		q = q.Where("deadline <= ? OR winner_declared = ?", f.Now, true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []contestModel
	if err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Contest, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainContest(m))
	}
	return out, total, nil
}

func (r *ContestRepository) ListByCreator(ctx context.Context, creatorID int64, limit, offset int) ([]domain.Contest, int64, error) {
	q := r.db.WithContext(ctx).Model(&contestModel{}).Where("creator_id = ?", creatorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []contestModel
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Contest, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainContest(m))
	}
	return out, total, nil
}

// AddParticipant inserts the (contest, user) slot. The composite unique index
// turns a duplicate insert into a constraint violation the caller maps to the
// already-registered error.
func (r *ContestRepository) AddParticipant(ctx context.Context, contestID, userID int64) error {
	m := contestParticipantModel{ContestID: contestID, UserID: userID}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ContestRepository) IncrementParticipants(ctx context.Context, contestID int64) error {
	return r.db.WithContext(ctx).Model(&contestModel{}).Where("id = ?", contestID).
		Update("participants_count", gorm.Expr("participants_count + 1")).Error
}

func (r *ContestRepository) IsParticipant(ctx context.Context, contestID, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&contestParticipantModel{}).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *ContestRepository) ListParticipants(ctx context.Context, contestID int64) ([]domain.Participant, error) {
	var ms []contestParticipantModel
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("joined_at ASC, user_id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Participant, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Participant{ContestID: m.ContestID, UserID: m.UserID, JoinedAt: m.JoinedAt})
	}
	return out, nil
}

// DeclareWinners flips winner_declared false -> true, completes the contest
// and records the rank-ordered winner slots in a single transaction. Returns
// false when the flag was already set. The combined write is the linearization
// point of the whole settlement: a failed slot insert rolls the flip back, so
// no contest can end up declared with nothing for the reconciler to finish.
func (r *ContestRepository) DeclareWinners(ctx context.Context, contestID int64, winners []domain.Winner) (bool, error) {
	declared := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&contestModel{}).
			Where("id = ? AND winner_declared = ?", contestID, false).
			Updates(map[string]any{
				"winner_declared": true,
				"status":          string(domain.ContestCompleted),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		declared = true

		ms := make([]contestWinnerModel, 0, len(winners))
		for _, w := range winners {
			ms = append(ms, contestWinnerModel{
				ContestID: w.ContestID,
				UserID:    w.UserID,
				Rank:      w.Rank,
				Prize:     w.Prize,
				Paid:      w.Paid,
			})
		}
		return tx.Create(&ms).Error
	})
	if err != nil {
		return false, err
	}
	return declared, nil
}

func (r *ContestRepository) GetWinners(ctx context.Context, contestID int64) ([]domain.Winner, error) {
	var ms []contestWinnerModel
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("rank ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Winner, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Winner{ContestID: m.ContestID, UserID: m.UserID, Rank: m.Rank, Prize: m.Prize, Paid: m.Paid})
	}
	return out, nil
}

func (r *ContestRepository) MarkWinnerPaid(ctx context.Context, contestID, userID int64) error {
	return r.db.WithContext(ctx).Model(&contestWinnerModel{}).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		Update("paid", true).Error
}

// SyncParticipantCounts rewrites participants_count from the participant set
// wherever the denormalized counter drifted (a crash between the set insert
// and the counter bump), and reports how many contests were repaired.
func (r *ContestRepository) SyncParticipantCounts(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).Exec(`UPDATE contests SET participants_count = (
			SELECT COUNT(*) FROM contest_participants WHERE contest_participants.contest_id = contests.id
		) WHERE participants_count <> (
			SELECT COUNT(*) FROM contest_participants WHERE contest_participants.contest_id = contests.id
		)`)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// ListUnpaidWinners feeds the reconciliation pass: winner slots recorded at the
// linearization point whose credit step may not have completed.
func (r *ContestRepository) ListUnpaidWinners(ctx context.Context) ([]domain.Winner, error) {
	var ms []contestWinnerModel
	if err := r.db.WithContext(ctx).
		Where("paid = ?", false).
		Order("contest_id ASC, rank ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Winner, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Winner{ContestID: m.ContestID, UserID: m.UserID, Rank: m.Rank, Prize: m.Prize, Paid: m.Paid})
	}
	return out, nil
}
