package repository

import (
	"context"
	"errors"
	"time"

	"contesthub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPaymentImmutable is returned when a write would mutate a ledger row that
// already reached a terminal status outside the succeeded -> refunded path.
var ErrPaymentImmutable = errors.New("payment record is immutable after terminal status")

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) DB() *gorm.DB { return r.db }

type paymentModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ContestID   *int64    `gorm:"column:contest_id;index"`
	UserID      int64     `gorm:"column:user_id;index"`
	Amount      float64   `gorm:"column:amount"`
	Type        string    `gorm:"column:type;index"`
	Status      string    `gorm:"column:status;index"`
	ExternalRef *string   `gorm:"column:external_ref;index"`
	Method      *string   `gorm:"column:method"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func (m *paymentModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func toDomainPayment(m paymentModel) *domain.Payment {
	var ref, method string
	if m.ExternalRef != nil {
		ref = *m.ExternalRef
	}
	if m.Method != nil {
		method = *m.Method
	}

	return &domain.Payment{
		ID:          m.ID,
		ContestID:   m.ContestID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Type:        domain.PaymentType(m.Type),
		Status:      domain.PaymentStatus(m.Status),
		ExternalRef: ref,
		Method:      method,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	var ref, method *string
	if p.ExternalRef != "" {
		v := p.ExternalRef
		ref = &v
	}
	if p.Method != "" {
		v := p.Method
		method = &v
	}

	return paymentModel{
		ID:          p.ID,
		ContestID:   p.ContestID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Type:        string(p.Type),
		Status:      string(p.Status),
		ExternalRef: ref,
		Method:      method,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) GetByExternalRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// UpdateStatus moves a ledger row to a new status. Rows that already reached a
// terminal status only accept the succeeded -> refunded transition; everything
// else is refused so the audit trail stays append-only.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	var m paymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return err
	}

	current := domain.PaymentStatus(m.Status)
	if current.Terminal() {
		if !(current == domain.PaymentStatusSucceeded && status == domain.PaymentStatusRefunded) {
			return ErrPaymentImmutable
		}
	}

	return r.db.WithContext(ctx).Model(&paymentModel{}).Where("id = ?", id).
		Update("status", string(status)).Error
}

// HasSucceededPayout is the settlement replay guard: once a succeeded
// prize_payout row exists for the pair, the credit must not be re-applied.
func (r *PaymentRepository) HasSucceededPayout(ctx context.Context, contestID, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&paymentModel{}).
		Where("contest_id = ? AND user_id = ? AND type = ? AND status = ?",
			contestID, userID, string(domain.PaymentPrizePayout), string(domain.PaymentStatusSucceeded)).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&paymentModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []paymentModel
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Payment, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainPayment(m))
	}
	return out, total, nil
}

func (r *PaymentRepository) ListByContest(ctx context.Context, contestID int64) ([]domain.Payment, error) {
	var ms []paymentModel
	if err := r.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Payment, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}
