package domain

import "time"

type Submission struct {
	ID        int64  `json:"id"`
	ContestID int64  `json:"contest_id" validate:"required"`
	UserID    int64  `json:"user_id"`
	Content   string `json:"content" gorm:"type:text"`

	IsWinner    bool    `json:"is_winner"`
	Rank        int     `json:"rank,omitempty"`
	PrizeAmount float64 `json:"prize_amount,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"-"`
}
