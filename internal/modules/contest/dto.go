package contest

import (
	"time"

	"contesthub/internal/domain"
)

type CreateContestRequest struct {
	Name        string     `json:"name" binding:"required"`
	ImageURL    string     `json:"image_url"`
	Description string     `json:"description"`
	Task        string     `json:"task" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Price       float64    `json:"price"`
	PrizeMoney  float64    `json:"prize_money" binding:"required"`
	StartDate   *time.Time `json:"start_date"`
	Deadline    time.Time  `json:"deadline" binding:"required"`
}

type UpdateContestRequest struct {
	Name        *string    `json:"name,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Description *string    `json:"description,omitempty"`
	Task        *string    `json:"task,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	PrizeMoney  *float64   `json:"prize_money,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// ContestView decorates a contest with its derived timeline bucket.
type ContestView struct {
	domain.Contest
	Timeline domain.Timeline `json:"timeline"`
}

func NewContestView(c domain.Contest, now time.Time) ContestView {
	return ContestView{Contest: c, Timeline: c.TimelineAt(now)}
}

func NewContestViews(cs []domain.Contest, now time.Time) []ContestView {
	out := make([]ContestView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewContestView(c, now))
	}
	return out
}
