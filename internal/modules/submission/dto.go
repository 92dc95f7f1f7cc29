package submission

import (
	"time"

	"contesthub/internal/domain"
)

type SubmitRequest struct {
	ContestID int64  `json:"contest_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type DeclareWinnerRequest struct {
	RunnerUpIDs []int64 `json:"runner_up_ids"`
}

type SubmissionView struct {
	ID          int64     `json:"id"`
	ContestID   int64     `json:"contest_id"`
	UserID      int64     `json:"user_id"`
	Content     string    `json:"content"`
	IsWinner    bool      `json:"is_winner"`
	Rank        int       `json:"rank,omitempty"`
	PrizeAmount float64   `json:"prize_amount,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewSubmissionView(s *domain.Submission) SubmissionView {
	return SubmissionView{
		ID:          s.ID,
		ContestID:   s.ContestID,
		UserID:      s.UserID,
		Content:     s.Content,
		IsWinner:    s.IsWinner,
		Rank:        s.Rank,
		PrizeAmount: s.PrizeAmount,
		SubmittedAt: s.SubmittedAt,
	}
}

func NewSubmissionViews(subs []domain.Submission) []SubmissionView {
	out := make([]SubmissionView, 0, len(subs))
	for i := range subs {
		out = append(out, NewSubmissionView(&subs[i]))
	}
	return out
}

type WinnerView struct {
	ContestID int64   `json:"contest_id"`
	UserID    int64   `json:"user_id"`
	Rank      int     `json:"rank"`
	Prize     float64 `json:"prize"`
	Paid      bool    `json:"paid"`
}

func NewWinnerViews(winners []domain.Winner) []WinnerView {
	out := make([]WinnerView, 0, len(winners))
	for _, w := range winners {
		out = append(out, WinnerView{ContestID: w.ContestID, UserID: w.UserID, Rank: w.Rank, Prize: w.Prize, Paid: w.Paid})
	}
	return out
}
