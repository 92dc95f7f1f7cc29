package domain

import "time"

type ContestStatus string

const (
	ContestPending   ContestStatus = "pending"
	ContestApproved  ContestStatus = "approved"
	ContestRejected  ContestStatus = "rejected"
	ContestCompleted ContestStatus = "completed"
)

type ContestCategory string

const (
	CategoryImageDesign       ContestCategory = "image_design"
	CategoryArticleWriting    ContestCategory = "article_writing"
	CategoryMarketingStrategy ContestCategory = "marketing_strategy"
	CategoryDigitalAd         ContestCategory = "digital_advertisement"
	CategoryGamingReview      ContestCategory = "gaming_review"
	CategoryBusinessIdea      ContestCategory = "business_idea"
)

// Timeline is the derived upcoming/ongoing/past bucket. It is never stored;
// callers recompute it from the schedule and the current time.
type Timeline string

const (
	TimelineUpcoming Timeline = "upcoming"
	TimelineOngoing  Timeline = "ongoing"
	TimelinePast     Timeline = "past"
)

type Contest struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required"`
	ImageURL    string          `json:"image_url,omitempty"`
	Description string          `json:"description" gorm:"type:text"`
	Task        string          `json:"task" gorm:"type:text"`
	Category    ContestCategory `json:"category"`

	Price      float64 `json:"price" validate:"gte=0"`
	PrizeMoney float64 `json:"prize_money" validate:"gte=0"`

	StartDate *time.Time `json:"start_date,omitempty"`
	Deadline  time.Time  `json:"deadline" validate:"required"`

	Status    ContestStatus `json:"status"`
	CreatorID int64         `json:"creator_id"`

	ParticipantsCount int  `json:"participants_count"`
	WinnerDeclared    bool `json:"winner_declared"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator *User `json:"creator,omitempty" gorm:"-"`
}

// TimelineAt buckets the contest relative to now: upcoming until the start
// date, ongoing until the deadline, past afterwards or once completed.
func (c *Contest) TimelineAt(now time.Time) Timeline {
	if c.Status == ContestCompleted || c.WinnerDeclared {
		return TimelinePast
	}
	if c.StartDate != nil && c.StartDate.After(now) {
		return TimelineUpcoming
	}
	if c.Deadline.After(now) {
		return TimelineOngoing
	}
	return TimelinePast
}

// Participant is one (contest, user) registration slot. The pair is unique;
// JoinedAt preserves registration order.
type Participant struct {
	ContestID int64     `json:"contest_id"`
	UserID    int64     `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Winner is one rank-ordered prize slot of a settled contest. Paid mirrors the
// presence of the succeeded prize_payout payment for the pair.
type Winner struct {
	ContestID int64   `json:"contest_id"`
	UserID    int64   `json:"user_id"`
	Rank      int     `json:"rank"`
	Prize     float64 `json:"prize"`
	Paid      bool    `json:"paid"`
}
