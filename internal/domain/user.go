package domain

import "time"

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleCreator UserRole = "creator"
	RoleAdmin   UserRole = "admin"
)

type CreatorStatus string

const (
	CreatorNone     CreatorStatus = "none"
	CreatorPending  CreatorStatus = "pending"
	CreatorApproved CreatorStatus = "approved"
	CreatorRejected CreatorStatus = "rejected"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountBanned AccountStatus = "banned"
)

type User struct {
	ID        int64  `json:"id"`
	SubjectID string `json:"-"`
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Address   string `json:"address,omitempty"`

	Role          UserRole      `json:"role"`
	CreatorStatus CreatorStatus `json:"creator_status"`
	AccountStatus AccountStatus `json:"account_status"`

	ContestsParticipated int `json:"contests_participated"`
	ContestsWon          int `json:"contests_won"`
	Points               int `json:"points"`

	Balance       float64 `json:"balance"`
	TotalEarnings float64 `json:"total_earnings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsCreator() bool { return u.Role == RoleCreator }
func (u *User) IsBanned() bool  { return u.AccountStatus == AccountBanned }
