package leaderboard

import (
	"context"
	"sort"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/repository"
)

type Service struct {
	users       UserRepositoryInterface
	contests    ContestRepositoryInterface
	submissions SubmissionRepositoryInterface
}

func NewService(users UserRepositoryInterface, contests ContestRepositoryInterface, submissions SubmissionRepositoryInterface) *Service {
	return &Service{users: users, contests: contests, submissions: submissions}
}

// GlobalEntry is one row of the global standings.
type GlobalEntry struct {
	Rank                 int     `json:"rank"`
	UserID               int64   `json:"user_id"`
	Name                 string  `json:"name"`
	PhotoURL             string  `json:"photo_url,omitempty"`
	Points               int     `json:"points"`
	ContestsWon          int     `json:"contests_won"`
	ContestsParticipated int     `json:"contests_participated"`
	TotalEarnings        float64 `json:"total_earnings"`
}

// Global returns the standings page with competition ranking on the
// (points, contests_won) key: tied users share a rank, and the next distinct
// key resumes at its absolute position, so 300/300/100 ranks as 1/1/3.
func (s *Service) Global(ctx context.Context, page, limit int) ([]GlobalEntry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	users, total, err := s.users.ListRanked(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]GlobalEntry, 0, len(users))
	for i, u := range users {
		var rank int
		switch {
		case i == 0:
			// the page may start mid-tie; count the users strictly ahead
			ahead, err := s.users.RankBefore(ctx, u.Points, u.ContestsWon)
			if err != nil {
				return nil, 0, err
			}
			rank = int(ahead) + 1
		case u.Points == users[i-1].Points && u.ContestsWon == users[i-1].ContestsWon:
			rank = entries[i-1].Rank
		default:
			rank = offset + i + 1
		}

		entries = append(entries, GlobalEntry{
			Rank:                 rank,
			UserID:               u.ID,
			Name:                 u.Name,
			PhotoURL:             u.PhotoURL,
			Points:               u.Points,
			ContestsWon:          u.ContestsWon,
			ContestsParticipated: u.ContestsParticipated,
			TotalEarnings:        u.TotalEarnings,
		})
	}
	return entries, total, nil
}

// ContestEntry is one row of a single contest's board.
type ContestEntry struct {
	Position    int        `json:"position"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	IsWinner    bool       `json:"is_winner"`
	Rank        int        `json:"rank,omitempty"`
	Prize       float64    `json:"prize,omitempty"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// Contest returns a single contest's board: declared winners first in rank
// order, then remaining submitters by submission time, then registered
// participants who never submitted, by name. Users deleted since registering
// are skipped rather than rendered as empty rows.
func (s *Service) Contest(ctx context.Context, contestID int64) ([]ContestEntry, error) {
	if _, err := s.contests.GetByID(ctx, contestID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	winners, err := s.contests.GetWinners(ctx, contestID)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	participants, err := s.contests.ListParticipants(ctx, contestID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserID)
	}
	usersByID, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	winnerByUser := make(map[int64]domain.Winner, len(winners))
	for _, w := range winners {
		winnerByUser[w.UserID] = w
	}
	subByUser := make(map[int64]domain.Submission, len(subs))
	for _, sub := range subs {
		subByUser[sub.UserID] = sub
	}

	entries := make([]ContestEntry, 0, len(participants))
	seen := make(map[int64]bool, len(participants))

	appendUser := func(userID int64) {
		if seen[userID] {
			return
		}
		u, ok := usersByID[userID]
		if !ok {
			// dangling participant reference after an account delete
			seen[userID] = true
			return
		}
		seen[userID] = true

		e := ContestEntry{UserID: u.ID, Name: u.Name, PhotoURL: u.PhotoURL}
		if w, ok := winnerByUser[userID]; ok {
			e.IsWinner = true
			e.Rank = w.Rank
			e.Prize = w.Prize
		}
		if sub, ok := subByUser[userID]; ok {
			e.Submitted = true
			t := sub.SubmittedAt
			e.SubmittedAt = &t
		}
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}

	for _, w := range winners {
		appendUser(w.UserID)
	}
	for _, sub := range subs {
		appendUser(sub.UserID)
	}

	rest := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		if !seen[p.UserID] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		ui, uj := usersByID[rest[i].UserID], usersByID[rest[j].UserID]
		// dangling rows sort last; a nil left operand never wins so the
		// ordering stays strict-weak when both sides dangle
		if ui == nil {
			return false
		}
		if uj == nil {
			return true
		}
		if ui.Name != uj.Name {
			return ui.Name < uj.Name
		}
		return ui.ID < uj.ID
	})
	for _, p := range rest {
		appendUser(p.UserID)
	}

	return entries, nil
}
