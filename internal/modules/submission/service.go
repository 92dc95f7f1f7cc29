package submission

import (
	"context"
	"fmt"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/repository"
)

type Service struct {
	contests    ContestRepositoryInterface
	submissions SubmissionRepositoryInterface
	users       UserRepositoryInterface
	payments    PaymentRepositoryInterface

	distribution []float64 // prize shares by rank, index 0 = rank 1
	pointsPerWin int

	loggerf func(format string, args ...interface{})
}

func NewService(
	contests ContestRepositoryInterface,
	submissions SubmissionRepositoryInterface,
	users UserRepositoryInterface,
	payments PaymentRepositoryInterface,
	distribution []float64,
	pointsPerWin int,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if len(distribution) == 0 {
		distribution = []float64{1}
	}
	return &Service{
		contests:     contests,
		submissions:  submissions,
		users:        users,
		payments:     payments,
		distribution: distribution,
		pointsPerWin: pointsPerWin,
		loggerf:      loggerf,
	}
}

// -------------------- Submitting --------------------

// Submit records the participant's entry. One entry per (contest, user): the
// unique index backs that, so a concurrent double-submit surfaces as the
// already-submitted error on the loser.
func (s *Service) Submit(ctx context.Context, contestID, userID int64, content string) (*domain.Submission, error) {
	c, err := s.getContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContestApproved {
		return nil, ErrInvalidState
	}
	if c.WinnerDeclared {
		return nil, ErrAlreadyDeclared
	}
	if !c.Deadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	registered, err := s.contests.IsParticipant(ctx, contestID, userID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, ErrNotRegistered
	}

	sub := &domain.Submission{
		ContestID:   contestID,
		UserID:      userID,
		Content:     content,
		SubmittedAt: time.Now(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}
	return sub, nil
}

// ListByContest returns every entry for the contest, oldest first. Only the
// contest creator and admins see the full entry list before settlement.
func (s *Service) ListByContest(ctx context.Context, contestID int64, actor *domain.User) ([]domain.Submission, error) {
	c, err := s.getContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.submissions.ListByContest(ctx, contestID)
}

// ListMine returns the caller's entries across contests, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64, page, limit int) ([]domain.Submission, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.submissions.ListByUser(ctx, userID, limit, (page-1)*limit)
}

// -------------------- Settlement --------------------

// DeclareWinner settles a contest: the named submission takes rank 1 and any
// runner-ups take the following ranks, each earning its configured share of the
// prize money. The winner_declared flip commits atomically with the winner
// slots: exactly one caller wins it, every other call observes
// already-declared, and all money movement happens strictly after it. A
// failure past the flip leaves unpaid winner slots for the reconciliation
// pass rather than rolling back.
func (s *Service) DeclareWinner(ctx context.Context, actor *domain.User, submissionID int64, runnerUpIDs []int64) ([]domain.Winner, error) {
	sub, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	c, err := s.getContest(ctx, sub.ContestID)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if c.Status != domain.ContestApproved && c.Status != domain.ContestCompleted {
		return nil, ErrInvalidState
	}
	if c.Deadline.After(time.Now()) {
		return nil, ErrTooEarly
	}
	if c.WinnerDeclared {
		return nil, ErrAlreadyDeclared
	}

	ranked, err := s.rankedSubmissions(ctx, sub, runnerUpIDs)
	if err != nil {
		return nil, err
	}

	winners := make([]domain.Winner, 0, len(ranked))
	for i, rs := range ranked {
		winners = append(winners, domain.Winner{
			ContestID: c.ID,
			UserID:    rs.UserID,
			Rank:      i + 1,
			Prize:     c.PrizeMoney * s.distribution[i],
		})
	}

	// the flip and the slot insert commit together, so the reconciler always
	// has slots to finish when the flip is visible
	declared, err := s.contests.DeclareWinners(ctx, c.ID, winners)
	if err != nil {
		return nil, err
	}
	if !declared {
		// a concurrent declare won the flip
		return nil, ErrAlreadyDeclared
	}

	// settle in rank order; partial failure leaves unpaid slots behind
	for i := range winners {
		if err := s.settle(ctx, &winners[i]); err != nil {
			s.loggerf("level=error msg=settlement deferred contest_id=%d user_id=%d rank=%d err=%v",
				winners[i].ContestID, winners[i].UserID, winners[i].Rank, err)
		}
	}
	return s.contests.GetWinners(ctx, c.ID)
}

// rankedSubmissions validates the winner plus runner-ups and returns them in
// rank order, truncated to the configured number of prize shares.
func (s *Service) rankedSubmissions(ctx context.Context, winner *domain.Submission, runnerUpIDs []int64) ([]*domain.Submission, error) {
	ranked := []*domain.Submission{winner}
	seen := map[int64]bool{winner.UserID: true}

	for _, id := range runnerUpIDs {
		if len(ranked) == len(s.distribution) {
			break
		}
		ru, err := s.submissions.GetByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: submission %d not found", ErrBadRunnerUp, id)
			}
			return nil, err
		}
		if ru.ContestID != winner.ContestID {
			return nil, fmt.Errorf("%w: submission %d belongs to another contest", ErrBadRunnerUp, id)
		}
		if seen[ru.UserID] {
			return nil, fmt.Errorf("%w: duplicate user in ranking", ErrBadRunnerUp)
		}
		seen[ru.UserID] = true
		ranked = append(ranked, ru)
	}
	return ranked, nil
}

// settle pays out one winner slot. The succeeded payout ledger row is the
// replay guard: it is written before the balance credit, so a replay can never
// credit twice; a crash between the two is caught by the reconciler, which
// trusts the row and only finishes the bookkeeping.
func (s *Service) settle(ctx context.Context, w *domain.Winner) error {
	paid, err := s.payments.HasSucceededPayout(ctx, w.ContestID, w.UserID)
	if err != nil {
		return err
	}

	if !paid {
		contestID := w.ContestID
		p := &domain.Payment{
			ContestID:   &contestID,
			UserID:      w.UserID,
			Amount:      w.Prize,
			Type:        domain.PaymentPrizePayout,
			Status:      domain.PaymentStatusSucceeded,
			ExternalRef: fmt.Sprintf("payout:%d:%d", w.ContestID, w.UserID),
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}
		if err := s.users.CreditWinnings(ctx, w.UserID, w.Prize, s.pointsPerWin); err != nil {
			return err
		}
	}

	// conditional on is_winner = false, so a replay cannot rewrite the rank
	if sub, err := s.submissions.GetByContestAndUser(ctx, w.ContestID, w.UserID); err == nil {
		if err := s.submissions.MarkWinner(ctx, sub.ID, w.Rank, w.Prize); err != nil {
			return err
		}
	} else if !repository.IsNotFound(err) {
		return err
	}

	if err := s.contests.MarkWinnerPaid(ctx, w.ContestID, w.UserID); err != nil {
		return err
	}
	w.Paid = true
	return nil
}

// Winners returns the recorded winner slots for a settled contest, rank order.
func (s *Service) Winners(ctx context.Context, contestID int64) ([]domain.Winner, error) {
	if _, err := s.getContest(ctx, contestID); err != nil {
		return nil, err
	}
	return s.contests.GetWinners(ctx, contestID)
}

// Reconcile finishes settlements that failed partway: every unpaid winner slot
// is re-driven through the same payout path. It also repairs participant
// counters that drifted when a confirm crashed between the set insert and the
// bump. Safe to run concurrently with declares and with itself.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	if repaired, err := s.contests.SyncParticipantCounts(ctx); err != nil {
		s.loggerf("level=warn msg=participant count repair failed err=%v", err)
	} else if repaired > 0 {
		s.loggerf("level=info msg=participant counts repaired contests=%d", repaired)
	}

	unpaid, err := s.contests.ListUnpaidWinners(ctx)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range unpaid {
		if err := s.settle(ctx, &unpaid[i]); err != nil {
			s.loggerf("level=warn msg=reconcile slot failed contest_id=%d user_id=%d err=%v",
				unpaid[i].ContestID, unpaid[i].UserID, err)
			continue
		}
		settled++
	}
	return settled, nil
}

func (s *Service) getContest(ctx context.Context, contestID int64) (*domain.Contest, error) {
	c, err := s.contests.GetByID(ctx, contestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) getSubmission(ctx context.Context, id int64) (*domain.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}
