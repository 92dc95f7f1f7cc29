package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	contests ContestRepositoryInterface
	users    UserRepositoryInterface
	payments PaymentRepositoryInterface

	gateway        Gateway // nil means test/degraded mode
	gatewayTimeout time.Duration
	minWithdrawal  float64

	loggerf func(format string, args ...interface{})
}

func NewService(
	contests ContestRepositoryInterface,
	users UserRepositoryInterface,
	payments PaymentRepositoryInterface,
	gateway Gateway,
	gatewayTimeout time.Duration,
	minWithdrawal float64,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if gatewayTimeout <= 0 {
		gatewayTimeout = 10 * time.Second
	}
	return &Service{
		contests:       contests,
		users:          users,
		payments:       payments,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
		minWithdrawal:  minWithdrawal,
		loggerf:        loggerf,
	}
}

// -------------------- Registration --------------------

// CreateIntent opens the entry-fee charge for a contest registration. With no
// gateway configured it returns the test-mode sentinel and writes no ledger
// row; Confirm creates the row in that case.
func (s *Service) CreateIntent(ctx context.Context, contestID, userID int64) (*IntentResponse, error) {
	c, err := s.getContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContestApproved {
		return nil, ErrInvalidState
	}
	if !c.Deadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	registered, err := s.contests.IsParticipant(ctx, contestID, userID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	if s.gateway == nil {
		return &IntentResponse{TestMode: true, Amount: c.Price}, nil
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	intent, err := s.gateway.CreateIntent(gctx, c.Price, map[string]string{
		"contest_id": strconv.FormatInt(contestID, 10),
		"user_id":    strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("open charge: %w", err)
	}

	p := &domain.Payment{
		ContestID:   &contestID,
		UserID:      userID,
		Amount:      c.Price,
		Type:        domain.PaymentEntryFee,
		Status:      domain.PaymentStatusPending,
		ExternalRef: intent.ID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	return &IntentResponse{ClientSecret: intent.ClientSecret, IntentID: intent.ID, Amount: c.Price}, nil
}

// Confirm completes a registration after payment. It may be retried: the
// fresh already-registered read and the add-to-set participant insert make a
// replay converge on the conflict error instead of a duplicated slot, and the
// counter increments are issued only on the one effective transition. Test
// mode is the server-side nil-gateway condition, never a client flag: with a
// gateway configured every confirm must verify its charge.
func (s *Service) Confirm(ctx context.Context, contestID, userID int64, intentID string, testMode bool) (*domain.Contest, error) {
	c, err := s.getContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContestApproved {
		return nil, ErrInvalidState
	}

	// guard re-read immediately before the write
	registered, err := s.contests.IsParticipant(ctx, contestID, userID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	if s.gateway != nil {
		if testMode {
			// a test-mode confirm cannot stand in for a real charge
			return nil, ErrPaymentNotCompleted
		}

		p, err := s.payments.GetByExternalRef(ctx, intentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrPaymentNotCompleted
			}
			return nil, err
		}

		gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
		succeeded, err := s.gateway.VerifyIntent(gctx, intentID)
		cancel()
		if err != nil {
			// fail closed: no registration without a confirmed charge
			return nil, fmt.Errorf("verify charge: %w", err)
		}
		if !succeeded {
			return nil, ErrPaymentNotCompleted
		}

		if p.Status != domain.PaymentStatusSucceeded {
			if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentStatusSucceeded); err != nil {
				return nil, err
			}
		}
	}

	// add-to-set: the composite unique index makes a replayed confirm a
	// conflict, not a duplicate slot
	if err := s.contests.AddParticipant(ctx, contestID, userID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	if s.gateway == nil {
		// the test-mode ledger row follows the won insert so the loser of a
		// concurrent confirm leaves nothing behind
		p := &domain.Payment{
			ContestID:   &contestID,
			UserID:      userID,
			Amount:      c.Price,
			Type:        domain.PaymentEntryFee,
			Status:      domain.PaymentStatusSucceeded,
			ExternalRef: TestModeRef + ":" + uuid.NewString(),
		}
		if err := s.payments.Create(ctx, p); err != nil {
			// registration committed; the ledger write must not be lost
			s.loggerf("level=error msg=entry fee ledger write failed contest_id=%d user_id=%d err=%v", contestID, userID, err)
			return nil, err
		}
	}

	if err := s.contests.IncrementParticipants(ctx, contestID); err != nil {
		return nil, err
	}
	if err := s.users.IncrementParticipated(ctx, userID); err != nil {
		return nil, err
	}

	return s.getContest(ctx, contestID)
}

// -------------------- Withdrawal --------------------

// Withdraw converts balance into an external payout request. The instrument
// is verified before any debit, and the debit itself is conditioned on the
// balance still covering the amount, closing the check-then-debit race.
func (s *Service) Withdraw(ctx context.Context, userID int64, req WithdrawRequest) (*WithdrawResponse, error) {
	if req.Amount < s.minWithdrawal {
		return nil, ErrBelowMinimum
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Amount > user.Balance {
		return nil, ErrInsufficientBalance
	}

	externalRef := TestModeRef + ":" + uuid.NewString()
	if s.gateway != nil {
		gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
		ref, err := s.gateway.VerifyWithdrawal(gctx, req.Method, req.AccountDetails)
		cancel()
		if err != nil {
			s.loggerf("level=warn msg=withdrawal verification failed user_id=%d err=%v", userID, err)
			return nil, ErrVerificationFailed
		}
		externalRef = ref
	}

	ok, err := s.users.DebitBalance(ctx, userID, req.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientBalance
	}

	p := &domain.Payment{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        domain.PaymentWithdrawal,
		Status:      domain.PaymentStatusSucceeded,
		ExternalRef: externalRef,
		Method:      req.Method,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		// balance already debited; the ledger write must not be lost
		s.loggerf("level=error msg=withdrawal ledger write failed user_id=%d amount=%.2f err=%v", userID, req.Amount, err)
		return nil, err
	}

	fresh, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WithdrawResponse{NewBalance: fresh.Balance, PaymentID: p.ID.String()}, nil
}

// ListMine returns the caller's ledger entries, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64, page, limit int) ([]domain.Payment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.payments.ListByUser(ctx, userID, limit, (page-1)*limit)
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
