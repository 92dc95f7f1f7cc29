package payment

import "context"

// TestModeRef marks ledger rows written without an external charge, when no
// gateway is configured. Confirm skips charge verification for these.
const TestModeRef = "test_mode"

// Intent is an opened charge at the payment collaborator.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway is the external payment collaborator. The engine only consumes a
// "payment succeeded" assertion; card tokenization and the actual money
// movement live entirely on the other side. All calls are made with a bounded
// timeout, and a timeout leaves local state unchanged.
type Gateway interface {
	// CreateIntent opens a charge for amount and returns its reference.
	CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (*Intent, error)

	// VerifyIntent reports whether the referenced charge reached a
	// succeeded state.
	VerifyIntent(ctx context.Context, intentID string) (bool, error)

	// VerifyWithdrawal validates the payout instrument and returns the
	// external transfer reference. Called before any balance debit.
	VerifyWithdrawal(ctx context.Context, method, accountDetails string) (string, error)
}
