package payment

type CreateIntentRequest struct {
	ContestID int64 `json:"contest_id" binding:"required"`
}

type IntentResponse struct {
	ClientSecret string  `json:"client_secret,omitempty"`
	IntentID     string  `json:"intent_id,omitempty"`
	TestMode     bool    `json:"test_mode,omitempty"`
	Amount       float64 `json:"amount"`
}

type ConfirmRequest struct {
	ContestID       int64  `json:"contest_id" binding:"required"`
	PaymentIntentID string `json:"payment_intent_id"`
	TestMode        bool   `json:"test_mode"`
}

type WithdrawRequest struct {
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Method         string  `json:"method" binding:"required"`
	AccountDetails string  `json:"account_details" binding:"required"`
}

type WithdrawResponse struct {
	NewBalance float64 `json:"new_balance"`
	PaymentID  string  `json:"payment_id"`
}
