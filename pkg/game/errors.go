package game

import (
	"errors"
	"fmt"
)

// Rule violation codes.
const (
	CodeNotYourTurn        = "not_your_turn"
	CodeWrongStatus        = "wrong_status"
	CodeWrongPhase         = "wrong_phase"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInvalidTarget      = "invalid_target"
	CodeInvalidDie         = "invalid_die"
	CodeAlreadyActed       = "already_acted"
	CodeLimitReached       = "limit_reached"
	CodePendingRetaliation = "pending_retaliation"
	CodeHouseExempt        = "house_exempt"
	CodeNotSeated          = "not_seated"
	CodeMustRoll           = "must_roll"
	CodeInvalidRequest     = "invalid_request"
)

// RuleError is an expected rejection of a request. It is reported to the
// requester as a warning and never changes state.
type RuleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func reject(code string, format string, args ...interface{}) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsRuleError unwraps a rule violation from err.
func AsRuleError(err error) (*RuleError, bool) {
	var rerr *RuleError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}
