package evaluation

import (
	"fmt"
	"strings"
	"time"
)

// Reasons an evaluation run cannot produce any result.
const (
	ReasonInvalidRequest = "invalid request"
	ReasonNoPriceHistory = "no price history on or before purchase date"
	ReasonNoExpirations  = "no expirations in window"
	ReasonNoCandidates   = "no candidates in band for any expiration"
)

// InputDataError aborts a run because the inputs cannot yield any row.
type InputDataError struct {
	Reason   string
	Detail   string
	Warnings []ExpirationWarning
}

func (e *InputDataError) Error() string {
	if e.Detail == "" {
		return "insufficient input data: " + e.Reason
	}
	return fmt.Sprintf("insufficient input data: %s: %s", e.Reason, e.Detail)
}

// SkipReason says why an expiration produced no rows.
type SkipReason string

const (
	SkipFetchFailed SkipReason = "fetch_failed"
	SkipEmptyChain  SkipReason = "empty_chain"
	SkipEmptyBand   SkipReason = "empty_band"
)

// ExpirationError is a recoverable failure confined to one expiration.
type ExpirationError struct {
	Expiration time.Time
	Reason     SkipReason
	Err        error
}

func (e *ExpirationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "expiration %s skipped: %s", e.Expiration.Format("2006-01-02"), e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ExpirationError) Unwrap() error {
	return e.Err
}

// Warning converts the error into its reportable form.
func (e *ExpirationError) Warning() ExpirationWarning {
	return ExpirationWarning{
		Expiration: e.Expiration,
		Reason:     e.Reason,
		Message:    e.Error(),
	}
}

// ExpirationWarning reports a skipped expiration in a result.
type ExpirationWarning struct {
	Expiration time.Time  `json:"expiration"`
	Reason     SkipReason `json:"reason"`
	Message    string     `json:"message"`
}
