// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
)

// ReasonCode classifies failures at the domain boundary. HTTP and logging
// layers key off these instead of matching error strings.
type ReasonCode string

const (
	RNone             ReasonCode = ""
	RInvalidInput     ReasonCode = "invalid_input"
	RSessionNotFound  ReasonCode = "session_not_found"
	RSessionExpired   ReasonCode = "session_expired"
	RInvalidSelection ReasonCode = "invalid_selection"
	RStoreFailure     ReasonCode = "store_failure"
	RInternal         ReasonCode = "internal"
)

// ReasonError carries a ReasonCode plus a human-readable detail.
type ReasonError struct {
	Reason ReasonCode
	Detail string
	Err    error
}

func (e *ReasonError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *ReasonError) Unwrap() error { return e.Err }

// NewReasonError builds a reason-coded error.
func NewReasonError(reason ReasonCode, detail string, err error) error {
	return &ReasonError{Reason: reason, Detail: detail, Err: err}
}

// ReasonOf extracts the reason code from err, or RInternal if it carries none.
func ReasonOf(err error) ReasonCode {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason
	}
	return RInternal
}

// DegradedStage names a pipeline stage that ran in fallback mode. Degradation
// is not an error: it is reported alongside results.
type DegradedStage string

const (
	DegradedVerification DegradedStage = "verification"
	DegradedQualityOff   DegradedStage = "quality_filter_off"
	DegradedReasoning    DegradedStage = "reasoning"
	DegradedExplanation  DegradedStage = "explanation"
)

// EmptyReason explains why a shortlist came back empty. Not an error.
type EmptyReason string

const (
	EmptyNone             EmptyReason = ""
	EmptyNoPOIs           EmptyReason = "no_pois"
	EmptyInsufficientTime EmptyReason = "insufficient_time"
	EmptyAllFiltered      EmptyReason = "all_filtered"
)
