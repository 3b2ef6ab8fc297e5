// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldPOIID     = "poi_id"

	// Pipeline fields
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldCity      = "city"
	FieldRegion    = "region"

	// Outcome fields
	FieldOutcome    = "outcome"
	FieldCandidates = "candidates"
	FieldDropped    = "dropped"
)
