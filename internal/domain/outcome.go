package domain

import "fmt"

// OutcomeStatus tells a genuine computation apart from a fallback estimate.
type OutcomeStatus string

const (
	StatusOK       OutcomeStatus = "ok"
	StatusDegraded OutcomeStatus = "degraded"
)

// Outcome is the tagged result of a top-level simulation request.
// A degraded outcome carries a rough estimate and the reason the real projection failed.
type Outcome struct {
	Status     OutcomeStatus `json:"status"`
	Projection Projection    `json:"projection"`
	Reason     string        `json:"reason,omitempty"`
}

// Ok wraps a computed projection.
func Ok(p Projection) Outcome {
	return Outcome{Status: StatusOK, Projection: p}
}

// Degraded wraps a fallback projection with the failure reason.
func Degraded(fallback Projection, reason string) Outcome {
	return Outcome{Status: StatusDegraded, Projection: fallback, Reason: reason}
}

// IsDegraded reports whether the projection is a fallback estimate.
func (o Outcome) IsDegraded() bool {
	return o.Status == StatusDegraded
}

// WarningCode classifies a non-fatal input problem.
type WarningCode string

const (
	WarningClamped            WarningCode = "clamped"
	WarningAllocationMismatch WarningCode = "allocation_mismatch"
	WarningUnknownState       WarningCode = "unknown_state"
	WarningDefaulted          WarningCode = "defaulted"
)

// Warning reports an input that was adjusted or looks inconsistent.
type Warning struct {
	Property string      `json:"property,omitempty"`
	Field    string      `json:"field"`
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	if w.Property != "" {
		return fmt.Sprintf("%s: %s: %s", w.Property, w.Field, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}
