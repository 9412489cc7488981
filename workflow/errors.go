package workflow

import "fmt"

// InvalidTransitionError is returned when the requested (from, to) pair is
// not an edge of the status graph. Never retried.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// AuthorizationError is returned when the actor role may never request the
// target status, regardless of the current state.
type AuthorizationError struct {
	Role Role
	To   Status
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed to request %s", e.Role, e.To)
}

// PreconditionError is returned when the edge exists but a required fee or
// artifact is missing. Missing names the specific requirement.
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return "precondition not met: " + e.Missing
}

// PaymentVerificationError is returned when the provider signature check
// fails. The order is left pending so a later webhook retry can succeed.
type PaymentVerificationError struct {
	Reason string
}

func (e *PaymentVerificationError) Error() string {
	return "payment verification failed: " + e.Reason
}

// PaymentGatewayError wraps a provider outage or rejected order creation.
// The user may retry by re-initiating payment; no state was changed.
type PaymentGatewayError struct {
	Err error
}

func (e *PaymentGatewayError) Error() string {
	return "payment gateway error: " + e.Err.Error()
}

func (e *PaymentGatewayError) Unwrap() error { return e.Err }

// ConcurrentModificationError is returned when a conditional write found
// the row in a different state than expected. Payment paths treat it as an
// idempotent success; manual transitions surface it as a conflict.
type ConcurrentModificationError struct {
	Expected Status
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("request no longer in state %s", e.Expected)
}

// UploadError wraps an artifact store failure; the transition that needed
// the artifact is aborted with no state change.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "artifact upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }
