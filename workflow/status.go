// Package workflow defines the referral request lifecycle: the status
// graph, the role authorization table, and the pure transition decision
// function. Persistence and HTTP live elsewhere; everything in this
// package is side-effect free so both the mentor and student surfaces
// consume one canonical table instead of re-deriving it.
package workflow

import "fmt"

// Status is the workflow position of a referral request, stored as the
// status column on the aggregate.
type Status string

const (
	StatusInitiated           Status = "INITIATED"
	StatusResumeReview        Status = "RESUME_REVIEW"
	StatusChangesRequested    Status = "CHANGES_REQUESTED"
	StatusApprovedForReferral Status = "APPROVED_FOR_REFERRAL"
	StatusReferralSent        Status = "REFERRAL_SENT"
	StatusUnderReview         Status = "UNDER_REVIEW"
	StatusReferralAccepted    Status = "REFERRAL_ACCEPTED"
	StatusReferralRejected    Status = "REFERRAL_REJECTED"
	StatusPaymentPending      Status = "PAYMENT_PENDING"
	StatusCompleted           Status = "COMPLETED"
)

// validTransitions lists every allowed (from -> to) pair.
var validTransitions = map[Status][]Status{
	StatusInitiated:           {StatusResumeReview},
	StatusResumeReview:        {StatusChangesRequested, StatusApprovedForReferral},
	StatusChangesRequested:    {StatusResumeReview},
	StatusApprovedForReferral: {StatusReferralSent},
	StatusReferralSent:        {StatusUnderReview, StatusReferralAccepted, StatusReferralRejected, StatusCompleted},
	StatusUnderReview:         {StatusReferralAccepted, StatusReferralRejected},
	StatusReferralAccepted:    {StatusPaymentPending, StatusCompleted},
	StatusPaymentPending:      {StatusCompleted},
	// COMPLETED and REFERRAL_REJECTED are terminal, no outgoing transitions.
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusInitiated, StatusResumeReview, StatusChangesRequested,
		StatusApprovedForReferral, StatusReferralSent, StatusUnderReview,
		StatusReferralAccepted, StatusReferralRejected,
		StatusPaymentPending, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown referral request status %q", s)
}

// IsTransitionAllowed returns true when moving from -> to is permitted by
// the status graph, before any role or precondition check.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
