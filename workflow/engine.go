package workflow

import "strings"

// Context is the snapshot of a referral request plus the caller's payload
// that Decide needs. The caller loads the aggregate, fills this in, and
// applies the returned Outcome under a conditional write keyed on the
// current status.
type Context struct {
	Actor Role

	InitiationFeePaid  bool
	FinalFeePaid       bool
	FinalFeeAmountSet  bool
	AcceptanceProofSet bool

	// Payload fields supplied with the transition request.
	Feedback         string
	ChangesRequested string
	ProofRef         string
	ResumeRef        string
	FinalFeeAmount   int64
}

// Outcome lists the field effects the caller must persist in the same
// conditional write that flips the status.
type Outcome struct {
	NewStatus Status

	SetFeedback           bool
	SetChangesRequested   bool
	ClearChangesRequested bool
	SetResume             bool
	SetReferralProof      bool
	SetAcceptanceProof    bool
	SetFinalFeeAmount     int64 // applied when > 0
}

// Decide validates a requested transition against the status graph, the
// role table, and the per-edge preconditions. It is a pure function: it
// never touches storage, and a nil error means the caller may attempt the
// conditional write described by the Outcome.
func Decide(current, requested Status, ctx Context) (Outcome, error) {
	if !IsTransitionAllowed(current, requested) {
		return Outcome{}, &InvalidTransitionError{From: current, To: requested}
	}
	if !CanPerform(ctx.Actor, requested) {
		return Outcome{}, &AuthorizationError{Role: ctx.Actor, To: requested}
	}

	out := Outcome{NewStatus: requested}

	switch requested {
	case StatusResumeReview:
		if current == StatusInitiated {
			if !ctx.InitiationFeePaid {
				return Outcome{}, &PreconditionError{Missing: "initiation fee not paid"}
			}
			return out, nil
		}
		// Resubmission after changes were requested needs a fresh resume.
		if strings.TrimSpace(ctx.ResumeRef) == "" {
			return Outcome{}, &PreconditionError{Missing: "updated resume"}
		}
		out.SetResume = true
		out.ClearChangesRequested = true
		return out, nil

	case StatusChangesRequested:
		if strings.TrimSpace(ctx.ChangesRequested) == "" {
			return Outcome{}, &PreconditionError{Missing: "requested changes text"}
		}
		out.SetChangesRequested = true
		return out, nil

	case StatusApprovedForReferral:
		if ctx.Feedback != "" {
			out.SetFeedback = true
		}
		return out, nil

	case StatusReferralSent:
		if strings.TrimSpace(ctx.ProofRef) == "" {
			return Outcome{}, &PreconditionError{Missing: "referral proof"}
		}
		if !ctx.FinalFeeAmountSet && ctx.FinalFeeAmount <= 0 {
			return Outcome{}, &PreconditionError{Missing: "final fee amount"}
		}
		out.SetReferralProof = true
		if ctx.FinalFeeAmount > 0 {
			out.SetFinalFeeAmount = ctx.FinalFeeAmount
		}
		return out, nil

	case StatusUnderReview:
		return out, nil

	case StatusReferralAccepted, StatusReferralRejected:
		if strings.TrimSpace(ctx.ProofRef) == "" && !ctx.AcceptanceProofSet {
			return Outcome{}, &PreconditionError{Missing: "acceptance proof"}
		}
		if ctx.ProofRef != "" {
			out.SetAcceptanceProof = true
		}
		return out, nil

	case StatusPaymentPending:
		if ctx.FinalFeePaid {
			return Outcome{}, &PreconditionError{Missing: "unpaid final fee (already settled)"}
		}
		return out, nil

	case StatusCompleted:
		if !ctx.FinalFeePaid {
			return Outcome{}, &PreconditionError{Missing: "final fee not paid"}
		}
		return out, nil
	}

	// Unreachable while the table and this switch stay in sync.
	return Outcome{}, &InvalidTransitionError{From: current, To: requested}
}
