package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []Status {
	return []Status{
		StatusInitiated, StatusResumeReview, StatusChangesRequested,
		StatusApprovedForReferral, StatusReferralSent, StatusUnderReview,
		StatusReferralAccepted, StatusReferralRejected,
		StatusPaymentPending, StatusCompleted,
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses() {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("SHIPPED")
	assert.Error(t, err)
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusReferralRejected))

	for _, to := range allStatuses() {
		assert.False(t, IsTransitionAllowed(StatusCompleted, to))
		assert.False(t, IsTransitionAllowed(StatusReferralRejected, to))
	}
}

func TestDecideRejectsEveryEdgeOutsideTheTable(t *testing.T) {
	ctx := Context{
		Actor:             RoleMentor,
		InitiationFeePaid: true,
		FinalFeePaid:      true,
		FinalFeeAmountSet: true,
		ChangesRequested:  "tighten the summary",
		Feedback:          "looks solid",
		ProofRef:          "https://cdn.example.com/proof.png",
		ResumeRef:         "https://cdn.example.com/resume-v2.pdf",
	}

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			if IsTransitionAllowed(from, to) {
				continue
			}
			_, err := Decide(from, to, ctx)
			require.Error(t, err, "%s -> %s must be rejected", from, to)
			var invalidErr *InvalidTransitionError
			assert.ErrorAs(t, err, &invalidErr, "%s -> %s", from, to)
		}
	}
}

func TestNoUserRoleMayRequestCompleted(t *testing.T) {
	assert.False(t, CanPerform(RoleStudent, StatusCompleted))
	assert.False(t, CanPerform(RoleMentor, StatusCompleted))
	assert.True(t, CanPerform(RoleSystem, StatusCompleted))
}

func TestDecideInitiationFeeGate(t *testing.T) {
	_, err := Decide(StatusInitiated, StatusResumeReview, Context{Actor: RoleStudent})
	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)

	out, err := Decide(StatusInitiated, StatusResumeReview, Context{Actor: RoleStudent, InitiationFeePaid: true})
	require.NoError(t, err)
	assert.Equal(t, StatusResumeReview, out.NewStatus)
}

func TestDecideActorRoleIsEnforced(t *testing.T) {
	// The edge exists, but a student may never request a review outcome.
	_, err := Decide(StatusResumeReview, StatusApprovedForReferral, Context{Actor: RoleStudent})
	var authzErr *AuthorizationError
	assert.ErrorAs(t, err, &authzErr)

	// System never drives user-facing review steps either.
	_, err = Decide(StatusResumeReview, StatusApprovedForReferral, Context{Actor: RoleSystem})
	assert.ErrorAs(t, err, &authzErr)
}

func TestDecideChangesRequestedNeedsText(t *testing.T) {
	ctx := Context{Actor: RoleMentor, ChangesRequested: "   "}
	_, err := Decide(StatusResumeReview, StatusChangesRequested, ctx)
	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)

	ctx.ChangesRequested = "Add metrics"
	out, err := Decide(StatusResumeReview, StatusChangesRequested, ctx)
	require.NoError(t, err)
	assert.True(t, out.SetChangesRequested)
}

func TestDecideResubmissionNeedsFreshResume(t *testing.T) {
	_, err := Decide(StatusChangesRequested, StatusResumeReview, Context{Actor: RoleStudent, InitiationFeePaid: true})
	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)

	out, err := Decide(StatusChangesRequested, StatusResumeReview, Context{
		Actor:             RoleStudent,
		InitiationFeePaid: true,
		ResumeRef:         "https://cdn.example.com/resume-v2.pdf",
	})
	require.NoError(t, err)
	assert.True(t, out.SetResume)
	assert.True(t, out.ClearChangesRequested)
}

func TestDecideReferralSentNeedsProofAndFee(t *testing.T) {
	ctx := Context{Actor: RoleMentor, FinalFeeAmountSet: true}
	_, err := Decide(StatusApprovedForReferral, StatusReferralSent, ctx)
	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)

	ctx.ProofRef = "https://cdn.example.com/referral.png"
	ctx.FinalFeeAmountSet = false
	_, err = Decide(StatusApprovedForReferral, StatusReferralSent, ctx)
	require.ErrorAs(t, err, &precondErr)

	ctx.FinalFeeAmount = 199900
	out, err := Decide(StatusApprovedForReferral, StatusReferralSent, ctx)
	require.NoError(t, err)
	assert.True(t, out.SetReferralProof)
	assert.Equal(t, int64(199900), out.SetFinalFeeAmount)
}

func TestDecideOutcomeNeedsAcceptanceProof(t *testing.T) {
	var precondErr *PreconditionError
	for _, target := range []Status{StatusReferralAccepted, StatusReferralRejected} {
		_, err := Decide(StatusReferralSent, target, Context{Actor: RoleMentor})
		require.ErrorAs(t, err, &precondErr, "%s without proof", target)

		out, err := Decide(StatusReferralSent, target, Context{
			Actor:    RoleMentor,
			ProofRef: "https://cdn.example.com/offer-letter.png",
		})
		require.NoError(t, err)
		assert.True(t, out.SetAcceptanceProof)
	}

	// A proof recorded on a previous attempt still satisfies the gate.
	out, err := Decide(StatusUnderReview, StatusReferralAccepted, Context{
		Actor:              RoleMentor,
		AcceptanceProofSet: true,
	})
	require.NoError(t, err)
	assert.False(t, out.SetAcceptanceProof)
}

func TestDecideCompletionRequiresFinalFee(t *testing.T) {
	var precondErr *PreconditionError
	_, err := Decide(StatusReferralAccepted, StatusCompleted, Context{Actor: RoleSystem})
	require.ErrorAs(t, err, &precondErr)

	out, err := Decide(StatusReferralAccepted, StatusCompleted, Context{Actor: RoleSystem, FinalFeePaid: true})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, out.NewStatus)

	// The sweep only parks requests that are still owed money.
	_, err = Decide(StatusReferralAccepted, StatusPaymentPending, Context{Actor: RoleSystem, FinalFeePaid: true})
	require.ErrorAs(t, err, &precondErr)
}
