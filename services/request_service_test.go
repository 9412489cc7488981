package services

import (
	"testing"

	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/mwangikelvin/referral_bridge/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReferralRequestSnapshotsFees(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)

	request := seedRequest(t, student.ID, offering)

	assert.Equal(t, string(workflow.StatusInitiated), request.Status)
	assert.Equal(t, mentor.ID, request.MentorID)
	assert.Equal(t, int64(9900), request.InitiationFee.Amount)
	assert.Equal(t, int64(199900), request.FinalFee.Amount)
	assert.False(t, request.InitiationFee.Paid)
	assert.False(t, request.FinalFee.Paid)
	require.NotNil(t, request.OfferingID)
	assert.Equal(t, offering.ID, *request.OfferingID)
}

func TestCreateReferralRequestRejectsInactiveOffering(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)
	require.NoError(t, SetOfferingActive(offering.ID, mentor.ID, false))

	_, err := CreateReferralRequest(student.ID, offering.ID, "Acme", "SRE", "", "https://cdn.example.com/resume.pdf", nil)
	assert.Error(t, err)
}

func TestStudentCannotLeaveInitiatedUnpaid(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))

	_, err := RequestTransition(request.ID, student.ID, workflow.RoleStudent, workflow.StatusResumeReview, TransitionPayload{})

	var precondErr *workflow.PreconditionError
	require.ErrorAs(t, err, &precondErr)
	assert.Equal(t, string(workflow.StatusInitiated), getRequest(t, request.ID).Status)
}

func TestStudentAdvancesOnceInitiationFeePaid(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))
	forceStatus(t, request.ID, workflow.StatusInitiated, map[string]interface{}{"initiation_fee_paid": true})

	updated, err := RequestTransition(request.ID, student.ID, workflow.RoleStudent, workflow.StatusResumeReview, TransitionPayload{})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusResumeReview), updated.Status)

	events, err := ListTimeline(request.ID, student.ID, workflow.RoleStudent)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(workflow.StatusInitiated), events[0].FromStatus)
	assert.Equal(t, string(workflow.StatusResumeReview), events[0].ToStatus)
	assert.Equal(t, "student", events[0].Actor)
}

func TestMentorChangesRequestedFlow(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))
	forceStatus(t, request.ID, workflow.StatusResumeReview, map[string]interface{}{"initiation_fee_paid": true})

	_, err := RequestTransition(request.ID, mentor.ID, workflow.RoleMentor, workflow.StatusChangesRequested, TransitionPayload{ChangesRequested: ""})
	var precondErr *workflow.PreconditionError
	require.ErrorAs(t, err, &precondErr)
	assert.Equal(t, string(workflow.StatusResumeReview), getRequest(t, request.ID).Status)

	updated, err := RequestTransition(request.ID, mentor.ID, workflow.RoleMentor, workflow.StatusChangesRequested, TransitionPayload{ChangesRequested: "Add metrics"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusChangesRequested), updated.Status)
	require.NotNil(t, updated.MentorChangesRequested)
	assert.Equal(t, "Add metrics", *updated.MentorChangesRequested)

	// Resubmission needs a fresh resume and clears the mentor's note.
	_, err = RequestTransition(request.ID, student.ID, workflow.RoleStudent, workflow.StatusResumeReview, TransitionPayload{})
	require.ErrorAs(t, err, &precondErr)

	updated, err = RequestTransition(request.ID, student.ID, workflow.RoleStudent, workflow.StatusResumeReview, TransitionPayload{ResumeRef: "https://cdn.example.com/resume-v2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusResumeReview), updated.Status)
	assert.Equal(t, "https://cdn.example.com/resume-v2.pdf", updated.ResumeURL)
	assert.Nil(t, updated.MentorChangesRequested)
}

func TestReferralSentRequiresProof(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))
	forceStatus(t, request.ID, workflow.StatusApprovedForReferral, map[string]interface{}{"initiation_fee_paid": true})

	_, err := RequestTransition(request.ID, mentor.ID, workflow.RoleMentor, workflow.StatusReferralSent, TransitionPayload{})
	var precondErr *workflow.PreconditionError
	require.ErrorAs(t, err, &precondErr)

	updated, err := RequestTransition(request.ID, mentor.ID, workflow.RoleMentor, workflow.StatusReferralSent, TransitionPayload{ProofRef: "https://cdn.example.com/referral.png"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusReferralSent), updated.Status)
	require.NotNil(t, updated.ReferralProofURL)
}

func TestTransitionsAreScopedToTheOwningParty(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))
	forceStatus(t, request.ID, workflow.StatusInitiated, map[string]interface{}{"initiation_fee_paid": true})

	intruder := models.User{FullName: "Someone Else", Email: "else@example.com", Password: "x", Role: "student", IsActive: true}
	require.NoError(t, database.DB.Create(&intruder).Error)

	_, err := RequestTransition(request.ID, intruder.ID, workflow.RoleStudent, workflow.StatusResumeReview, TransitionPayload{})
	assert.Error(t, err)
	assert.Equal(t, string(workflow.StatusInitiated), getRequest(t, request.ID).Status)
}

func TestInvalidEdgeLeavesAggregateUnchanged(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))

	_, err := RequestTransition(request.ID, mentor.ID, workflow.RoleMentor, workflow.StatusReferralAccepted, TransitionPayload{ProofRef: "https://cdn.example.com/offer.png"})
	var invalidErr *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)

	after := getRequest(t, request.ID)
	assert.Equal(t, string(workflow.StatusInitiated), after.Status)
	assert.Nil(t, after.AcceptanceProofURL)
}

func TestUpdateDocumentsOnlyWhileEditable(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	request := seedRequest(t, student.ID, seedOffering(t, mentor.ID))

	updated, err := UpdateDocuments(request.ID, student.ID, "https://cdn.example.com/resume-v2.pdf", nil, "Senior Backend Engineer", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/resume-v2.pdf", updated.ResumeURL)
	assert.Equal(t, "Senior Backend Engineer", updated.PositionName)

	forceStatus(t, request.ID, workflow.StatusReferralSent, nil)
	_, err = UpdateDocuments(request.ID, student.ID, "https://cdn.example.com/resume-v3.pdf", nil, "", "")
	var precondErr *workflow.PreconditionError
	require.ErrorAs(t, err, &precondErr)
	assert.Equal(t, "https://cdn.example.com/resume-v2.pdf", getRequest(t, request.ID).ResumeURL)
}
