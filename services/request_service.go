package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/mwangikelvin/referral_bridge/notifications"
	"github.com/mwangikelvin/referral_bridge/websocket"
	"github.com/mwangikelvin/referral_bridge/workflow"
	"gorm.io/gorm"
)

// TransitionPayload carries the optional fields an actor may attach to a
// transition request.
type TransitionPayload struct {
	Feedback         string
	ChangesRequested string
	ProofRef         string
	ResumeRef        string
	FinalFeeAmount   int64
}

// CreateReferralRequest opens a new request against an active offering.
// Fee amounts are copied from the offering at creation time, so later
// edits or deletion of the offering never change what this student owes.
func CreateReferralRequest(studentID, offeringID uuid.UUID, companyName, positionName, jobLink, resumeURL string, coverLetterURL *string) (*models.ReferralRequest, error) {
	var offering models.ReferralOffering
	if err := database.DB.First(&offering, "id = ? AND is_active = ?", offeringID, true).Error; err != nil {
		return nil, err
	}

	offRef := offering.ID
	request := models.ReferralRequest{
		StudentID:      studentID,
		MentorID:       offering.MentorID,
		OfferingID:     &offRef,
		CompanyName:    companyName,
		PositionName:   positionName,
		JobLink:        jobLink,
		ResumeURL:      resumeURL,
		CoverLetterURL: coverLetterURL,
		Status:         string(workflow.StatusInitiated),
		Currency:       offering.Currency,
		InitiationFee:  models.FeeRecord{Amount: offering.InitiationFeeAmount},
		FinalFee:       models.FeeRecord{Amount: offering.FinalFeeAmount},
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// loadScoped fetches a request visible to the acting party. Students and
// mentors only ever see their own requests; the system path is unscoped.
func loadScoped(requestID, actorID uuid.UUID, role workflow.Role) (*models.ReferralRequest, error) {
	q := database.DB
	switch role {
	case workflow.RoleStudent:
		q = q.Where("student_id = ?", actorID)
	case workflow.RoleMentor:
		q = q.Where("mentor_id = ?", actorID)
	}
	var request models.ReferralRequest
	if err := q.First(&request, "id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// RequestTransition runs one lifecycle step: authorize, decide, then apply
// the outcome under a conditional write keyed on the status the decision
// was made against. A lost race surfaces as ConcurrentModificationError.
func RequestTransition(requestID, actorID uuid.UUID, role workflow.Role, target workflow.Status, p TransitionPayload) (*models.ReferralRequest, error) {
	request, err := loadScoped(requestID, actorID, role)
	if err != nil {
		return nil, err
	}

	current := workflow.Status(request.Status)
	ctx := workflow.Context{
		Actor:              role,
		InitiationFeePaid:  request.InitiationFee.Paid,
		FinalFeePaid:       request.FinalFee.Paid,
		FinalFeeAmountSet:  request.FinalFee.Amount > 0,
		AcceptanceProofSet: request.AcceptanceProofURL != nil && *request.AcceptanceProofURL != "",
		Feedback:           p.Feedback,
		ChangesRequested:   p.ChangesRequested,
		ProofRef:           p.ProofRef,
		ResumeRef:          p.ResumeRef,
		FinalFeeAmount:     p.FinalFeeAmount,
	}

	outcome, err := workflow.Decide(current, target, ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":     string(outcome.NewStatus),
		"updated_at": time.Now(),
	}
	if outcome.SetFeedback {
		updates["mentor_feedback"] = p.Feedback
	}
	if outcome.SetChangesRequested {
		updates["mentor_changes_requested"] = p.ChangesRequested
	}
	if outcome.ClearChangesRequested {
		updates["mentor_changes_requested"] = nil
	}
	if outcome.SetResume {
		updates["resume_url"] = p.ResumeRef
	}
	if outcome.SetReferralProof {
		updates["referral_proof_url"] = p.ProofRef
	}
	if outcome.SetAcceptanceProof {
		updates["acceptance_proof_url"] = p.ProofRef
	}
	if outcome.SetFinalFeeAmount > 0 {
		updates["final_fee_amount"] = outcome.SetFinalFeeAmount
	}

	res := database.DB.Model(&models.ReferralRequest{}).
		Where("id = ? AND status = ?", request.ID, string(current)).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &workflow.ConcurrentModificationError{Expected: current}
	}

	recordTransition(request, current, outcome.NewStatus, role, nil)

	if err := database.DB.First(request, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// UpdateDocuments lets the student refresh the target-job metadata and
// document references while the request is still editable.
func UpdateDocuments(requestID, studentID uuid.UUID, resumeRef string, coverLetterRef *string, positionName, jobLink string) (*models.ReferralRequest, error) {
	request, err := loadScoped(requestID, studentID, workflow.RoleStudent)
	if err != nil {
		return nil, err
	}

	current := workflow.Status(request.Status)
	if current != workflow.StatusInitiated && current != workflow.StatusChangesRequested {
		return nil, &workflow.PreconditionError{Missing: "editable status (INITIATED or CHANGES_REQUESTED)"}
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if resumeRef != "" {
		updates["resume_url"] = resumeRef
	}
	if coverLetterRef != nil {
		updates["cover_letter_url"] = *coverLetterRef
	}
	if positionName != "" {
		updates["position_name"] = positionName
	}
	if jobLink != "" {
		updates["job_link"] = jobLink
	}

	res := database.DB.Model(&models.ReferralRequest{}).
		Where("id = ? AND status IN ?", request.ID, []string{string(workflow.StatusInitiated), string(workflow.StatusChangesRequested)}).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &workflow.ConcurrentModificationError{Expected: current}
	}

	if err := database.DB.First(request, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// GetRequest returns a single request visible to the acting party.
func GetRequest(requestID, actorID uuid.UUID, role workflow.Role) (*models.ReferralRequest, error) {
	return loadScoped(requestID, actorID, role)
}

func ListRequestsForStudent(studentID uuid.UUID) ([]models.ReferralRequest, error) {
	var requests []models.ReferralRequest
	err := database.DB.Preload("Mentor").Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func ListRequestsForMentor(mentorID uuid.UUID) ([]models.ReferralRequest, error) {
	var requests []models.ReferralRequest
	err := database.DB.Preload("Student").Where("mentor_id = ?", mentorID).
		Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// ListTimeline returns the audit trail of a request the actor can see.
func ListTimeline(requestID, actorID uuid.UUID, role workflow.Role) ([]models.RequestTimelineEvent, error) {
	if _, err := loadScoped(requestID, actorID, role); err != nil {
		return nil, err
	}
	var events []models.RequestTimelineEvent
	err := database.DB.Where("request_id = ?", requestID).
		Order("created_at ASC").Find(&events).Error
	return events, err
}

// recordTransition appends the audit entry and informs both parties. The
// notification side is fire-and-forget; a mail or socket failure never
// rolls back a transition that already committed.
func recordTransition(request *models.ReferralRequest, from, to workflow.Status, actor workflow.Role, note *string) {
	event := models.RequestTimelineEvent{
		RequestID:  request.ID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Actor:      string(actor),
		Note:       note,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		log.Printf("🔥 Failed to append timeline for request %s: %v", request.ID, err)
	}

	go notifyTransition(request.ID, to)

	if to == workflow.StatusCompleted {
		go GenerateCompletionReceipt(request.ID)
		go IncrementOfferingSuccess(request.OfferingID)
	}
}

func notifyTransition(requestID uuid.UUID, newStatus workflow.Status) {
	var request models.ReferralRequest
	if err := database.DB.Preload("Student").Preload("Mentor").First(&request, "id = ?", requestID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("🔥 Failed to load request %s for notification: %v", requestID, err)
		}
		return
	}

	websocket.PushTransition(request.StudentID, requestID, string(newStatus))
	websocket.PushTransition(request.MentorID, requestID, string(newStatus))

	subject := fmt.Sprintf("Referral request update: %s", newStatus)
	body := fmt.Sprintf("<h1>Status Update</h1><p>Your referral request for <b>%s</b> at <b>%s</b> moved to <b>%s</b>.</p>",
		request.PositionName, request.CompanyName, newStatus)
	notifications.SendEmail(request.Student.FullName, request.Student.Email, subject, body)
	notifications.SendEmail(request.Mentor.FullName, request.Mentor.Email, subject, body)
}
