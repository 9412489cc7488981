package jobs

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/mwangikelvin/referral_bridge/notifications"
	"github.com/mwangikelvin/referral_bridge/services"
	"github.com/mwangikelvin/referral_bridge/workflow"
)

// SweepAcceptedRequests moves accepted requests forward: unpaid final fees
// go to PAYMENT_PENDING, fees that were settled while the request sat in
// UNDER_REVIEW finish the request. Each row moves through the regular
// transition path, so a user action racing the sweep just wins the
// conditional write.
func SweepAcceptedRequests() {
	var requests []models.ReferralRequest
	err := database.DB.
		Where("status = ?", string(workflow.StatusReferralAccepted)).
		Find(&requests).Error
	if err != nil {
		log.Printf("🔥 Accepted-request sweep query failed: %v", err)
		return
	}

	for _, request := range requests {
		target := workflow.StatusPaymentPending
		if request.FinalFee.Paid {
			target = workflow.StatusCompleted
		}
		_, err := services.RequestTransition(request.ID, uuid.Nil, workflow.RoleSystem, target, services.TransitionPayload{})
		if err != nil {
			var conflict *workflow.ConcurrentModificationError
			if errors.As(err, &conflict) {
				continue
			}
			log.Printf("🔥 Sweep failed to move request %s to %s: %v", request.ID, target, err)
		}
	}
}

// SendPaymentReminders mails students whose request has been waiting on
// the final fee for a day. The window matches the sweep cadence so each
// request is reminded once.
func SendPaymentReminders() {
	cutoff := time.Now().Add(-24 * time.Hour)
	window := cutoff.Add(-5 * time.Minute)

	var requests []models.ReferralRequest
	err := database.DB.Preload("Student").
		Where("status = ? AND updated_at BETWEEN ? AND ?", string(workflow.StatusPaymentPending), window, cutoff).
		Find(&requests).Error
	if err != nil {
		log.Printf("🔥 Payment reminder query failed: %v", err)
		return
	}

	for _, request := range requests {
		body := fmt.Sprintf(
			"<h1>Final Fee Due</h1><p>Your referral for <b>%s</b> at <b>%s</b> was accepted. Please settle the final fee to complete the request.</p>",
			request.PositionName, request.CompanyName)
		go notifications.SendEmail(request.Student.FullName, request.Student.Email, "Action needed: final referral fee", body)
	}
}
