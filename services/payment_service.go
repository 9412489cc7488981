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
	"github.com/mwangikelvin/referral_bridge/payments"
	"github.com/mwangikelvin/referral_bridge/websocket"
	"github.com/mwangikelvin/referral_bridge/workflow"
	"gorm.io/gorm"
)

const (
	FeeInitiation = "initiation"
	FeeFinal      = "final"
)

// finalFeeDueStatuses are the states in which the final fee may be ordered
// and settled. Settling it from a completable state also finishes the
// request; see applyVerifiedPayment.
var finalFeeDueStatuses = []string{
	string(workflow.StatusReferralSent),
	string(workflow.StatusUnderReview),
	string(workflow.StatusReferralAccepted),
	string(workflow.StatusPaymentPending),
}

var finalFeeCompletableStatuses = []string{
	string(workflow.StatusReferralSent),
	string(workflow.StatusReferralAccepted),
	string(workflow.StatusPaymentPending),
}

// VerificationPayload is the signed result the checkout page posts back
// after a successful payment.
type VerificationPayload struct {
	OrderID   string
	PaymentID string
	Signature string
}

// CreatePaymentOrder creates (or re-issues) a provider order for one of
// the two fees. Ordering an already-paid fee is an idempotent no-op that
// returns the request as is with no new order.
func CreatePaymentOrder(requestID, studentID uuid.UUID, kind string) (*models.ReferralRequest, *payments.RazorpayOrder, error) {
	if kind != FeeInitiation && kind != FeeFinal {
		return nil, nil, fmt.Errorf("unknown fee kind %q", kind)
	}

	request, err := loadScoped(requestID, studentID, workflow.RoleStudent)
	if err != nil {
		return nil, nil, err
	}

	fee := request.FeeByKind(kind)
	if fee.Paid {
		return request, nil, nil
	}
	if fee.Amount <= 0 {
		return nil, nil, &workflow.PreconditionError{Missing: kind + " fee amount"}
	}
	if kind == FeeFinal && !statusIn(request.Status, finalFeeDueStatuses) {
		return nil, nil, &workflow.PreconditionError{Missing: "referral sent (final fee not yet due)"}
	}

	receipt := fmt.Sprintf("%s-%s", kind, request.ID)
	order, err := payments.CreateRazorpayOrder(fee.Amount, request.Currency, receipt, map[string]string{
		"request_id": request.ID.String(),
		"fee":        kind,
	})
	if err != nil {
		return nil, nil, &workflow.PaymentGatewayError{Err: err}
	}

	// The order ref only moves forward while the fee is unpaid; a webhook
	// that already settled the fee wins the race and keeps its ref.
	column := kind + "_fee_order_ref"
	paidColumn := kind + "_fee_paid"
	res := database.DB.Model(&models.ReferralRequest{}).
		Where("id = ? AND "+paidColumn+" = ?", request.ID, false).
		Update(column, order.ID)
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := database.DB.First(request, "id = ?", request.ID).Error; err != nil {
			return nil, nil, err
		}
		return request, nil, nil
	}

	ref := order.ID
	fee.OrderRef = &ref
	return request, order, nil
}

// ApplyPaymentVerification handles the checkout callback path: validate
// the signed payload against the stored order, then settle the fee. Safe
// to call any number of times for the same payment.
func ApplyPaymentVerification(requestID uuid.UUID, kind string, p VerificationPayload) (*models.ReferralRequest, error) {
	var request models.ReferralRequest
	if err := database.DB.First(&request, "id = ?", requestID).Error; err != nil {
		return nil, err
	}

	fee := request.FeeByKind(kind)
	if fee.Paid {
		return &request, nil
	}
	if fee.OrderRef == nil || *fee.OrderRef != p.OrderID {
		return nil, &workflow.PaymentVerificationError{Reason: "order does not match this request"}
	}
	if !payments.VerifyPaymentSignature(p.OrderID, p.PaymentID, p.Signature) {
		return nil, &workflow.PaymentVerificationError{Reason: "signature mismatch"}
	}

	return applyVerifiedPayment(&request, kind)
}

// ApplyWebhookPayment handles the provider webhook path after the handler
// has already checked the webhook signature over the raw body.
func ApplyWebhookPayment(orderID string) (*models.ReferralRequest, error) {
	var request models.ReferralRequest
	err := database.DB.
		Where("initiation_fee_order_ref = ? OR final_fee_order_ref = ?", orderID, orderID).
		First(&request).Error
	if err != nil {
		return nil, err
	}

	kind := FeeInitiation
	if request.FinalFee.OrderRef != nil && *request.FinalFee.OrderRef == orderID {
		kind = FeeFinal
	}
	if request.FeeByKind(kind).Paid {
		return &request, nil
	}
	return applyVerifiedPayment(&request, kind)
}

// applyVerifiedPayment flips the paid flag under a conditional write. For
// the final fee in a completable state the same write also advances the
// request to COMPLETED, so the system can never hold finalFee.paid == true
// with an unadvanced status. Losing the race to the other verification
// path is treated as success.
func applyVerifiedPayment(request *models.ReferralRequest, kind string) (*models.ReferralRequest, error) {
	current := workflow.Status(request.Status)

	if kind == FeeInitiation {
		res := database.DB.Model(&models.ReferralRequest{}).
			Where("id = ? AND initiation_fee_paid = ?", request.ID, false).
			Updates(map[string]interface{}{
				"initiation_fee_paid": true,
				"updated_at":          time.Now(),
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			go notifyPaymentSettled(request.ID, FeeInitiation)
		}
		return reload(request)
	}

	if !statusIn(request.Status, finalFeeDueStatuses) {
		return nil, &workflow.PreconditionError{Missing: "referral sent (final fee not yet due)"}
	}

	if statusIn(request.Status, finalFeeCompletableStatuses) {
		res := database.DB.Model(&models.ReferralRequest{}).
			Where("id = ? AND final_fee_paid = ? AND status IN ?", request.ID, false, finalFeeCompletableStatuses).
			Updates(map[string]interface{}{
				"final_fee_paid": true,
				"status":         string(workflow.StatusCompleted),
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			recordTransition(request, current, workflow.StatusCompleted, workflow.RoleSystem, nil)
			return reload(request)
		}
		// Lost the race: fine if the other writer settled the fee.
		updated, err := reload(request)
		if err != nil {
			return nil, err
		}
		if updated.FinalFee.Paid {
			return updated, nil
		}
		return nil, &workflow.ConcurrentModificationError{Expected: current}
	}

	// UNDER_REVIEW: the fee settles now, completion follows once the
	// mentor records the outcome and the sweep picks the request up.
	res := database.DB.Model(&models.ReferralRequest{}).
		Where("id = ? AND final_fee_paid = ? AND status = ?", request.ID, false, string(workflow.StatusUnderReview)).
		Updates(map[string]interface{}{
			"final_fee_paid": true,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		updated, err := reload(request)
		if err != nil {
			return nil, err
		}
		if updated.FinalFee.Paid {
			return updated, nil
		}
		return nil, &workflow.ConcurrentModificationError{Expected: current}
	}
	go notifyPaymentSettled(request.ID, FeeFinal)
	return reload(request)
}

// notifyPaymentSettled announces a fee settlement that did not move the
// status. The transition push stays reserved for actual status changes.
func notifyPaymentSettled(requestID uuid.UUID, kind string) {
	var request models.ReferralRequest
	if err := database.DB.Preload("Student").Preload("Mentor").First(&request, "id = ?", requestID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("🔥 Failed to load request %s for payment notification: %v", requestID, err)
		}
		return
	}

	websocket.PushPaymentSettled(request.StudentID, requestID, kind)
	websocket.PushPaymentSettled(request.MentorID, requestID, kind)

	subject := fmt.Sprintf("Payment received: %s fee", kind)
	body := fmt.Sprintf("<h1>Payment Received</h1><p>The %s fee for the referral request for <b>%s</b> at <b>%s</b> has been settled.</p>",
		kind, request.PositionName, request.CompanyName)
	notifications.SendEmail(request.Student.FullName, request.Student.Email, subject, body)
	notifications.SendEmail(request.Mentor.FullName, request.Mentor.Email, subject, body)
}

func reload(request *models.ReferralRequest) (*models.ReferralRequest, error) {
	if err := database.DB.First(request, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
