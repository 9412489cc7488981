package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/payments"
	"github.com/mwangikelvin/referral_bridge/services"
	"gorm.io/gorm"
)

// RazorpayWebhookPayload is the provider's payment.captured event shape.
type RazorpayWebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// CreatePaymentOrderHandler creates a provider order for the initiation or
// final fee of a request. Repeating the call for an already-paid fee
// returns the paid state instead of a new order.
func CreatePaymentOrderHandler(c *fiber.Ctx) error {
	studentID, _ := actorFromToken(c)
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}
	kind := c.Params("which")
	if kind != services.FeeInitiation && kind != services.FeeFinal {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Fee must be 'initiation' or 'final'"})
	}

	request, order, err := services.CreatePaymentOrder(requestID, studentID, kind)
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	if order == nil {
		return c.JSON(fiber.Map{"status": "already_paid", "request": request})
	}
	return c.JSON(fiber.Map{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
	})
}

type VerifyPaymentBody struct {
	RequestID string `json:"request_id" validate:"required,uuid"`
	Fee       string `json:"fee" validate:"required,oneof=initiation final"`
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// VerifyPaymentHandler is the client-callback verification path: the
// checkout page posts back the signed payment result. Safe to race with
// the webhook for the same order.
func VerifyPaymentHandler(c *fiber.Ctx) error {
	var req VerifyPaymentBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	requestID, _ := uuid.Parse(req.RequestID)

	request, err := services.ApplyPaymentVerification(requestID, req.Fee, services.VerificationPayload{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "request": request})
}

// HandlePaymentWebhook is the asynchronous provider path for the same
// event. The raw-body signature is checked first; an unknown order is
// acknowledged with 404 so the provider can retry later.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")
	if !payments.VerifyWebhookSignature(body, signature) {
		log.Printf("🔥 Webhook signature mismatch from %s", c.IP())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	var payload RazorpayWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	if payload.Event != "payment.captured" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Event ignored"})
	}

	orderID := payload.Payload.Payment.Entity.OrderID
	log.Printf("Received webhook for order %s, payment %s", orderID, payload.Payload.Payment.Entity.ID)

	request, err := services.ApplyWebhookPayment(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No request found for this order"})
		}
		log.Printf("🔥 CRITICAL: Error processing webhook for order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	log.Printf("✅ Webhook settled order %s, request %s now %s", orderID, request.ID, request.Status)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}
