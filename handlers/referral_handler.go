package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/services"
	"github.com/mwangikelvin/referral_bridge/workflow"
	"gorm.io/gorm"
)

// actorFromToken pulls the authenticated user id and role out of the JWT
// set by the Protected middleware.
func actorFromToken(c *fiber.Ctx) (uuid.UUID, workflow.Role) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID, workflow.Role(claims["role"].(string))
}

// lifecycleErrorResponse maps the engine's error taxonomy onto HTTP
// statuses. Anything unrecognized is a 500.
func lifecycleErrorResponse(c *fiber.Ctx, err error) error {
	var (
		invalidErr  *workflow.InvalidTransitionError
		authzErr    *workflow.AuthorizationError
		precondErr  *workflow.PreconditionError
		verifyErr   *workflow.PaymentVerificationError
		gatewayErr  *workflow.PaymentGatewayError
		uploadErr   *workflow.UploadError
		conflictErr *workflow.ConcurrentModificationError
	)
	switch {
	case errors.As(err, &invalidErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &authzErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &precondErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &verifyErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &gatewayErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &uploadErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "State changed, please refresh and try again"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Referral request not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
}

type CreateReferralRequestBody struct {
	OfferingID     string  `json:"offering_id" validate:"required,uuid"`
	CompanyName    string  `json:"company_name" validate:"required"`
	PositionName   string  `json:"position_name" validate:"required"`
	JobLink        string  `json:"job_link" validate:"omitempty,url"`
	ResumeURL      string  `json:"resume_url" validate:"required,url"`
	CoverLetterURL *string `json:"cover_letter_url" validate:"omitempty,url"`
}

func CreateReferralRequest(c *fiber.Ctx) error {
	studentID, _ := actorFromToken(c)

	var req CreateReferralRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	offeringID, _ := uuid.Parse(req.OfferingID)

	request, err := services.CreateReferralRequest(studentID, offeringID, req.CompanyName, req.PositionName, req.JobLink, req.ResumeURL, req.CoverLetterURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offering not found or inactive"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create referral request"})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func ListMyReferralRequests(c *fiber.Ctx) error {
	actorID, role := actorFromToken(c)

	if role == workflow.RoleMentor {
		requests, err := services.ListRequestsForMentor(actorID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch requests"})
		}
		return c.JSON(requests)
	}

	requests, err := services.ListRequestsForStudent(actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch requests"})
	}
	return c.JSON(requests)
}

func GetReferralRequest(c *fiber.Ctx) error {
	actorID, role := actorFromToken(c)
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	request, err := services.GetRequest(requestID, actorID, role)
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(request)
}

func GetRequestTimeline(c *fiber.Ctx) error {
	actorID, role := actorFromToken(c)
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	events, err := services.ListTimeline(requestID, actorID, role)
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(events)
}

type TransitionRequestBody struct {
	TargetStatus     string `json:"target_status" validate:"required"`
	Feedback         string `json:"feedback,omitempty"`
	ChangesRequested string `json:"changes_requested,omitempty"`
	ProofURL         string `json:"proof_url,omitempty" validate:"omitempty,url"`
	ResumeURL        string `json:"resume_url,omitempty" validate:"omitempty,url"`
	FinalFeeAmount   int64  `json:"final_fee_amount,omitempty" validate:"omitempty,gt=0"`
}

func RequestTransition(c *fiber.Ctx) error {
	actorID, role := actorFromToken(c)
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req TransitionRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	target, err := workflow.ParseStatus(req.TargetStatus)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.RequestTransition(requestID, actorID, role, target, services.TransitionPayload{
		Feedback:         req.Feedback,
		ChangesRequested: req.ChangesRequested,
		ProofRef:         req.ProofURL,
		ResumeRef:        req.ResumeURL,
		FinalFeeAmount:   req.FinalFeeAmount,
	})
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(request)
}

type UpdateDocumentsBody struct {
	ResumeURL      string  `json:"resume_url,omitempty" validate:"omitempty,url"`
	CoverLetterURL *string `json:"cover_letter_url,omitempty" validate:"omitempty,url"`
	PositionName   string  `json:"position_name,omitempty"`
	JobLink        string  `json:"job_link,omitempty" validate:"omitempty,url"`
}

func UpdateRequestDocuments(c *fiber.Ctx) error {
	studentID, _ := actorFromToken(c)
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req UpdateDocumentsBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.UpdateDocuments(requestID, studentID, req.ResumeURL, req.CoverLetterURL, req.PositionName, req.JobLink)
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(request)
}
