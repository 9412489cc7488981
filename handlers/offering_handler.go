package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/services"
	"gorm.io/gorm"
)

type OfferingBody struct {
	Title               string   `json:"title" validate:"required,min=3"`
	Description         string   `json:"description"`
	CompaniesCanReferTo []string `json:"companies_can_refer_to" validate:"required,min=1"`
	Positions           []string `json:"positions" validate:"required,min=1"`
	InitiationFeeAmount int64    `json:"initiation_fee_amount" validate:"required,gt=0"`
	FinalFeeAmount      int64    `json:"final_fee_amount" validate:"required,gt=0"`
	Currency            string   `json:"currency" validate:"omitempty,len=3"`
}

func (b OfferingBody) toInput() services.OfferingInput {
	return services.OfferingInput{
		Title:               b.Title,
		Description:         b.Description,
		CompaniesCanReferTo: b.CompaniesCanReferTo,
		Positions:           b.Positions,
		InitiationFeeAmount: b.InitiationFeeAmount,
		FinalFeeAmount:      b.FinalFeeAmount,
		Currency:            b.Currency,
	}
}

func CreateOffering(c *fiber.Ctx) error {
	mentorID, _ := actorFromToken(c)

	var req OfferingBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	offering, err := services.CreateOffering(mentorID, req.toInput())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create offering"})
	}
	return c.Status(fiber.StatusCreated).JSON(offering)
}

func UpdateOffering(c *fiber.Ctx) error {
	mentorID, _ := actorFromToken(c)
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offering ID"})
	}

	var req OfferingBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	offering, err := services.UpdateOffering(offeringID, mentorID, req.toInput())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offering not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update offering"})
	}
	return c.JSON(offering)
}

// SetOfferingActive toggles visibility without resending the full record.
func SetOfferingActive(c *fiber.Ctx) error {
	mentorID, _ := actorFromToken(c)
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offering ID"})
	}

	type Request struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.SetOfferingActive(offeringID, mentorID, *req.IsActive); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offering not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update offering"})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func DeleteOffering(c *fiber.Ctx) error {
	mentorID, _ := actorFromToken(c)
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offering ID"})
	}

	if err := services.DeleteOffering(offeringID, mentorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offering not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete offering"})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func ListOfferings(c *fiber.Ctx) error {
	offerings, err := services.ListOfferings(c.Query("company"), c.Query("position"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch offerings"})
	}
	return c.JSON(offerings)
}

func GetOffering(c *fiber.Ctx) error {
	offeringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid offering ID"})
	}

	offering, err := services.GetOffering(offeringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offering not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch offering"})
	}
	return c.JSON(offering)
}

func ListMyOfferings(c *fiber.Ctx) error {
	mentorID, _ := actorFromToken(c)
	offerings, err := services.ListOfferingsForMentor(mentorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch offerings"})
	}
	return c.JSON(offerings)
}
