package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	Headline          *string `json:"headline"`
	CurrentCompany    *string `json:"current_company"`
	LinkedinURL       *string `json:"linkedin_url" validate:"omitempty,url"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

func GetProfile(c *fiber.Ctx) error {
	userID, _ := actorFromToken(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, _ := actorFromToken(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Headline != nil {
		user.Headline = req.Headline
	}
	if req.CurrentCompany != nil {
		user.CurrentCompany = req.CurrentCompany
	}
	if req.LinkedinURL != nil {
		user.LinkedinURL = req.LinkedinURL
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}

	database.DB.Save(&user)

	return c.JSON(user)
}
