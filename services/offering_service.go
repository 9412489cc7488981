package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"gorm.io/gorm"
)

// OfferingInput is the mentor-supplied shape for create and update. Fee
// amounts are integer minor currency units.
type OfferingInput struct {
	Title               string
	Description         string
	CompaniesCanReferTo []string
	Positions           []string
	InitiationFeeAmount int64
	FinalFeeAmount      int64
	Currency            string
}

func CreateOffering(mentorID uuid.UUID, in OfferingInput) (*models.ReferralOffering, error) {
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}
	offering := models.ReferralOffering{
		MentorID:            mentorID,
		Title:               in.Title,
		Description:         in.Description,
		CompaniesCanReferTo: in.CompaniesCanReferTo,
		Positions:           in.Positions,
		InitiationFeeAmount: in.InitiationFeeAmount,
		FinalFeeAmount:      in.FinalFeeAmount,
		Currency:            currency,
		IsActive:            true,
	}
	if err := database.DB.Create(&offering).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

func UpdateOffering(offeringID, mentorID uuid.UUID, in OfferingInput) (*models.ReferralOffering, error) {
	var offering models.ReferralOffering
	if err := database.DB.First(&offering, "id = ? AND mentor_id = ?", offeringID, mentorID).Error; err != nil {
		return nil, err
	}

	offering.Title = in.Title
	offering.Description = in.Description
	offering.CompaniesCanReferTo = in.CompaniesCanReferTo
	offering.Positions = in.Positions
	offering.InitiationFeeAmount = in.InitiationFeeAmount
	offering.FinalFeeAmount = in.FinalFeeAmount
	if in.Currency != "" {
		offering.Currency = in.Currency
	}
	if err := database.DB.Save(&offering).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

// SetOfferingActive flips only the is_active column, so a deactivation
// never races with a concurrent edit of the other fields.
func SetOfferingActive(offeringID, mentorID uuid.UUID, active bool) error {
	res := database.DB.Model(&models.ReferralOffering{}).
		Where("id = ? AND mentor_id = ?", offeringID, mentorID).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOffering is a hard delete. Existing requests copied their fee
// amounts at creation time and keep them.
func DeleteOffering(offeringID, mentorID uuid.UUID) error {
	res := database.DB.Where("id = ? AND mentor_id = ?", offeringID, mentorID).
		Delete(&models.ReferralOffering{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func GetOffering(offeringID uuid.UUID) (*models.ReferralOffering, error) {
	var offering models.ReferralOffering
	if err := database.DB.Preload("Mentor").First(&offering, "id = ?", offeringID).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

// ListOfferings returns active offerings for students browsing the
// catalog, optionally filtered by company or position substring.
func ListOfferings(company, position string) ([]models.ReferralOffering, error) {
	q := database.DB.Preload("Mentor").Where("is_active = ?", true)
	if company != "" {
		q = q.Where("companies_can_refer_to LIKE ?", "%"+company+"%")
	}
	if position != "" {
		q = q.Where("positions LIKE ?", "%"+position+"%")
	}
	var offerings []models.ReferralOffering
	err := q.Order("created_at DESC").Find(&offerings).Error
	return offerings, err
}

func ListOfferingsForMentor(mentorID uuid.UUID) ([]models.ReferralOffering, error) {
	var offerings []models.ReferralOffering
	err := database.DB.Where("mentor_id = ?", mentorID).
		Order("created_at DESC").Find(&offerings).Error
	return offerings, err
}

// IncrementOfferingSuccess bumps the success counter when a request that
// was created from the offering completes. The offering may be gone.
func IncrementOfferingSuccess(offeringID *uuid.UUID) {
	if offeringID == nil {
		return
	}
	err := database.DB.Model(&models.ReferralOffering{}).
		Where("id = ?", *offeringID).
		UpdateColumn("referral_success_count", gorm.Expr("referral_success_count + ?", 1)).Error
	if err != nil {
		log.Printf("🔥 Failed to bump success count for offering %s: %v", *offeringID, err)
	}
}
