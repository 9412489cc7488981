package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralOffering is a mentor-published catalog entry. Requests created
// from it copy the fee amounts at creation time, so editing or deleting an
// offering never affects existing requests.
type ReferralOffering struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID uuid.UUID `gorm:"type:uuid;not null;index" json:"mentor_id"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	CompaniesCanReferTo []string `gorm:"serializer:json" json:"companies_can_refer_to"`
	Positions           []string `gorm:"serializer:json" json:"positions"`

	InitiationFeeAmount int64  `gorm:"not null" json:"initiation_fee_amount"`
	FinalFeeAmount      int64  `gorm:"not null" json:"final_fee_amount"`
	Currency            string `gorm:"size:3;not null;default:'INR'" json:"currency"`

	IsActive             bool `gorm:"default:true" json:"is_active"`
	ReferralSuccessCount int  `gorm:"default:0" json:"referral_success_count"`

	Mentor User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *ReferralOffering) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
