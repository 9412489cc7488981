package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeRecord tracks one of the two fee obligations of a referral request.
// Amount is in integer minor currency units (paise); money never touches
// floating point.
type FeeRecord struct {
	Amount   int64   `gorm:"not null;default:0" json:"amount"`
	Paid     bool    `gorm:"not null;default:false" json:"paid"`
	OrderRef *string `gorm:"size:255" json:"order_ref,omitempty"`
}

// ReferralRequest is the aggregate root of the referral lifecycle. Status
// only moves along the workflow graph, and every write to the row is a
// conditional update keyed on the expected prior state.
type ReferralRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	MentorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"mentor_id"`
	// Snapshot of the offering this request was created from; nullable and
	// unconstrained so deleting the offering never touches the request.
	OfferingID *uuid.UUID `gorm:"type:uuid" json:"offering_id,omitempty"`

	CompanyName  string `gorm:"size:255;not null" json:"company_name"`
	PositionName string `gorm:"size:255;not null" json:"position_name"`
	JobLink      string `gorm:"size:512" json:"job_link"`

	ResumeURL      string  `gorm:"size:512" json:"resume_url"`
	CoverLetterURL *string `gorm:"size:512" json:"cover_letter_url"`

	Status string `gorm:"size:30;not null;default:'INITIATED';index" json:"status"`

	MentorFeedback         *string `gorm:"type:text" json:"mentor_feedback"`
	MentorChangesRequested *string `gorm:"type:text" json:"mentor_changes_requested"`

	ReferralProofURL   *string `gorm:"size:512" json:"referral_proof_url"`
	AcceptanceProofURL *string `gorm:"size:512" json:"acceptance_proof_url"`
	ReceiptURL         *string `gorm:"size:512" json:"receipt_url"`

	Currency      string    `gorm:"size:3;not null;default:'INR'" json:"currency"`
	InitiationFee FeeRecord `gorm:"embedded;embeddedPrefix:initiation_fee_" json:"initiation_fee"`
	FinalFee      FeeRecord `gorm:"embedded;embeddedPrefix:final_fee_" json:"final_fee"`

	Student User `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Mentor  User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReferralRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// FeeByKind returns the fee record for "initiation" or "final".
func (r *ReferralRequest) FeeByKind(kind string) *FeeRecord {
	if kind == "final" {
		return &r.FinalFee
	}
	return &r.InitiationFee
}
