package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestTimelineEvent is one append-only audit entry per successful
// transition of a referral request.
type RequestTimelineEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`

	FromStatus string  `gorm:"size:30;not null" json:"from_status"`
	ToStatus   string  `gorm:"size:30;not null" json:"to_status"`
	Actor      string  `gorm:"size:20;not null" json:"actor"`
	Note       *string `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *RequestTimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
