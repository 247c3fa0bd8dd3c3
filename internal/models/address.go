package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a saved delivery address from the user's address book.
type Address struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Label         string         `gorm:"size:50" json:"label,omitempty"`
	StreetAddress string         `gorm:"size:255;not null" json:"streetAddress"`
	City          string         `gorm:"size:100;not null" json:"city"`
	Province      string         `gorm:"size:100;not null" json:"province"`
	PostalCode    string         `gorm:"size:20;not null" json:"postalCode"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
