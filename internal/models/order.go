package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is a snapshot of a cart item taken when the order was placed.
// Snapshots keep order history stable if the cart or catalog changes later.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// JSONBOrderItems is a custom type for storing order item snapshots in JSONB
type JSONBOrderItems []OrderItem

// Value implements the driver.Valuer interface
func (a JSONBOrderItems) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBOrderItems) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBOrderItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONBAddress stores the delivery address as it was at checkout time.
type JSONBAddress Address

// Value implements the driver.Valuer interface
func (a JSONBAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBAddress) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBAddress{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// ServiceRequest is a paid booking: what was ordered, where, when, and the
// payment reference that settled it.
type ServiceRequest struct {
	ID               uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Items            JSONBOrderItems `gorm:"type:jsonb;not null;default:'[]'" json:"items"`
	Total            float64         `gorm:"not null" json:"total"`
	Status           string          `gorm:"size:50;not null" json:"status"`
	PaymentStatus    string          `gorm:"size:50;not null" json:"paymentStatus"`
	PaymentReference string          `gorm:"size:100;uniqueIndex" json:"paymentReference"`
	DeliveryAddress  JSONBAddress    `gorm:"type:jsonb" json:"deliveryAddress"`
	ScheduledAt      *time.Time      `json:"scheduledDateTime,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
