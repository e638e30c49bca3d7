package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `gorm:"uniqueIndex" json:"email"`
	Password              string     `json:"-"`
	Role                  string     `json:"role"`
	AvatarURL             string     `json:"avatar_url,omitempty"`
	SubscriptionType      string     `gorm:"default:free" json:"subscription_type"` // free, monthly, annual
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`

	Scans []*Scan `gorm:"foreignKey:UserID"`
	Timestamp
}
