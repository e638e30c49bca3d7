package entities

import (
	"time"

	"github.com/google/uuid"
)

type Scan struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID             uuid.UUID  `gorm:"index" json:"user_id"`
	ImageURL           string     `json:"image_url"`
	MeatType           string     `json:"meat_type"`     // pork, beef, chicken, unknown
	FreshnessScore     int        `json:"freshness_score"`
	FreshnessLevel     int        `json:"freshness_level"`
	SafetyStatus       string     `json:"safety_status"` // fresh, caution, spoiled, unknown
	VisualCues         string     `json:"visual_cues" gorm:"type:text"`
	Summary            string     `json:"summary" gorm:"type:text"`
	ScannedAt          time.Time  `gorm:"type:timestamp" json:"scanned_at"`
	Smell              *int       `json:"smell,omitempty"`
	Texture            *int       `json:"texture,omitempty"`
	Moisture           *int       `json:"moisture,omitempty"`
	Drip               *int       `json:"drip,omitempty"`
	StorageDeadline    *time.Time `gorm:"type:timestamp" json:"storage_deadline,omitempty"`
	ActionStatus       string     `json:"action_status"` // storing, cooked, discarded, expired
	StorageEnvironment string     `json:"storage_environment"`
	ContainerType      string     `json:"container_type"`
	IsRefined          bool       `json:"is_refined"`
	UsedProModel       bool       `json:"used_pro_model"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
