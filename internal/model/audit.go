package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FieldChange captures a single field value before and after an edit
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// AdminAudit is an append-only record of an admin editing another user's profile
type AdminAudit struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"_id"`
	AdminID      uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"admin"`
	TargetUserID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"target_user"`

	Changes       map[string]FieldChange `gorm:"type:jsonb;serializer:json;<-:create" json:"changes"`
	ChangedFields pq.StringArray         `gorm:"type:text[];<-:create" json:"changed_fields"`

	Reason    string    `gorm:"type:text;not null;<-:create" json:"reason"`
	IP        string    `gorm:"type:text;<-:create" json:"ip,omitempty"`
	CreatedAt time.Time `gorm:"<-:create;index" json:"created_at"`
}
