package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and server-stamped timestamps shared
// by persisted domain types. IDs are generated at construction rather
// than by the database so a draft's id is known before the first write.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBaseEntity creates a base entity with a fresh ID and both
// timestamps set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
