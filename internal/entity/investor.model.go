package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investor rows are created lazily when a syndicate member name has no
// existing match.
type Investor struct {
	gorm.Model
	ID   uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Name string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Type string    `json:"type" gorm:"type:varchar(50);default:'VC'"`
}
