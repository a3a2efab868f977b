package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleLead       = "Lead"
	RoleCoInvestor = "Co-Investor"
)

// RoundSyndicate links an investor to a round with its role. The set for a
// round is replaced wholesale on every round save.
type RoundSyndicate struct {
	gorm.Model
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	RoundID    uuid.UUID `json:"round_id" gorm:"type:uuid;not null;index"`
	InvestorID uuid.UUID `json:"investor_id" gorm:"type:uuid;not null"`
	Role       string    `json:"role" gorm:"type:varchar(20)"`
	Investor   *Investor `json:"investor,omitempty" gorm:"foreignKey:InvestorID"`
}
