package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fund name is the resolution key used when a round allocation references a
// fund by display name instead of id.
type Fund struct {
	gorm.Model
	ID                    uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Name                  string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Type                  string    `json:"type" gorm:"type:varchar(50);default:'VC'"`
	Vintage               string    `json:"vintage" gorm:"type:varchar(10)"`
	CommittedCapital      float64   `json:"committed_capital" gorm:"type:numeric"`
	InvestableAmount      float64   `json:"investable_amount" gorm:"type:numeric"`
	Currency              string    `json:"currency" gorm:"type:varchar(10);default:'USD'"`
	FormationDate         *string   `json:"formation_date" gorm:"type:date"`
	InvestmentPeriodStart *string   `json:"investment_period_start" gorm:"type:date"`
	InvestmentPeriodEnd   *string   `json:"investment_period_end" gorm:"type:date"`
}
