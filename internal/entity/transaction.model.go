package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionInvestment = "Investment"
	TransactionWarrant    = "Warrant"

	SecuritySAFE    = "SAFE"
	SecurityEquity  = "Equity"
	SecurityWarrant = "Warrant"
)

// Transaction is a single capital allocation of one fund into one round.
// A nil SharesPurchased signals an unpriced SAFE position.
type Transaction struct {
	gorm.Model
	ID                        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	RoundID                   uuid.UUID  `json:"round_id" gorm:"type:uuid;not null;index"`
	FundID                    *uuid.UUID `json:"fund_id" gorm:"type:uuid;index"`
	Date                      string     `json:"date" gorm:"type:date"`
	Type                      string     `json:"type" gorm:"type:varchar(20);default:'Investment'"`
	AmountInvested            float64    `json:"amount_invested" gorm:"type:numeric"`
	SharesPurchased           *float64   `json:"shares_purchased" gorm:"type:numeric"`
	OwnershipPercentage       float64    `json:"ownership_percentage" gorm:"type:numeric"`
	SecurityType              string     `json:"security_type" gorm:"type:varchar(20)"`
	EquityType                *string    `json:"equity_type" gorm:"type:varchar(100)"`
	WarrantCoveragePercentage *float64   `json:"warrant_coverage_percentage" gorm:"type:numeric"`
	WarrantExpirationDate     *string    `json:"warrant_expiration_date" gorm:"type:date"`
	Fund                      *Fund      `json:"fund,omitempty" gorm:"foreignKey:FundID"`
}
