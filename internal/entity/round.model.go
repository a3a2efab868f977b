package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StructureSAFE   = "SAFE"
	StructureEquity = "Equity"
)

// FinancingRound owns its transactions and syndicate rows: both sets are
// replaced wholesale on every save. At most one live round is expected per
// (company_id, round_label); the upsert path enforces this by lookup, not by
// a database constraint.
type FinancingRound struct {
	gorm.Model
	ID                 uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	CompanyID          uuid.UUID        `json:"company_id" gorm:"type:uuid;not null;index"`
	RoundLabel         string           `json:"round_label" gorm:"type:varchar(100);not null"`
	CloseDate          string           `json:"close_date" gorm:"type:date;not null"`
	Structure          string           `json:"structure" gorm:"type:varchar(20);default:'Equity'"`
	PricePerShare      *float64         `json:"price_per_share" gorm:"type:numeric"`
	PostMoneyValuation *float64         `json:"post_money_valuation" gorm:"type:numeric"`
	RoundSize          *float64         `json:"round_size" gorm:"type:numeric"`
	ValuationCap       *float64         `json:"valuation_cap" gorm:"type:numeric"`
	SafeDiscount       *float64         `json:"safe_discount" gorm:"type:numeric"`
	OriginalSafeTerms  *SafeTerms       `json:"original_safe_terms,omitempty" gorm:"type:jsonb"`
	Transactions       []Transaction    `json:"transactions,omitempty" gorm:"foreignKey:RoundID"`
	Syndicate          []RoundSyndicate `json:"syndicate,omitempty" gorm:"foreignKey:RoundID"`
}

// SafeTerms is the archived pre-conversion state of a SAFE round. It is
// written once when the round converts to priced equity and cleared on
// revert, making the rollback single-use.
type SafeTerms struct {
	Structure          string   `json:"structure"`
	PricePerShare      *float64 `json:"price_per_share"`
	ValuationCap       *float64 `json:"valuation_cap"`
	SafeDiscount       *float64 `json:"safe_discount"`
	PostMoneyValuation *float64 `json:"post_money_valuation"`
}

func (t SafeTerms) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *SafeTerms) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported type for SafeTerms")
	}
}
