package rounds

import (
	"github.com/google/uuid"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/docsync"
)

// RoundInput is the typed payload of a round save. Monetary fields arrive as
// free-text strings from the form and are normalized before storage.
type RoundInput struct {
	ID         *uuid.UUID              `json:"id"`
	RoundTerms RoundTerms              `json:"roundTerms"`
	Position   Position                `json:"position"`
	Syndicate  Syndicate               `json:"syndicate"`
	Documents  []docsync.DocumentInput `json:"documents"`
}

type RoundTerms struct {
	Stage         string `json:"stage"`
	Date          string `json:"date"`
	Structure     string `json:"structure"`
	Valuation     string `json:"valuation"`
	PPS           string `json:"pps"`
	CapitalRaised string `json:"capitalRaised"`
	ValuationCap  string `json:"valuationCap"`
	SafeDiscount  string `json:"safeDiscount"`
}

// Allocation references its fund by id or by display name; unresolvable
// names trigger a lazy fund create.
type Allocation struct {
	FundID     string `json:"fundId"`
	Amount     string `json:"amount"`
	Shares     string `json:"shares"`
	Ownership  string `json:"ownership"`
	EquityType string `json:"equityType"`
}

type Position struct {
	Participated      bool         `json:"participated"`
	Allocations       []Allocation `json:"allocations"`
	HasWarrants       bool         `json:"hasWarrants"`
	WarrantCoverage   string       `json:"warrantCoverage"`
	WarrantExpiration string       `json:"warrantExpiration"`
}

type Syndicate struct {
	Leads       []string `json:"leads"`
	CoInvestors []string `json:"coInvestors"`
}

// ConversionParams are the priced terms applied when a SAFE round converts.
type ConversionParams struct {
	RoundID         uuid.UUID `json:"roundId"`
	PricePerShare   float64   `json:"pps"`
	EquityType      string    `json:"equityType"`
	Valuation       *float64  `json:"valuation"`
	ResultingShares float64   `json:"resultingShares"`
	Ownership       *float64  `json:"ownership"`
}
