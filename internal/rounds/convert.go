package rounds

import (
	"math"

	"github.com/google/uuid"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/calc"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// ConvertSAFEToEquity reprices a SAFE round: the current terms are archived
// first, the round becomes a priced Equity round, and every transaction gets
// its share count and ownership recomputed. The archive makes the conversion
// reversible exactly once.
//
// Ownership per transaction: an explicitly supplied total is distributed
// proportionally by each transaction's share of total invested; otherwise a
// positive post-money valuation prices each stake directly; otherwise 0.
func (s *Service) ConvertSAFEToEquity(params ConversionParams) Result {
	if params.PricePerShare <= 0 || math.IsNaN(params.PricePerShare) {
		return fail(validationf("Price Per Share must be greater than zero."))
	}

	err := s.store.Atomically(func(st Store) error {
		round, err := st.RoundByID(params.RoundID)
		if err != nil {
			return persistencef("Failed to load round: %v", err)
		}
		if round == nil {
			return notFoundf("Round not found.")
		}

		transactions, err := st.TransactionsByRound(round.ID)
		if err != nil {
			return persistencef("Failed to load transactions: %v", err)
		}

		// Archive before any mutation; revert depends on this snapshot.
		backup := entity.SafeTerms{
			Structure:          round.Structure,
			PricePerShare:      round.PricePerShare,
			ValuationCap:       round.ValuationCap,
			SafeDiscount:       round.SafeDiscount,
			PostMoneyValuation: round.PostMoneyValuation,
		}

		postMoney := round.PostMoneyValuation
		if params.Valuation != nil {
			postMoney = params.Valuation
		}

		patch := map[string]interface{}{
			"structure":            entity.StructureEquity,
			"price_per_share":      params.PricePerShare,
			"post_money_valuation": postMoney,
			"valuation_cap":        nil,
			"safe_discount":        nil,
			"original_safe_terms":  &backup,
		}
		if err := st.UpdateRound(round.ID, patch); err != nil {
			return persistencef("Failed to update round: %v", err)
		}

		totalInvested := calc.TotalInvested(transactions)
		for _, tx := range transactions {
			shares := math.Floor(tx.AmountInvested / params.PricePerShare)
			var ownership float64
			switch {
			case params.Ownership != nil && *params.Ownership > 0 && totalInvested > 0:
				ownership = *params.Ownership * (tx.AmountInvested / totalInvested)
			case postMoney != nil && *postMoney > 0:
				ownership = tx.AmountInvested / *postMoney * 100
			}
			txPatch := map[string]interface{}{
				"shares_purchased":     shares,
				"equity_type":          params.EquityType,
				"ownership_percentage": ownership,
			}
			if err := st.UpdateTransaction(tx.ID, txPatch); err != nil {
				return persistencef("Failed to update transaction: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return succeed(nil)
}

// RevertSAFEConversion restores a converted round from its archived terms
// and resets all transactions to unpriced SAFE state. The archive is cleared
// on success, so the rollback is single-use.
func (s *Service) RevertSAFEConversion(roundID uuid.UUID) Result {
	err := s.store.Atomically(func(st Store) error {
		round, err := st.RoundByID(roundID)
		if err != nil {
			return persistencef("Failed to load round: %v", err)
		}
		if round == nil {
			return notFoundf("Round not found.")
		}
		if round.OriginalSafeTerms == nil {
			return invalidStatef("No backup terms found. Cannot revert.")
		}

		backup := round.OriginalSafeTerms
		patch := map[string]interface{}{
			"structure":            backup.Structure,
			"price_per_share":      backup.PricePerShare,
			"valuation_cap":        backup.ValuationCap,
			"safe_discount":        backup.SafeDiscount,
			"post_money_valuation": backup.PostMoneyValuation,
			"original_safe_terms":  nil,
		}
		if err := st.UpdateRound(round.ID, patch); err != nil {
			return persistencef("Failed to restore round terms: %v", err)
		}

		transactions, err := st.TransactionsByRound(round.ID)
		if err != nil {
			return persistencef("Failed to load transactions: %v", err)
		}
		for _, tx := range transactions {
			txPatch := map[string]interface{}{
				"shares_purchased":     nil,
				"equity_type":          nil,
				"ownership_percentage": 0.0,
			}
			if err := st.UpdateTransaction(tx.ID, txPatch); err != nil {
				return persistencef("Failed to reset transaction: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return succeed(nil)
}
