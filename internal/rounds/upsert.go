package rounds

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/money"
)

// UpsertRound validates and saves one company+round aggregate: the round row,
// its full transaction set, its syndicate membership and its document
// mirror. The whole sequence runs in a single database transaction, so a
// failing step rolls back everything before it. Best-effort failures
// (skipped allocations, warrant insert, remote document deletion) surface in
// Result.Warnings instead of failing the save.
func (s *Service) UpsertRound(input RoundInput, companyID uuid.UUID) Result {
	if strings.TrimSpace(input.RoundTerms.Date) == "" {
		return fail(validationf("Round Date is required."))
	}
	closeDate, err := money.NormalizeDate(input.RoundTerms.Date)
	if err != nil {
		return fail(validationf("Invalid Date Format: %s", input.RoundTerms.Date))
	}

	structure := entity.StructureEquity
	if strings.EqualFold(strings.TrimSpace(input.RoundTerms.Structure), entity.StructureSAFE) {
		structure = entity.StructureSAFE
	}

	round := entity.FinancingRound{
		CompanyID:          companyID,
		RoundLabel:         input.RoundTerms.Stage,
		CloseDate:          closeDate,
		Structure:          structure,
		PostMoneyValuation: money.ParseCurrencyPtr(input.RoundTerms.Valuation),
		PricePerShare:      money.ParseCurrencyPtr(input.RoundTerms.PPS),
		RoundSize:          money.ParseCurrencyPtr(input.RoundTerms.CapitalRaised),
		ValuationCap:       money.ParseCurrencyPtr(input.RoundTerms.ValuationCap),
		SafeDiscount:       money.ParseCurrencyPtr(input.RoundTerms.SafeDiscount),
	}

	var warnings []string
	err = s.store.Atomically(func(st Store) error {
		var existing *entity.FinancingRound
		if input.ID != nil {
			round.ID = *input.ID
			existing, err = st.RoundByID(*input.ID)
		} else {
			// Dedup by label: a save without an id adopts any existing round
			// sharing this company and label instead of inserting a twin.
			existing, err = st.RoundByLabel(companyID, round.RoundLabel)
		}
		if err != nil {
			return persistencef("Failed to look up existing round: %v", err)
		}
		if existing != nil {
			// Save writes every column of the struct, so fields the payload
			// cannot know are carried over from the stored row.
			round.ID = existing.ID
			round.Model = existing.Model
			round.OriginalSafeTerms = existing.OriginalSafeTerms
		}

		if err := st.SaveRound(&round); err != nil {
			return persistencef("Failed to save round data: %v", err)
		}

		if s.docs != nil && len(input.Documents) > 0 {
			company, err := st.CompanyByID(companyID)
			if err != nil {
				return persistencef("Failed to load company: %v", err)
			}
			if company == nil {
				return notFoundf("Company not found.")
			}
			docWarnings, err := s.docs.Sync(company, round.ID, input.Documents, st)
			warnings = append(warnings, docWarnings...)
			if err != nil {
				return persistencef("Failed to sync documents: %v", err)
			}
		}

		funds, err := st.ListFunds()
		if err != nil {
			return persistencef("Failed to load funds: %v", err)
		}
		idx := newFundIndex(funds)

		if err := st.DeleteTransactionsByRound(round.ID); err != nil {
			return persistencef("Failed to clear round transactions: %v", err)
		}

		securityType := entity.SecurityEquity
		if structure == entity.StructureSAFE {
			securityType = entity.SecuritySAFE
		}

		var firstFundID *uuid.UUID
		if input.Position.Participated && len(input.Position.Allocations) > 0 {
			var rows []entity.Transaction
			for _, alloc := range input.Position.Allocations {
				fundID, err := resolveFund(st, idx, alloc.FundID)
				if err != nil {
					s.logger.Warn("Skipping allocation with unresolvable fund",
						zap.String("fund", alloc.FundID), zap.Error(err))
					warnings = append(warnings, fmt.Sprintf("Allocation for %q was skipped: fund could not be resolved.", alloc.FundID))
					continue
				}
				if firstFundID == nil {
					id := fundID
					firstFundID = &id
				}
				amount, _ := money.ParseCurrency(alloc.Amount)
				ownership, _ := money.ParseCurrency(alloc.Ownership)
				row := entity.Transaction{
					RoundID:             round.ID,
					FundID:              &fundID,
					Date:                closeDate,
					Type:                entity.TransactionInvestment,
					AmountInvested:      amount,
					SharesPurchased:     money.ParseCurrencyPtr(alloc.Shares),
					OwnershipPercentage: ownership,
					SecurityType:        securityType,
				}
				if equityType := strings.TrimSpace(alloc.EquityType); equityType != "" {
					row.EquityType = &equityType
				}
				rows = append(rows, row)
			}
			if err := st.InsertTransactions(rows); err != nil {
				return persistencef("Failed to save transactions: %v", err)
			}
		}

		if input.Position.HasWarrants {
			warrant := entity.Transaction{
				RoundID:                   round.ID,
				FundID:                    firstFundID,
				Date:                      closeDate,
				Type:                      entity.TransactionWarrant,
				SecurityType:              entity.SecurityWarrant,
				WarrantCoveragePercentage: money.ParseCurrencyPtr(input.Position.WarrantCoverage),
			}
			if exp, err := money.NormalizeDate(input.Position.WarrantExpiration); err == nil {
				warrant.WarrantExpirationDate = &exp
			}
			// A failed warrant insert never blocks the save; the savepoint
			// keeps the failure from aborting the surrounding transaction.
			err := st.BestEffort(func(bst Store) error {
				return bst.InsertTransactions([]entity.Transaction{warrant})
			})
			if err != nil {
				s.logger.Warn("Failed to save warrant transaction", zap.Error(err))
				warnings = append(warnings, "Warrant terms could not be saved.")
			}
		}

		if err := st.DeleteSyndicateByRound(round.ID); err != nil {
			return persistencef("Failed to clear round syndicate: %v", err)
		}
		resolver := newInvestorResolver(st)
		var members []entity.RoundSyndicate
		seen := make(map[uuid.UUID]bool)
		for _, group := range []struct {
			names []string
			role  string
		}{
			{filterSyndicateNames(input.Syndicate.Leads), entity.RoleLead},
			{filterSyndicateNames(input.Syndicate.CoInvestors), entity.RoleCoInvestor},
		} {
			for _, name := range group.names {
				investorID, err := resolver.resolve(name)
				if err != nil {
					return persistencef("Failed to resolve investor %q: %v", name, err)
				}
				if seen[investorID] {
					continue
				}
				seen[investorID] = true
				members = append(members, entity.RoundSyndicate{
					RoundID:    round.ID,
					InvestorID: investorID,
					Role:       group.role,
				})
			}
		}
		if err := st.InsertSyndicate(members); err != nil {
			return persistencef("Failed to save syndicate: %v", err)
		}

		return nil
	})
	if err != nil {
		return fail(err)
	}
	return succeed(warnings)
}
