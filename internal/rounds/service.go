// Package rounds implements the round-logging workflow: validating and
// upserting financing rounds, replacing their capital allocations and
// syndicate membership, and converting SAFE rounds to priced equity.
package rounds

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/docsync"
)

type Service struct {
	store  Store
	logger *zap.Logger
	docs   *docsync.Syncer
}

// NewService wires the workflow service. docs may be nil when no cloud
// mirror is configured; document entries on round saves are then ignored.
func NewService(store Store, logger *zap.Logger, docs *docsync.Syncer) *Service {
	return &Service{store: store, logger: logger, docs: docs}
}

// DeleteRound removes a round with its transactions and syndicate rows. The
// database does not cascade; the dependents are deleted first here.
func (s *Service) DeleteRound(roundID uuid.UUID) Result {
	err := s.store.Atomically(func(st Store) error {
		round, err := st.RoundByID(roundID)
		if err != nil {
			return persistencef("Failed to load round: %v", err)
		}
		if round == nil {
			return notFoundf("Round not found.")
		}
		if err := st.DeleteTransactionsByRound(roundID); err != nil {
			return persistencef("Failed to delete round transactions: %v", err)
		}
		if err := st.DeleteSyndicateByRound(roundID); err != nil {
			return persistencef("Failed to delete round syndicate: %v", err)
		}
		if err := st.DeleteRound(roundID); err != nil {
			return persistencef("Failed to delete round: %v", err)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return succeed(nil)
}
