package rounds

import (
	"errors"

	"github.com/google/uuid"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// memStore is an in-memory Store for workflow tests. Atomically snapshots
// the state and restores it when fn fails, mirroring the rollback the GORM
// store gets from the database transaction. It also models Postgres
// statement poisoning: a write that fails outside BestEffort marks the
// transaction aborted, and every later call errors until rollback.
type memStore struct {
	rounds    []entity.FinancingRound
	txs       []entity.Transaction
	funds     []entity.Fund
	investors []entity.Investor
	syndicate []entity.RoundSyndicate
	companies []entity.Company
	docs      []entity.CompanyDocument

	roundByLabelCalls int

	failCreateFund    bool
	failInsertTx      bool
	failWarrantInsert bool

	aborted      bool
	inBestEffort bool
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) snapshot() memStore {
	cp := *m
	cp.rounds = append([]entity.FinancingRound(nil), m.rounds...)
	cp.txs = append([]entity.Transaction(nil), m.txs...)
	cp.funds = append([]entity.Fund(nil), m.funds...)
	cp.investors = append([]entity.Investor(nil), m.investors...)
	cp.syndicate = append([]entity.RoundSyndicate(nil), m.syndicate...)
	cp.companies = append([]entity.Company(nil), m.companies...)
	cp.docs = append([]entity.CompanyDocument(nil), m.docs...)
	return cp
}

func (m *memStore) Atomically(fn func(Store) error) error {
	saved := m.snapshot()
	if err := fn(m); err != nil {
		*m = saved
		return err
	}
	if m.aborted {
		*m = saved
		return errors.New("current transaction is aborted")
	}
	return nil
}

// BestEffort mirrors the savepoint semantics of the GORM store: a failure
// inside fn rolls back fn's writes only and leaves the enclosing transaction
// usable.
func (m *memStore) BestEffort(fn func(Store) error) error {
	saved := m.snapshot()
	m.inBestEffort = true
	err := fn(m)
	m.inBestEffort = false
	if err != nil {
		*m = saved
		return err
	}
	return nil
}

// fail models a statement error: outside a savepoint it aborts the rest of
// the transaction.
func (m *memStore) fail(msg string) error {
	if !m.inBestEffort {
		m.aborted = true
	}
	return errors.New(msg)
}

func (m *memStore) guard() error {
	if m.aborted {
		return errors.New("current transaction is aborted, commands ignored until end of transaction block")
	}
	return nil
}

func (m *memStore) RoundByID(id uuid.UUID) (*entity.FinancingRound, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	for i := range m.rounds {
		if m.rounds[i].ID == id {
			round := m.rounds[i]
			return &round, nil
		}
	}
	return nil, nil
}

func (m *memStore) RoundByLabel(companyID uuid.UUID, label string) (*entity.FinancingRound, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	m.roundByLabelCalls++
	for i := range m.rounds {
		if m.rounds[i].CompanyID == companyID && m.rounds[i].RoundLabel == label {
			round := m.rounds[i]
			return &round, nil
		}
	}
	return nil, nil
}

func (m *memStore) SaveRound(round *entity.FinancingRound) error {
	if err := m.guard(); err != nil {
		return err
	}
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
		m.rounds = append(m.rounds, *round)
		return nil
	}
	for i := range m.rounds {
		if m.rounds[i].ID == round.ID {
			m.rounds[i] = *round
			return nil
		}
	}
	m.rounds = append(m.rounds, *round)
	return nil
}

func floatPtrValue(v interface{}) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f := x
		return &f
	case *float64:
		if x == nil {
			return nil
		}
		f := *x
		return &f
	}
	return nil
}

func (m *memStore) UpdateRound(id uuid.UUID, patch map[string]interface{}) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range m.rounds {
		if m.rounds[i].ID != id {
			continue
		}
		round := &m.rounds[i]
		for key, value := range patch {
			switch key {
			case "structure":
				round.Structure = value.(string)
			case "price_per_share":
				round.PricePerShare = floatPtrValue(value)
			case "post_money_valuation":
				round.PostMoneyValuation = floatPtrValue(value)
			case "valuation_cap":
				round.ValuationCap = floatPtrValue(value)
			case "safe_discount":
				round.SafeDiscount = floatPtrValue(value)
			case "original_safe_terms":
				if value == nil {
					round.OriginalSafeTerms = nil
				} else {
					terms := *value.(*entity.SafeTerms)
					round.OriginalSafeTerms = &terms
				}
			}
		}
		return nil
	}
	return errors.New("round not found")
}

func (m *memStore) DeleteRound(id uuid.UUID) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range m.rounds {
		if m.rounds[i].ID == id {
			m.rounds = append(m.rounds[:i], m.rounds[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) TransactionsByRound(roundID uuid.UUID) ([]entity.Transaction, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	var out []entity.Transaction
	for _, tx := range m.txs {
		if tx.RoundID == roundID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) InsertTransactions(rows []entity.Transaction) error {
	if err := m.guard(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if m.failWarrantInsert && rows[0].Type == entity.TransactionWarrant {
		return m.fail("warrant insert failed")
	}
	if m.failInsertTx && rows[0].Type == entity.TransactionInvestment {
		return m.fail("transaction insert failed")
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
		m.txs = append(m.txs, rows[i])
	}
	return nil
}

func (m *memStore) UpdateTransaction(id uuid.UUID, patch map[string]interface{}) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range m.txs {
		if m.txs[i].ID != id {
			continue
		}
		tx := &m.txs[i]
		for key, value := range patch {
			switch key {
			case "shares_purchased":
				tx.SharesPurchased = floatPtrValue(value)
			case "equity_type":
				if value == nil {
					tx.EquityType = nil
				} else {
					s := value.(string)
					tx.EquityType = &s
				}
			case "ownership_percentage":
				switch v := value.(type) {
				case float64:
					tx.OwnershipPercentage = v
				case int:
					tx.OwnershipPercentage = float64(v)
				}
			}
		}
		return nil
	}
	return errors.New("transaction not found")
}

func (m *memStore) DeleteTransactionsByRound(roundID uuid.UUID) error {
	if err := m.guard(); err != nil {
		return err
	}
	var kept []entity.Transaction
	for _, tx := range m.txs {
		if tx.RoundID != roundID {
			kept = append(kept, tx)
		}
	}
	m.txs = kept
	return nil
}

func (m *memStore) ListFunds() ([]entity.Fund, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return append([]entity.Fund(nil), m.funds...), nil
}

func (m *memStore) CreateFund(fund *entity.Fund) error {
	if err := m.guard(); err != nil {
		return err
	}
	if m.failCreateFund {
		return m.fail("fund insert failed")
	}
	if fund.ID == uuid.Nil {
		fund.ID = uuid.New()
	}
	m.funds = append(m.funds, *fund)
	return nil
}

func (m *memStore) InvestorByName(name string) (*entity.Investor, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	for i := range m.investors {
		if m.investors[i].Name == name {
			investor := m.investors[i]
			return &investor, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateInvestor(investor *entity.Investor) error {
	if err := m.guard(); err != nil {
		return err
	}
	if investor.ID == uuid.Nil {
		investor.ID = uuid.New()
	}
	m.investors = append(m.investors, *investor)
	return nil
}

func (m *memStore) DeleteSyndicateByRound(roundID uuid.UUID) error {
	if err := m.guard(); err != nil {
		return err
	}
	var kept []entity.RoundSyndicate
	for _, row := range m.syndicate {
		if row.RoundID != roundID {
			kept = append(kept, row)
		}
	}
	m.syndicate = kept
	return nil
}

func (m *memStore) InsertSyndicate(rows []entity.RoundSyndicate) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
		m.syndicate = append(m.syndicate, rows[i])
	}
	return nil
}

func (m *memStore) CompanyByID(id uuid.UUID) (*entity.Company, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	for i := range m.companies {
		if m.companies[i].ID == id {
			company := m.companies[i]
			return &company, nil
		}
	}
	return nil, nil
}

func (m *memStore) DocumentsByRound(companyID uuid.UUID, roundID *uuid.UUID) ([]entity.CompanyDocument, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	var out []entity.CompanyDocument
	for _, doc := range m.docs {
		if doc.CompanyID != companyID {
			continue
		}
		if roundID == nil {
			if doc.RoundID == nil {
				out = append(out, doc)
			}
			continue
		}
		if doc.RoundID != nil && *doc.RoundID == *roundID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memStore) InsertDocument(doc *entity.CompanyDocument) error {
	if err := m.guard(); err != nil {
		return err
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *memStore) UpdateDocument(id uuid.UUID, patch map[string]interface{}) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			if v, ok := patch["drive_file_id"]; ok {
				if v == nil {
					m.docs[i].DriveFileID = nil
				} else {
					s := v.(string)
					m.docs[i].DriveFileID = &s
				}
			}
			return nil
		}
	}
	return errors.New("document not found")
}

func (m *memStore) DeleteDocument(id uuid.UUID) error {
	if err := m.guard(); err != nil {
		return err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return nil
}
