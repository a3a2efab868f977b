package rounds

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// Store is the persistence contract the workflows run against. Lookup
// methods return (nil, nil) when no row matches. Atomically runs fn inside
// one database transaction; every write of a multi-step workflow goes
// through the Store handed to fn so a mid-sequence failure rolls back the
// whole aggregate.
type Store interface {
	Atomically(fn func(Store) error) error

	// BestEffort runs fn so that a failed statement inside it does not
	// poison the enclosing transaction. Postgres aborts a transaction on any
	// statement error; workflow steps that are allowed to fail and continue
	// (lazy fund create, warrant insert) must run under a savepoint.
	BestEffort(fn func(Store) error) error

	RoundByID(id uuid.UUID) (*entity.FinancingRound, error)
	RoundByLabel(companyID uuid.UUID, label string) (*entity.FinancingRound, error)
	SaveRound(round *entity.FinancingRound) error
	UpdateRound(id uuid.UUID, patch map[string]interface{}) error
	DeleteRound(id uuid.UUID) error

	TransactionsByRound(roundID uuid.UUID) ([]entity.Transaction, error)
	InsertTransactions(rows []entity.Transaction) error
	UpdateTransaction(id uuid.UUID, patch map[string]interface{}) error
	DeleteTransactionsByRound(roundID uuid.UUID) error

	ListFunds() ([]entity.Fund, error)
	CreateFund(fund *entity.Fund) error

	InvestorByName(name string) (*entity.Investor, error)
	CreateInvestor(investor *entity.Investor) error
	DeleteSyndicateByRound(roundID uuid.UUID) error
	InsertSyndicate(rows []entity.RoundSyndicate) error

	CompanyByID(id uuid.UUID) (*entity.Company, error)
	DocumentsByRound(companyID uuid.UUID, roundID *uuid.UUID) ([]entity.CompanyDocument, error)
	InsertDocument(doc *entity.CompanyDocument) error
	UpdateDocument(id uuid.UUID, patch map[string]interface{}) error
	DeleteDocument(id uuid.UUID) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (g *gormStore) Atomically(fn func(Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (g *gormStore) BestEffort(fn func(Store) error) error {
	if err := g.db.SavePoint("best_effort").Error; err != nil {
		return err
	}
	if err := fn(g); err != nil {
		if rbErr := g.db.RollbackTo("best_effort").Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func (g *gormStore) RoundByID(id uuid.UUID) (*entity.FinancingRound, error) {
	var round entity.FinancingRound
	if err := g.db.Where("id = ?", id).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (g *gormStore) RoundByLabel(companyID uuid.UUID, label string) (*entity.FinancingRound, error) {
	var round entity.FinancingRound
	err := g.db.Where("company_id = ? AND round_label = ?", companyID, label).First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (g *gormStore) SaveRound(round *entity.FinancingRound) error {
	if round.ID == uuid.Nil {
		return g.db.Create(round).Error
	}
	return g.db.Save(round).Error
}

func (g *gormStore) UpdateRound(id uuid.UUID, patch map[string]interface{}) error {
	return g.db.Model(&entity.FinancingRound{}).Where("id = ?", id).Updates(patch).Error
}

func (g *gormStore) DeleteRound(id uuid.UUID) error {
	return g.db.Where("id = ?", id).Delete(&entity.FinancingRound{}).Error
}

func (g *gormStore) TransactionsByRound(roundID uuid.UUID) ([]entity.Transaction, error) {
	var rows []entity.Transaction
	if err := g.db.Where("round_id = ?", roundID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (g *gormStore) InsertTransactions(rows []entity.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	return g.db.Create(&rows).Error
}

func (g *gormStore) UpdateTransaction(id uuid.UUID, patch map[string]interface{}) error {
	return g.db.Model(&entity.Transaction{}).Where("id = ?", id).Updates(patch).Error
}

func (g *gormStore) DeleteTransactionsByRound(roundID uuid.UUID) error {
	return g.db.Where("round_id = ?", roundID).Delete(&entity.Transaction{}).Error
}

func (g *gormStore) ListFunds() ([]entity.Fund, error) {
	var funds []entity.Fund
	if err := g.db.Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (g *gormStore) CreateFund(fund *entity.Fund) error {
	return g.db.Create(fund).Error
}

func (g *gormStore) InvestorByName(name string) (*entity.Investor, error) {
	var investor entity.Investor
	if err := g.db.Where("name = ?", name).First(&investor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &investor, nil
}

func (g *gormStore) CreateInvestor(investor *entity.Investor) error {
	return g.db.Create(investor).Error
}

func (g *gormStore) DeleteSyndicateByRound(roundID uuid.UUID) error {
	return g.db.Where("round_id = ?", roundID).Delete(&entity.RoundSyndicate{}).Error
}

func (g *gormStore) InsertSyndicate(rows []entity.RoundSyndicate) error {
	if len(rows) == 0 {
		return nil
	}
	return g.db.Create(&rows).Error
}

func (g *gormStore) CompanyByID(id uuid.UUID) (*entity.Company, error) {
	var company entity.Company
	if err := g.db.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (g *gormStore) DocumentsByRound(companyID uuid.UUID, roundID *uuid.UUID) ([]entity.CompanyDocument, error) {
	var docs []entity.CompanyDocument
	query := g.db.Where("company_id = ?", companyID)
	if roundID != nil {
		query = query.Where("round_id = ?", *roundID)
	} else {
		query = query.Where("round_id IS NULL")
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (g *gormStore) InsertDocument(doc *entity.CompanyDocument) error {
	return g.db.Create(doc).Error
}

func (g *gormStore) UpdateDocument(id uuid.UUID, patch map[string]interface{}) error {
	return g.db.Model(&entity.CompanyDocument{}).Where("id = ?", id).Updates(patch).Error
}

func (g *gormStore) DeleteDocument(id uuid.UUID) error {
	return g.db.Where("id = ?", id).Delete(&entity.CompanyDocument{}).Error
}
