package rounds

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// fundIndex caches the one-shot fund fetch done at the start of a round
// save. Lazily created funds are added so later allocations in the same save
// reuse them.
type fundIndex struct {
	byName map[string]uuid.UUID
	ids    map[uuid.UUID]bool
}

func newFundIndex(funds []entity.Fund) *fundIndex {
	idx := &fundIndex{
		byName: make(map[string]uuid.UUID, len(funds)),
		ids:    make(map[uuid.UUID]bool, len(funds)),
	}
	for _, f := range funds {
		idx.byName[f.Name] = f.ID
		idx.ids[f.ID] = true
	}
	return idx
}

// resolveFund resolves a candidate that may be a fund id or a display name.
// An id match wins over a name match; a name with no match creates a new
// fund of type "VC". Matching is exact on the trimmed name.
func resolveFund(st Store, idx *fundIndex, candidate string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return uuid.Nil, validationf("empty fund reference")
	}

	if id, err := uuid.Parse(trimmed); err == nil && idx.ids[id] {
		return id, nil
	}
	if id, ok := idx.byName[trimmed]; ok {
		return id, nil
	}

	// The lazy create runs under a savepoint: a failed insert here is a
	// skippable allocation, not a poisoned transaction.
	fund := entity.Fund{Name: trimmed, Type: "VC"}
	if err := st.BestEffort(func(bst Store) error {
		return bst.CreateFund(&fund)
	}); err != nil {
		return uuid.Nil, err
	}
	idx.byName[fund.Name] = fund.ID
	idx.ids[fund.ID] = true
	return fund.ID, nil
}

// investorResolver finds or creates investors by exact name, caching within
// one save so a name repeated across leads and co-investors resolves once.
type investorResolver struct {
	st    Store
	cache map[string]uuid.UUID
}

func newInvestorResolver(st Store) *investorResolver {
	return &investorResolver{st: st, cache: make(map[string]uuid.UUID)}
}

func (r *investorResolver) resolve(name string) (uuid.UUID, error) {
	if id, ok := r.cache[name]; ok {
		return id, nil
	}
	existing, err := r.st.InvestorByName(name)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		r.cache[name] = existing.ID
		return existing.ID, nil
	}
	investor := entity.Investor{Name: name, Type: "VC"}
	if err := r.st.CreateInvestor(&investor); err != nil {
		return uuid.Nil, err
	}
	r.cache[name] = investor.ID
	return investor.ID, nil
}

// filterSyndicateNames drops empty strings, placeholder dashes and anything
// shorter than two characters.
func filterSyndicateNames(names []string) []string {
	var out []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if utf8.RuneCountInString(trimmed) < 2 || trimmed == "--" || strings.EqualFold(trimmed, "n/a") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
