package rounds

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

func newTestService(store Store) *Service {
	return NewService(store, zap.NewNop(), nil)
}

func baseInput() RoundInput {
	return RoundInput{
		RoundTerms: RoundTerms{
			Stage:         "Series A",
			Date:          "2025-01-01",
			Valuation:     "$10,000,000",
			PPS:           "$1.00",
			CapitalRaised: "$2,000,000",
		},
	}
}

func TestUpsertRoundRequiresDate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	input := baseInput()
	input.RoundTerms.Date = ""

	result := svc.UpsertRound(input, uuid.New())
	if result.Success {
		t.Fatal("UpsertRound() succeeded, want validation error")
	}
	if result.Err.Kind != KindValidation || result.Err.Message != "Round Date is required." {
		t.Errorf("error = %+v, want validation %q", result.Err, "Round Date is required.")
	}
	if len(store.rounds) != 0 {
		t.Errorf("rounds stored = %d, want 0", len(store.rounds))
	}
	if store.roundByLabelCalls != 0 {
		t.Errorf("round lookup performed before validation, calls = %d", store.roundByLabelCalls)
	}
}

func TestUpsertRoundRejectsUnparseableDate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	input := baseInput()
	input.RoundTerms.Date = "sometime soon"

	result := svc.UpsertRound(input, uuid.New())
	if result.Success {
		t.Fatal("UpsertRound() succeeded, want validation error")
	}
	if !strings.HasPrefix(result.Err.Message, "Invalid Date Format:") {
		t.Errorf("error message = %q, want Invalid Date Format prefix", result.Err.Message)
	}
}

func TestUpsertRoundNormalizesAmbiguousDate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	input := baseInput()
	input.RoundTerms.Date = "Jan 2024"

	result := svc.UpsertRound(input, uuid.New())
	if !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}
	isoDate := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	if got := store.rounds[0].CloseDate; !isoDate.MatchString(got) {
		t.Errorf("close_date = %q, want ISO form", got)
	}
	if got := store.rounds[0].CloseDate; got != "2024-01-01" {
		t.Errorf("close_date = %q, want 2024-01-01", got)
	}
}

func TestUpsertRoundDedupByLabel(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	companyID := uuid.New()

	if result := svc.UpsertRound(baseInput(), companyID); !result.Success {
		t.Fatalf("first UpsertRound() error = %v", result.Err)
	}
	second := baseInput()
	second.RoundTerms.Valuation = "$20,000,000"
	if result := svc.UpsertRound(second, companyID); !result.Success {
		t.Fatalf("second UpsertRound() error = %v", result.Err)
	}

	if len(store.rounds) != 1 {
		t.Fatalf("rounds stored = %d, want 1 (dedup by label)", len(store.rounds))
	}
	if got := store.rounds[0].PostMoneyValuation; got == nil || *got != 20000000 {
		t.Errorf("post_money_valuation = %v, want second save's 20000000", got)
	}
}

func TestUpsertRoundIDPassthroughSkipsDedup(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	companyID := uuid.New()
	existingID := uuid.New()
	store.rounds = append(store.rounds, entity.FinancingRound{
		ID: existingID, CompanyID: companyID, RoundLabel: "Series A", CloseDate: "2024-06-01",
	})

	input := baseInput()
	input.ID = &existingID
	if result := svc.UpsertRound(input, companyID); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}

	if store.roundByLabelCalls != 0 {
		t.Errorf("dedup lookup calls = %d, want 0 when id is provided", store.roundByLabelCalls)
	}
	if len(store.rounds) != 1 || store.rounds[0].ID != existingID {
		t.Fatalf("rounds = %+v, want single row with existing id", store.rounds)
	}
	if got := store.rounds[0].CloseDate; got != "2025-01-01" {
		t.Errorf("close_date = %q, want updated 2025-01-01", got)
	}
}

func TestUpsertRoundCreatesFundLazily(t *testing.T) {
	store := newMemStore()
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I", Type: "VC"})
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated: true,
		Allocations: []Allocation{
			{FundID: "Brand New Fund II", Amount: "$500,000", Ownership: "2.5"},
		},
	}

	if result := svc.UpsertRound(input, uuid.New()); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}
	if len(store.funds) != 2 {
		t.Fatalf("funds = %d, want 2 (one lazily created)", len(store.funds))
	}
	created := store.funds[1]
	if created.Name != "Brand New Fund II" || created.Type != "VC" {
		t.Errorf("created fund = %+v, want name Brand New Fund II type VC", created)
	}
	if len(store.txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(store.txs))
	}
	if store.txs[0].FundID == nil || *store.txs[0].FundID != created.ID {
		t.Errorf("transaction fund_id = %v, want %v", store.txs[0].FundID, created.ID)
	}
}

func TestUpsertRoundResolvesFundByIDBeforeName(t *testing.T) {
	store := newMemStore()
	target := entity.Fund{ID: uuid.New(), Name: "Fund I"}
	// A second fund whose display name collides with the first fund's id.
	decoy := entity.Fund{ID: uuid.New(), Name: target.ID.String()}
	store.funds = append(store.funds, target, decoy)
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated: true,
		Allocations:  []Allocation{{FundID: target.ID.String(), Amount: "100000"}},
	}

	if result := svc.UpsertRound(input, uuid.New()); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}
	if len(store.funds) != 2 {
		t.Fatalf("funds = %d, want no lazy create", len(store.funds))
	}
	if *store.txs[0].FundID != target.ID {
		t.Errorf("transaction fund_id = %v, want id match %v", *store.txs[0].FundID, target.ID)
	}
}

func TestUpsertRoundReplacesTransactionsWholesale(t *testing.T) {
	store := newMemStore()
	store.funds = append(store.funds,
		entity.Fund{ID: uuid.New(), Name: "Fund I"},
		entity.Fund{ID: uuid.New(), Name: "Fund II"},
	)
	svc := newTestService(store)
	companyID := uuid.New()

	first := baseInput()
	first.Position = Position{
		Participated: true,
		Allocations: []Allocation{
			{FundID: "Fund I", Amount: "$500,000"},
			{FundID: "Fund II", Amount: "$250,000"},
		},
	}
	if result := svc.UpsertRound(first, companyID); !result.Success {
		t.Fatalf("first UpsertRound() error = %v", result.Err)
	}
	if len(store.txs) != 2 {
		t.Fatalf("transactions after first save = %d, want 2", len(store.txs))
	}

	second := baseInput()
	second.Position = Position{
		Participated: true,
		Allocations:  []Allocation{{FundID: "Fund I", Amount: "$750,000"}},
	}
	if result := svc.UpsertRound(second, companyID); !result.Success {
		t.Fatalf("second UpsertRound() error = %v", result.Err)
	}

	if len(store.txs) != 1 {
		t.Fatalf("transactions after second save = %d, want exactly the second set", len(store.txs))
	}
	if store.txs[0].AmountInvested != 750000 {
		t.Errorf("amount_invested = %v, want 750000", store.txs[0].AmountInvested)
	}
}

func TestUpsertRoundSkipsUnresolvableAllocation(t *testing.T) {
	store := newMemStore()
	store.failCreateFund = true
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I"})
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated: true,
		Allocations: []Allocation{
			{FundID: "Fund I", Amount: "$500,000"},
			{FundID: "Unknown Fund", Amount: "$250,000"},
		},
	}
	input.Syndicate = Syndicate{Leads: []string{"Sequoia"}}

	result := svc.UpsertRound(input, uuid.New())
	if !result.Success {
		t.Fatalf("UpsertRound() error = %v, want success with warning", result.Err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Unknown Fund") {
		t.Errorf("warnings = %v, want one naming the dropped allocation", result.Warnings)
	}
	if len(store.txs) != 1 {
		t.Errorf("transactions = %d, want only the resolvable allocation", len(store.txs))
	}
	// The failed fund insert must not abort the transaction; the syndicate
	// writes after it still land.
	if len(store.syndicate) != 1 {
		t.Errorf("syndicate rows = %d, want 1 written after the failed fund create", len(store.syndicate))
	}
}

func TestUpsertRoundSAFEStructureSetsSecurityType(t *testing.T) {
	store := newMemStore()
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I"})
	svc := newTestService(store)

	input := baseInput()
	input.RoundTerms.Structure = "SAFE"
	input.RoundTerms.ValuationCap = "$8,000,000"
	input.RoundTerms.SafeDiscount = "20"
	input.Position = Position{
		Participated: true,
		Allocations:  []Allocation{{FundID: "Fund I", Amount: "$500,000"}},
	}

	if result := svc.UpsertRound(input, uuid.New()); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}
	if got := store.rounds[0].Structure; got != entity.StructureSAFE {
		t.Errorf("structure = %q, want SAFE", got)
	}
	if cap := store.rounds[0].ValuationCap; cap == nil || *cap != 8000000 {
		t.Errorf("valuation_cap = %v, want 8000000", cap)
	}
	if got := store.txs[0].SecurityType; got != entity.SecuritySAFE {
		t.Errorf("security_type = %q, want SAFE", got)
	}
}

func TestUpsertRoundWarrant(t *testing.T) {
	store := newMemStore()
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I"})
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated:      true,
		Allocations:       []Allocation{{FundID: "Fund I", Amount: "$500,000"}},
		HasWarrants:       true,
		WarrantCoverage:   "10",
		WarrantExpiration: "2030-01-01",
	}

	if result := svc.UpsertRound(input, uuid.New()); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}
	if len(store.txs) != 2 {
		t.Fatalf("transactions = %d, want investment + warrant", len(store.txs))
	}
	warrant := store.txs[1]
	if warrant.SecurityType != entity.SecurityWarrant || warrant.Type != entity.TransactionWarrant {
		t.Errorf("warrant row = %+v, want Warrant type and security", warrant)
	}
	if warrant.FundID == nil || *warrant.FundID != store.funds[0].ID {
		t.Errorf("warrant fund_id = %v, want first allocation's fund", warrant.FundID)
	}
	if warrant.WarrantCoveragePercentage == nil || *warrant.WarrantCoveragePercentage != 10 {
		t.Errorf("warrant coverage = %v, want 10", warrant.WarrantCoveragePercentage)
	}
	if warrant.WarrantExpirationDate == nil || *warrant.WarrantExpirationDate != "2030-01-01" {
		t.Errorf("warrant expiration = %v, want 2030-01-01", warrant.WarrantExpirationDate)
	}
}

func TestUpsertRoundWarrantInsertFailureIsNonFatal(t *testing.T) {
	store := newMemStore()
	store.failWarrantInsert = true
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I"})
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated:    true,
		Allocations:     []Allocation{{FundID: "Fund I", Amount: "$500,000"}},
		HasWarrants:     true,
		WarrantCoverage: "10",
	}
	input.Syndicate = Syndicate{Leads: []string{"Sequoia"}, CoInvestors: []string{"Accel"}}

	result := svc.UpsertRound(input, uuid.New())
	if !result.Success {
		t.Fatalf("UpsertRound() error = %v, want success despite warrant failure", result.Err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the warrant", result.Warnings)
	}
	if len(store.txs) != 1 {
		t.Errorf("transactions = %d, want the investment row only", len(store.txs))
	}
	// The failed insert must not poison the transaction: the syndicate
	// replacement after the warrant step still has to go through.
	if len(store.syndicate) != 2 {
		t.Errorf("syndicate rows = %d, want 2 written after the failed warrant insert", len(store.syndicate))
	}
}

func TestUpsertRoundSyndicate(t *testing.T) {
	store := newMemStore()
	store.investors = append(store.investors, entity.Investor{ID: uuid.New(), Name: "Sequoia", Type: "VC"})
	svc := newTestService(store)

	input := baseInput()
	input.Syndicate = Syndicate{
		Leads:       []string{"Sequoia", "", "-"},
		CoInvestors: []string{"New Angel Group", "x", "Sequoia"},
	}

	if result := svc.UpsertRound(input, uuid.New()); !result.Success {
		t.Fatalf("UpsertRound() error = %v", result.Err)
	}

	if len(store.investors) != 2 {
		t.Fatalf("investors = %d, want Sequoia reused and one lazy create", len(store.investors))
	}
	if len(store.syndicate) != 2 {
		t.Fatalf("syndicate rows = %d, want 2 (filtered and deduped)", len(store.syndicate))
	}
	roleByInvestor := map[uuid.UUID]string{}
	for _, row := range store.syndicate {
		roleByInvestor[row.InvestorID] = row.Role
	}
	if got := roleByInvestor[store.investors[0].ID]; got != entity.RoleLead {
		t.Errorf("Sequoia role = %q, want Lead (first role wins on dedup)", got)
	}
	if got := roleByInvestor[store.investors[1].ID]; got != entity.RoleCoInvestor {
		t.Errorf("new investor role = %q, want Co-Investor", got)
	}
}

func TestUpsertRoundReplacesSyndicateWholesale(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	companyID := uuid.New()

	first := baseInput()
	first.Syndicate = Syndicate{Leads: []string{"Sequoia"}, CoInvestors: []string{"Accel"}}
	if result := svc.UpsertRound(first, companyID); !result.Success {
		t.Fatalf("first UpsertRound() error = %v", result.Err)
	}

	second := baseInput()
	second.Syndicate = Syndicate{Leads: []string{"Accel"}}
	if result := svc.UpsertRound(second, companyID); !result.Success {
		t.Fatalf("second UpsertRound() error = %v", result.Err)
	}

	if len(store.syndicate) != 1 {
		t.Fatalf("syndicate rows = %d, want exactly the second save's set", len(store.syndicate))
	}
	if store.syndicate[0].Role != entity.RoleLead {
		t.Errorf("role = %q, want Lead", store.syndicate[0].Role)
	}
	// Investor rows are durable even when dropped from the syndicate.
	if len(store.investors) != 2 {
		t.Errorf("investors = %d, want both to remain", len(store.investors))
	}
}

func TestUpsertRoundTransactionInsertFailureRollsBack(t *testing.T) {
	store := newMemStore()
	store.failInsertTx = true
	store.funds = append(store.funds, entity.Fund{ID: uuid.New(), Name: "Fund I"})
	svc := newTestService(store)

	input := baseInput()
	input.Position = Position{
		Participated: true,
		Allocations:  []Allocation{{FundID: "Fund I", Amount: "$500,000"}},
	}

	result := svc.UpsertRound(input, uuid.New())
	if result.Success {
		t.Fatal("UpsertRound() succeeded, want persistence error")
	}
	if result.Err.Kind != KindPersistence {
		t.Errorf("error kind = %v, want KindPersistence", result.Err.Kind)
	}
	if len(store.rounds) != 0 {
		t.Errorf("rounds = %d, want 0 after rollback", len(store.rounds))
	}
}

func TestUpsertRoundResavePreservesRowMetadata(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	companyID := uuid.New()
	created := time.Date(2023, time.May, 1, 9, 30, 0, 0, time.UTC)
	cap := 8000000.0
	seed := entity.FinancingRound{
		ID: uuid.New(), CompanyID: companyID, RoundLabel: "Series A",
		CloseDate: "2023-05-01", Structure: entity.StructureEquity,
		OriginalSafeTerms: &entity.SafeTerms{Structure: entity.StructureSAFE, ValuationCap: &cap},
	}
	seed.CreatedAt = created
	store.rounds = append(store.rounds, seed)

	// A full save builds a fresh struct; the stored row's creation time and
	// conversion archive must survive both adopt paths.
	if result := svc.UpsertRound(baseInput(), companyID); !result.Success {
		t.Fatalf("label-path UpsertRound() error = %v", result.Err)
	}
	if got := store.rounds[0].CreatedAt; !got.Equal(created) {
		t.Errorf("created_at after label-path save = %v, want %v", got, created)
	}
	if store.rounds[0].OriginalSafeTerms == nil {
		t.Error("safe terms archive lost on label-path save")
	}

	byID := baseInput()
	byID.ID = &seed.ID
	if result := svc.UpsertRound(byID, companyID); !result.Success {
		t.Fatalf("id-path UpsertRound() error = %v", result.Err)
	}
	if got := store.rounds[0].CreatedAt; !got.Equal(created) {
		t.Errorf("created_at after id-path save = %v, want %v", got, created)
	}
	if terms := store.rounds[0].OriginalSafeTerms; terms == nil || terms.ValuationCap == nil || *terms.ValuationCap != cap {
		t.Errorf("safe terms archive after id-path save = %+v, want original cap retained", terms)
	}
}

func TestFilterSyndicateNames(t *testing.T) {
	got := filterSyndicateNames([]string{" Sequoia ", "", "x", "红", "红杉", "--", "N/A"})
	want := []string{"Sequoia", "红杉"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterSyndicateNames() = %v, want %v (single-rune names dropped)", got, want)
	}
}

func TestDeleteRoundRemovesDependentsFirst(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	roundID := uuid.New()
	store.rounds = append(store.rounds, entity.FinancingRound{ID: roundID, CompanyID: uuid.New(), RoundLabel: "Seed", CloseDate: "2024-01-01"})
	store.txs = append(store.txs, entity.Transaction{ID: uuid.New(), RoundID: roundID})
	store.syndicate = append(store.syndicate, entity.RoundSyndicate{ID: uuid.New(), RoundID: roundID, InvestorID: uuid.New()})

	if result := svc.DeleteRound(roundID); !result.Success {
		t.Fatalf("DeleteRound() error = %v", result.Err)
	}
	if len(store.rounds) != 0 || len(store.txs) != 0 || len(store.syndicate) != 0 {
		t.Errorf("leftover rows: rounds=%d txs=%d syndicate=%d", len(store.rounds), len(store.txs), len(store.syndicate))
	}

	if result := svc.DeleteRound(roundID); result.Success || result.Err.Kind != KindNotFound {
		t.Errorf("second DeleteRound() = %+v, want not-found error", result)
	}
}
