// Package export produces the downloadable backup archive: per-entity CSV
// files plus one denormalized ledger CSV optimized for spreadsheet pivots.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

type Data struct {
	Funds        []entity.Fund
	Companies    []entity.Company
	Rounds       []entity.FinancingRound
	Transactions []entity.Transaction
}

// Collect fetches every exported table in one pass.
func Collect(db *gorm.DB) (*Data, error) {
	data := &Data{}
	if err := db.Order("name").Find(&data.Funds).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch funds: %w", err)
	}
	if err := db.Order("name").Find(&data.Companies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	if err := db.Order("created_at").Find(&data.Rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rounds: %w", err)
	}
	if err := db.Order("date").Find(&data.Transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return data, nil
}

// BuildArchive renders the zip archive. The ledger has one row per
// transaction and a placeholder row for every round with no transactions, so
// un-invested rounds stay visible in the export.
func BuildArchive(data *Data, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	folder := "backup_" + now.UTC().Format("2006-01-02")

	files := []struct {
		name string
		rows [][]string
	}{
		{"funds.csv", fundRows(data.Funds)},
		{"companies.csv", companyRows(data.Companies)},
		{"rounds.csv", roundRows(data.Rounds)},
		{"MASTER_LEDGER.csv", ledgerRows(data)},
	}
	for _, f := range files {
		w, err := zw.Create(folder + "/" + f.name)
		if err != nil {
			return nil, err
		}
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(f.rows); err != nil {
			return nil, err
		}
	}

	readme, err := zw.Create(folder + "/README.txt")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(readme, "Exported on %s\n\nMASTER_LEDGER.csv is optimized for spreadsheet pivot tables.\n", now.UTC().Format(time.RFC3339))

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fundRows(funds []entity.Fund) [][]string {
	rows := [][]string{{"id", "name", "vintage", "committed_capital", "investable_amount", "currency"}}
	for _, f := range funds {
		rows = append(rows, []string{
			f.ID.String(), f.Name, f.Vintage,
			formatAmount(f.CommittedCapital), formatAmount(f.InvestableAmount), f.Currency,
		})
	}
	return rows
}

func companyRows(companies []entity.Company) [][]string {
	rows := [][]string{{"id", "name", "sector", "status", "headquarters", "website"}}
	for _, c := range companies {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Sector, c.Status, c.Headquarters, c.Website})
	}
	return rows
}

func roundRows(rounds []entity.FinancingRound) [][]string {
	rows := [][]string{{"id", "company_id", "round_label", "close_date", "structure", "post_money_valuation", "round_size"}}
	for _, r := range rounds {
		rows = append(rows, []string{
			r.ID.String(), r.CompanyID.String(), r.RoundLabel, r.CloseDate, r.Structure,
			formatAmountPtr(r.PostMoneyValuation), formatAmountPtr(r.RoundSize),
		})
	}
	return rows
}

var ledgerHeader = []string{
	"Date", "Fund", "Company", "Sector", "Status", "Round",
	"Transaction_Type", "Security_Type", "Equity_Type",
	"Amount_Invested", "Shares", "Ownership_Percent",
}

func ledgerRows(data *Data) [][]string {
	fundNames := make(map[uuid.UUID]string, len(data.Funds))
	for _, f := range data.Funds {
		fundNames[f.ID] = f.Name
	}
	companies := make(map[uuid.UUID]entity.Company, len(data.Companies))
	for _, c := range data.Companies {
		companies[c.ID] = c
	}
	rounds := make(map[uuid.UUID]entity.FinancingRound, len(data.Rounds))
	for _, r := range data.Rounds {
		rounds[r.ID] = r
	}

	invested := make(map[uuid.UUID]bool)
	rows := [][]string{ledgerHeader}
	for _, tx := range data.Transactions {
		invested[tx.RoundID] = true
		round := rounds[tx.RoundID]
		company := companies[round.CompanyID]
		fundName := "Unknown"
		if tx.FundID != nil {
			if name, ok := fundNames[*tx.FundID]; ok {
				fundName = name
			}
		}
		date := tx.Date
		if date == "" {
			date = round.CloseDate
		}
		rows = append(rows, []string{
			date, fundName, company.Name, company.Sector, company.Status, round.RoundLabel,
			tx.Type, tx.SecurityType, strPtrValue(tx.EquityType),
			formatAmount(tx.AmountInvested), formatAmountPtr(tx.SharesPurchased),
			formatAmount(tx.OwnershipPercentage),
		})
	}

	for _, r := range data.Rounds {
		if invested[r.ID] {
			continue
		}
		company := companies[r.CompanyID]
		rows = append(rows, []string{
			r.CloseDate, "", company.Name, company.Sector, company.Status, r.RoundLabel,
			"", "", "", "", "", "",
		})
	}
	return rows
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAmountPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func strPtrValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
