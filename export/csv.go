// Package export formats already fetched rows as CSV downloads and the
// monthly PDF report. Nothing here reads or writes storage.
package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionHeader is the first row of the transactions CSV; imports expect
// the same layout.
var TransactionHeader = []string{"Date", "Type", "Category", "Description", "Amount", "Currency"}

type TransactionRow struct {
	Date        time.Time
	Type        string
	Category    string
	Description string
	Amount      decimal.Decimal
	Currency    string
}

func WriteTransactionsCSV(w io.Writer, rows []TransactionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date.Format(dateLayout),
			r.Type,
			r.Category,
			r.Description,
			r.Amount.StringFixed(2),
			r.Currency,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var DebtHeader = []string{"Name", "Creditor", "Total", "Remaining", "Paid", "Interest Rate", "Due Date"}

type DebtRow struct {
	Name         string
	Creditor     string
	Total        decimal.Decimal
	Remaining    decimal.Decimal
	InterestRate *decimal.Decimal
	DueDate      *time.Time
}

func WriteDebtsCSV(w io.Writer, rows []DebtRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DebtHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rate := ""
		if r.InterestRate != nil {
			rate = r.InterestRate.String()
		}
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.Format(dateLayout)
		}
		if err := cw.Write([]string{
			r.Name,
			r.Creditor,
			r.Total.StringFixed(2),
			r.Remaining.StringFixed(2),
			r.Total.Sub(r.Remaining).StringFixed(2),
			rate,
			due,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var BudgetHeader = []string{"Category", "Period", "Period Start", "Period End", "Amount", "Spent", "Remaining", "Percentage", "Status"}

type BudgetRow struct {
	Category    string
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Percentage  decimal.Decimal
	Status      string
}

func WriteBudgetsCSV(w io.Writer, rows []BudgetRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BudgetHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Category,
			r.Period,
			r.PeriodStart.Format(dateLayout),
			// the window end is exclusive
			r.PeriodEnd.AddDate(0, 0, -1).Format(dateLayout),
			r.Amount.StringFixed(2),
			r.Spent.StringFixed(2),
			r.Remaining.StringFixed(2),
			r.Percentage.StringFixed(2),
			r.Status,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseTransactionsCSV reads rows in the transactions export layout. The
// header row is optional. Rows with a bad column count, date, type or a
// non-positive amount are counted as skipped; the returned line numbers are
// 1-based.
func ParseTransactionsCSV(r io.Reader) (rows []TransactionRow, skipped []int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	rows = make([]TransactionRow, 0, len(records))
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(strings.TrimPrefix(record[0], "\ufeff"), TransactionHeader[0]) {
			continue
		}
		row, ok := parseTransactionRecord(record)
		if !ok {
			skipped = append(skipped, i+1)
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func parseTransactionRecord(record []string) (TransactionRow, bool) {
	if len(record) < 5 {
		return TransactionRow{}, false
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return TransactionRow{}, false
	}
	typ := strings.ToUpper(strings.TrimSpace(record[1]))
	if typ != "INCOME" && typ != "EXPENSE" {
		return TransactionRow{}, false
	}
	category := strings.TrimSpace(record[2])
	if category == "" {
		return TransactionRow{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil || !amount.IsPositive() {
		return TransactionRow{}, false
	}
	row := TransactionRow{
		Date:        date,
		Type:        typ,
		Category:    category,
		Description: strings.TrimSpace(record[3]),
		Amount:      amount.Round(2),
	}
	if len(record) > 5 {
		row.Currency = strings.ToUpper(strings.TrimSpace(record[5]))
	}
	return row, true
}
