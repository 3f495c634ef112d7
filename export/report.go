package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

type CategoryRow struct {
	Name       string
	Total      decimal.Decimal
	Percentage decimal.Decimal
}

// MonthlyReport is the input of BuildMonthlyReportPDF.
type MonthlyReport struct {
	Year         int
	Month        time.Month
	UserName     string
	Currency     string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	NetWorth     decimal.Decimal
	Transactions []TransactionRow
	Categories   []CategoryRow
}

func (r MonthlyReport) Net() decimal.Decimal {
	return r.Income.Sub(r.Expense)
}

var monthNames = [...]string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// MonthName is the Spanish month name used in report titles and file names.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}

// FormatMoney renders an amount with thousands separators and two decimals,
// e.g. "$ 1.234.567,89".
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$ " + b.String() + "," + frac
}

// BuildMonthlyReportPDF renders the summary figures, the transaction table
// and the category breakdown of one month.
func BuildMonthlyReportPDF(r MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := fmt.Sprintf("Reporte mensual - %s %d", MonthName(r.Month), r.Year)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	if r.UserName != "" {
		pdf.Cell(0, 7, tr("Usuario: "+r.UserName))
		pdf.Ln(6)
	}
	if r.Currency != "" {
		pdf.Cell(0, 7, "Moneda: "+r.Currency)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Resumen")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	summary := []struct {
		label string
		value decimal.Decimal
	}{
		{"Ingresos", r.Income},
		{"Gastos", r.Expense},
		{"Balance del mes", r.Net()},
		{"Patrimonio neto", r.NetWorth},
	}
	for _, s := range summary {
		pdf.Cell(60, 7, tr(s.label))
		pdf.CellFormat(50, 7, FormatMoney(s.value), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Transacciones")
	pdf.Ln(8)
	widths := []float64{25, 22, 40, 63, 40}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Fecha", "Tipo", tr("Categoría"), tr("Descripción"), "Monto"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	if len(r.Transactions) == 0 {
		pdf.CellFormat(190, 7, "Sin transacciones", "1", 1, "C", false, 0, "")
	}
	for _, t := range r.Transactions {
		kind := "Gasto"
		if t.Type == "INCOME" {
			kind = "Ingreso"
		}
		pdf.CellFormat(widths[0], 6, t.Date.Format(dateLayout), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 6, kind, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(truncate(t.Category, 22)), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(truncate(t.Description, 36)), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[4], 6, FormatMoney(t.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr("Gastos por categoría"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, tr("Categoría"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 7, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "%", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, c := range r.Categories {
		pdf.CellFormat(80, 6, tr(c.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 6, FormatMoney(c.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, c.Percentage.StringFixed(1)+"%", "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
