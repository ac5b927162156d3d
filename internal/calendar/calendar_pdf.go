package calendar

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Number", 32},
	{"Employee", 50},
	{"Leave type", 38},
	{"From", 24},
	{"To", 24},
	{"Days", 22},
}

func renderMonthPDF(summary MonthSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("LEAVE CALENDAR %04d-%02d", summary.Year, summary.Month), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	stats := []string{
		fmt.Sprintf("Days in month: %d", summary.DaysInMonth),
		fmt.Sprintf("Occupied days: %d", summary.OccupiedDays),
		fmt.Sprintf("Free days: %d", summary.FreeDays),
		fmt.Sprintf("Active requests: %d", summary.ActiveRequests),
	}
	for _, line := range stats {
		pdf.CellFormat(0, 6, line, "", 1, "", false, 0, "")
	}
	for _, t := range summary.ByType {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("  %s: %d", t.LeaveType, t.Days)), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range summary.Requests {
		values := []string{r.Number, tr(r.EmployeeName), tr(r.LeaveType), r.StartDate, r.EndDate, strconv.Itoa(r.RequestedDays)}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, values[i], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render calendar pdf: %w", err)
	}
	return buf.Bytes(), nil
}
