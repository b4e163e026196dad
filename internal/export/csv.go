// Package export turns loaded admin lists into CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"upi-cli/internal/model"
)

// ApplicationColumns is the fixed header row, in export order.
var ApplicationColumns = []string{
	"id",
	"fullName",
	"email",
	"phoneNumber",
	"nationality",
	"academicLevel",
	"intendedMajor",
	"targetCountries",
	"financialReadiness",
	"status",
	"createdAt",
}

// Applications writes the currently loaded list as CSV: one header row plus
// one row per application. Quoting follows RFC 4180 (embedded quotes are
// doubled), which encoding/csv handles for us.
func Applications(w io.Writer, apps []model.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ApplicationColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range apps {
		row := []string{
			a.ID,
			a.FullName,
			a.Email,
			a.PhoneNumber,
			a.Nationality,
			string(a.AcademicLevel),
			a.IntendedMajor,
			strings.Join(a.TargetCountries, "; "),
			string(a.FinancialReadiness),
			string(a.Status),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename stamps the export date into the download name.
func Filename(now time.Time) string {
	return "upi-applications-" + now.Format("2006-01-02") + ".csv"
}
