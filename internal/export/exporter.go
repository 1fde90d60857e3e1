package export

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"leadboard/internal/models"
)

// Columns is the header of every lead table export.
var Columns = []string{"Nombre", "Teléfono", "Email", "Estado CRM", "Distrito", "Fecha Creación", "Monto Venta"}

const (
	SignatureHeader = "X-Signature"
	sheetName       = "Leads"
	timestampLayout = "2006-01-02 15:04"
)

// Exporter renders the lead table and signs what it renders so a downloaded
// file can be checked against the server secret.
type Exporter struct {
	secret string
	loc    *time.Location
	logger *logrus.Logger
}

func NewExporter(secret string, loc *time.Location, logger *logrus.Logger) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{
		secret: secret,
		loc:    loc,
		logger: logger,
	}
}

// CSV renders leads as comma-separated values with a header row.
func (e *Exporter) CSV(leads []models.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, lead := range leads {
		if err := w.Write(e.row(lead)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	e.logger.WithField("rows", len(leads)).Info("Exported leads to CSV")
	return buf.Bytes(), nil
}

// XLSX renders leads into a single-sheet workbook. Sale amounts are written
// as numbers so they can be summed in a spreadsheet.
func (e *Exporter) XLSX(leads []models.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &Columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, 0, len(Columns))
		for _, v := range e.row(lead)[:len(Columns)-1] {
			values = append(values, v)
		}
		if lead.SaleAmount != nil {
			values = append(values, *lead.SaleAmount)
		} else {
			values = append(values, "")
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.WithField("rows", len(leads)).Info("Exported leads to XLSX")
	return buf.Bytes(), nil
}

func (e *Exporter) row(lead models.Lead) []string {
	district := lead.QualificationDistrict
	if district == "" {
		district = lead.ResidenceDistrict
	}
	created := ""
	if lead.CreatedAt != nil {
		created = lead.CreatedAt.In(e.loc).Format(timestampLayout)
	}
	sale := ""
	if lead.SaleAmount != nil {
		sale = strconv.FormatFloat(*lead.SaleAmount, 'f', -1, 64)
	}
	return []string{
		lead.Name,
		lead.Phone,
		lead.Email,
		string(lead.State),
		district,
		created,
		sale,
	}
}

// Sign returns the HMAC-SHA256 of body in the form "sha256=<hex>".
func (e *Exporter) Sign(body []byte) string {
	h := hmac.New(sha256.New, []byte(e.secret))
	h.Write(body)
	signature := hex.EncodeToString(h.Sum(nil))

	return "sha256=" + signature
}

// Verify reports whether signature matches body.
func (e *Exporter) Verify(body []byte, signature string) bool {
	return hmac.Equal([]byte(e.Sign(body)), []byte(signature))
}

// Filename names an export taken at t.
func (e *Exporter) Filename(t time.Time, ext string) string {
	return fmt.Sprintf("leads_%s.%s", t.In(e.loc).Format("2006-01-02"), ext)
}
