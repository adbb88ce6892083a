// Package document render kontrak kerja sebagai PDF.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

type ContractInput struct {
	ContractNo  string
	CompanyName string
	StaffName   string
	StaffEmail  string
	JobTitle    string
	RoleName    string
	Location    string
	OpenDate    time.Time
	StartTime   string
	EndTime     string
	HourlyRate  int64 // cents
	IssuedAt    time.Time
}

type Renderer interface {
	RenderContract(in ContractInput) ([]byte, error)
}

type PDFRenderer struct{}

func (PDFRenderer) RenderContract(in ContractInput) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(in.IssuedAt)
	pdf.SetTitle("Kontrak Kerja "+in.ContractNo, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "KONTRAK KERJA HARIAN", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "No. "+in.ContractNo, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Perusahaan", in.CompanyName},
		{"Staff", in.StaffName},
		{"Email", in.StaffEmail},
		{"Pekerjaan", in.JobTitle},
		{"Posisi", in.RoleName},
		{"Lokasi", in.Location},
		{"Tanggal", in.OpenDate.Format("02 January 2006")},
		{"Jam kerja", in.StartTime + " - " + in.EndTime},
		{"Upah per jam", FormatMoney(in.HourlyRate)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		pdf.CellFormat(45, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, r[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.MultiCell(0, 6, "Jam kerja di atas 9 jam dihitung lembur dengan tarif 1,4x upah per jam. "+
		"Kehadiran dicatat melalui check-in dan check-out yang disetujui perusahaan.", "", "L", false)
	pdf.Ln(10)
	pdf.CellFormat(0, 6, "Diterbitkan "+in.IssuedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render contract: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render contract: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatMoney 123456 -> "1234.56"
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
