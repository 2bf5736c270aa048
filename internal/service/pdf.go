package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateRenderer draws completion certificates as landscape A4 PDFs.
type CertificateRenderer struct {
	appName string
}

func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{appName: envOr("APP_NAME", "IntelliLearn")}
}

func (r *CertificateRenderer) Render(studentName, courseTitle, certificateID string, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 64, 124)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(30, 64, 124)
	pdf.SetY(40)
	pdf.CellFormat(0, 16, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(10)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	pdf.CellFormat(0, 14, studentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	pdf.CellFormat(0, 12, courseTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.Ln(14)
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued on %s by %s", issuedAt.Format("January 2, 2006"), r.appName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Certificate ID: "+certificateID, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
