// Package export render laporan ke dokumen PDF siap cetak.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

const (
	margin         = 15.0
	maxImageHeight = 120.0
	footerText     = "Generated by LaporKerja AI"
)

var accent = [3]int{14, 165, 233}

// PDFRenderer implementasi delivery.Renderer berbasis fpdf (A4, mm)
type PDFRenderer struct {
	Logger *zap.Logger
	Now    func() time.Time
}

func NewPDFRenderer(logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{Logger: logger, Now: time.Now}
}

// Render bangun PDF satu halaman (atau lebih kalau teks panjang)
func (p *PDFRenderer) Render(ctx context.Context, req delivery.ExportRequest) (delivery.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return delivery.Artifact{}, err
	}
	r := req.Report

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	pdf.SetTitle("Laporan Pekerjaan Harian "+r.DisplayTime(), true)
	pdf.SetCreator("LaporKerja", true)
	if p.Now != nil {
		pdf.SetCreationDate(p.Now())
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 10, footerText, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	safeW := pageW - 2*margin

	// header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(accent[0], accent[1], accent[2])
	pdf.CellFormat(safeW, 10, "LAPORAN PEKERJAAN HARIAN", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(safeW/2, 6, tr("Waktu: "+r.DisplayTime()), "", 0, "L", false, 0, "")
	pdf.CellFormat(safeW/2, 6, "Progress: "+percent(r.CompletionPercentage)+"%", "", 1, "R", false, 0, "")

	loc := strings.TrimSpace(req.Location)
	if loc == "" {
		loc = "-"
	}
	pdf.MultiCell(safeW, 6, tr("Lokasi: "+loc), "", "L", false)
	pdf.Ln(4)

	if len(req.Image) > 0 {
		if err := placeImage(pdf, req, safeW); err != nil {
			return delivery.Artifact{}, err
		}
	}

	section(pdf, tr, safeW, "Ringkasan Eksekutif")
	pdf.MultiCell(safeW, 6, tr(r.Summary), "", "L", false)
	pdf.Ln(3)

	section(pdf, tr, safeW, "Detail Teknis")
	for _, d := range r.Details {
		pdf.MultiCell(safeW, 6, tr("- "+d), "", "L", false)
	}
	pdf.Ln(3)

	section(pdf, tr, safeW, "Rekomendasi")
	pdf.MultiCell(safeW, 6, tr(r.Recommendation), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return delivery.Artifact{}, fmt.Errorf("render pdf: %w", err)
	}
	data := buf.Bytes()

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		p.log().Warn("pdf page count failed", zap.String("report_id", string(r.ID)), zap.Error(err))
		pages = 0
	}

	return delivery.Artifact{
		FileName:  FileName(r),
		MediaType: "application/pdf",
		Pages:     pages,
		Data:      data,
	}, nil
}

// FileName Laporan_<timestamp aman>.pdf
func FileName(r reports.Report) string {
	return "Laporan_" + r.SafeTimestamp() + ".pdf"
}

// placeImage foto di tengah, lebar penuh area aman, tinggi max 120mm
func placeImage(pdf *fpdf.Fpdf, req delivery.ExportRequest, safeW float64) error {
	opts := fpdf.ImageOptions{ImageType: imageType(req.Report.Image.MediaType())}
	info := pdf.RegisterImageOptionsReader("report", opts, bytes.NewReader(req.Image))
	if pdf.Err() || info == nil {
		return fmt.Errorf("register image: %w", pdf.Error())
	}

	w, h := safeW, safeW*info.Height()/info.Width()
	if h > maxImageHeight {
		h = maxImageHeight
		w = h * info.Width() / info.Height()
	}
	x := margin + (safeW-w)/2
	pdf.ImageOptions("report", x, pdf.GetY(), w, h, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + h + 6)
	return nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, w float64, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(w, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
}

func imageType(mediaType string) string {
	switch mediaType {
	case media.TypePNG:
		return "PNG"
	default:
		return "JPG"
	}
}

func percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func (p *PDFRenderer) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
