// Package pdf renders the printable roster: one row per student with the
// number of task links the store holds for them.
package pdf

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

type Generator struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Generator stamping reports in loc.
func New(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc, now: time.Now}
}

// Report writes the roster to w, paginated, with a total row at the end.
func (g *Generator) Report(ctx context.Context, students []domain.Student, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	stamp := g.now().In(g.loc).Format("02/01/2006 15.04")
	pdf.SetHeaderFunc(func() { drawHeader(pdf, stamp) })
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, "Halaman "+strconv.Itoa(pdf.PageNo())+" dari {nb}", "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	cols := columns(pdf)
	total := 0
	if len(students) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(sum(cols), 8, tr("Belum ada mahasiswa terdaftar."), "1", 1, "C", false, 0, "")
	}
	for i, s := range students {
		if pdf.GetY()+7 > pageBottom(pdf) {
			pdf.AddPage()
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(cols[0], 7, strconv.Itoa(i+1), "LR", 0, "R", fill, 0, "")
		pdf.CellFormat(cols[1], 7, tr(truncate(pdf, s.Name, cols[1]-2)), "LR", 0, "L", fill, 0, "")
		pdf.CellFormat(cols[2], 7, tr(s.Number), "LR", 0, "L", fill, 0, "")
		pdf.CellFormat(cols[3], 7, strconv.Itoa(s.SubmissionCount), "LR", 1, "R", fill, 0, "")
		total += s.SubmissionCount
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(cols[0]+cols[1]+cols[2], 7, fmt.Sprintf("Total (%d mahasiswa)", len(students)), "1", 0, "R", true, 0, "")
	pdf.CellFormat(cols[3], 7, strconv.Itoa(total), "1", 1, "R", true, 0, "")

	return pdf.Output(w)
}

func drawHeader(pdf *fpdf.Fpdf, stamp string) {
	marginL, marginT, marginR, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - marginL - marginR

	// ── Title bar ────────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW/2, 7, "REKAP TUGAS MAHASISWA", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2-4, 7, "Dicetak "+stamp, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// ── Column headings ──────────────────────────────────────────────────────
	pdf.SetXY(marginL, marginT+13)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	cols := columns(pdf)
	for i, h := range []string{"NO", "NAMA", "NIM", "TOTAL TUGAS"} {
		align := "L"
		if i == 0 || i == 3 {
			align = "R"
		}
		ln := 0
		if i == 3 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, h, "1", ln, align, true, 0, "")
	}
}

// columns splits the content width: number, name, NIM, count.
func columns(pdf *fpdf.Fpdf) []float64 {
	marginL, _, marginR, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	w := pageW - marginL - marginR
	return []float64{12, w - 12 - 45 - 30, 45, 30}
}

func pageBottom(pdf *fpdf.Fpdf) float64 {
	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	return pageH - marginB - 7
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}

// truncate shortens s with an ellipsis so it fits in width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
