package templates

import (
	"encoding/json"
	"time"
)

// Element ids shared between fragments and the htmx attributes targeting them.
const (
	PanelID       = "upload-modal"
	DetailBodyID  = "detail-body"
	ConfirmSlotID = "confirm-slot"
)

// historyScope says where a history list lives: which endpoint its delete
// buttons post to, which password field they carry and what they replace.
type historyScope struct {
	Heading    string
	DeletePath string
	Password   string
	Target     string
}

var (
	panelScope = historyScope{
		Heading:    "Riwayat Tugas:",
		DeletePath: "/panel/delete",
		Password:   "#upload-password",
		Target:     "#" + PanelID,
	}
	detailScope = historyScope{
		Heading:    "Daftar Tugas:",
		DeletePath: "/tasks/delete",
		Password:   "#page-password",
		Target:     "#" + DetailBodyID,
	}
)

// Renderer turns tracker view-models into components.
type Renderer struct {
	Location   *time.Location
	TimeLayout string
}

func NewRenderer(loc *time.Location, layout string) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = "02/01/2006 15.04.05"
	}
	return &Renderer{Location: loc, TimeLayout: layout}
}

// formatTime renders a stored point in time as local wall-clock text.
func (r *Renderer) formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(r.Location).Format(r.TimeLayout)
}

// hxVals encodes request parameters for an hx-vals attribute.
func hxVals(v map[string]string) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

// pageHeaders is the hx-headers value that tags every htmx request with the
// page id.
func pageHeaders(pageID string) (string, error) {
	return hxVals(map[string]string{"X-Page-ID": pageID})
}
