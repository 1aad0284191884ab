// Package preview renders blueprints and contracts as SVG pages the size
// of the A4 canvas.
package preview

import (
	"html/template"
	"io"
	"strings"

	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
)

var page = template.Must(template.New("page").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<title>{{.Title}}</title>
<rect class="page" x="0" y="0" width="{{.Width}}" height="{{.Height}}" fill="#fff" stroke="#ccc"/>
{{- range .Boxes}}
<g class="field {{.Type}}">
{{- if eq .Type "fixed"}}
<text x="{{.X}}" y="{{.TextY}}" font-family="sans-serif" font-size="14" font-weight="bold">{{.Text}}</text>
{{- else}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="none" stroke="#999" stroke-dasharray="4 2"/>
<text x="{{.X}}" y="{{.LabelY}}" font-family="sans-serif" font-size="10" fill="#666">{{.Label}}</text>
{{- if .Image}}
<image x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" href="{{.Image}}" preserveAspectRatio="xMidYMid meet"/>
{{- else if .Text}}
<text x="{{.TextX}}" y="{{.TextY}}" font-family="sans-serif" font-size="14">{{.Text}}</text>
{{- end}}
{{- end}}
</g>
{{- end}}
</svg>
`))

type box struct {
	canvas.Rect
	Type  model.FieldType
	Label string
	Text  string
	Image template.URL
}

func (b box) LabelY() float64 { return b.Y - 3 }
func (b box) TextX() float64  { return b.X + 6 }
func (b box) TextY() float64  { return b.Y + b.H/2 + 5 }

type pageData struct {
	Title  string
	Width  float64
	Height float64
	Boxes  []box
}

// Blueprint writes the layout of bp: every field as an empty box with its
// label, fixed text as it will appear on contracts.
func Blueprint(w io.Writer, bp model.Blueprint) error {
	return render(w, bp.Name, bp.Fields, false)
}

// Contract writes c with the values entered so far. Signatures are
// embedded as images.
func Contract(w io.Writer, c model.Contract) error {
	return render(w, c.Name, c.Fields, true)
}

func render(w io.Writer, title string, fields []model.FormField, values bool) error {
	data := pageData{Title: title, Width: canvas.Width, Height: canvas.Height}
	for _, f := range fields {
		b := box{Rect: f.Position, Type: f.Type, Label: f.LabelText()}
		switch {
		case f.Type == model.TypeFixed:
			b.Text = f.Caption()
		case !values || f.Value == nil || f.Value.IsZero():
		case f.Type == model.TypeSignature:
			b.Image = signatureURL(f.Value)
		case f.Type == model.TypeCheckbox:
			b.Text = "☑"
		default:
			b.Text = model.ValueString(f.Value)
		}
		data.Boxes = append(data.Boxes, b)
	}
	return page.Execute(w, data)
}

// signatureURL trusts only image data URIs, the form signatures are
// validated to.
func signatureURL(v model.FieldValue) template.URL {
	s, ok := v.(model.SignatureValue)
	if !ok || !strings.HasPrefix(string(s), "data:image/") {
		return ""
	}
	return template.URL(s)
}
