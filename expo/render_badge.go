package expo

import (
	"embed"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// BadgeSelector is the CSS selector of the printable card in rendered badges.
const BadgeSelector = "#badge"

// BadgeWidth and BadgeHeight are the logical card dimensions in CSS px.
const (
	BadgeWidth  = 320
	BadgeHeight = 500
)

const badgeTemplate = "badge.html"

//go:embed templates/*.html
var templateFS embed.FS

var (
	defaultSetOnce sync.Once
	defaultSet     *pongo2.TemplateSet
)

func templates() *pongo2.TemplateSet {
	defaultSetOnce.Do(func() {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			panic(err)
		}
		defaultSet = pongo2.NewSet("expo", pongo2.NewFSLoader(sub))
	})
	return defaultSet
}

// BadgeRenderer renders attendee records into badge documents.
type BadgeRenderer struct {
	Branding  Branding
	QR        QRProvider
	Templates *pongo2.TemplateSet
}

// NewBadgeRenderer returns a renderer with the embedded badge template.
func NewBadgeRenderer(branding Branding, qr QRProvider) *BadgeRenderer {
	return &BadgeRenderer{Branding: branding, QR: qr}
}

// Render returns the badge document for record. A nil record renders nothing.
func (r *BadgeRenderer) Render(record *AttendeeRecord) (string, error) {
	if record == nil {
		return "", nil
	}

	qr := r.QR
	if qr == nil {
		qr = ExternalQR{}
	}
	src, err := qr.ImageSource(record.QRID)
	if err != nil {
		return "", err
	}

	set := r.Templates
	if set == nil {
		set = templates()
	}
	tpl, err := set.FromCache(badgeTemplate)
	if err != nil {
		return "", NewError(KindInternal, "badge template", err)
	}

	out, err := tpl.Execute(pongo2.Context{
		"record":     record,
		"branding":   r.Branding,
		"qr_src":     src,
		"type_label": record.Type.Label(),
	})
	if err != nil {
		return "", NewError(KindInternal, "render badge", err)
	}
	return out, nil
}

// RenderBadge renders record with the given branding and QR provider.
func RenderBadge(record *AttendeeRecord, branding Branding, qr QRProvider) (string, error) {
	return NewBadgeRenderer(branding, qr).Render(record)
}
