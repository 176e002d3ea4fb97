package expoapi

import (
	"bytes"
	"embed"
	"io/fs"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-expo/expo"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed public/*
var publicFS embed.FS

// DefaultVideoID is the promotional video shown on the registration page.
const DefaultVideoID = "uYUofwPcKzY"

// Views renders HTML pages.
type Views struct {
	set *pongo2.TemplateSet
}

// NewViews loads the embedded page templates.
func NewViews() *Views {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return &Views{set: pongo2.NewSet("expoapi", pongo2.NewFSLoader(sub))}
}

// Render executes the named template.
func (v *Views) Render(name string, data pongo2.Context) ([]byte, error) {
	tpl, err := v.set.FromCache(name)
	if err != nil {
		return nil, expo.NewError(expo.KindInternal, "load template "+name, err)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(data, &buf); err != nil {
		return nil, expo.NewError(expo.KindInternal, "render template "+name, err)
	}
	return buf.Bytes(), nil
}

// PublicFS returns the embedded static assets.
func PublicFS() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

type formField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

func registrationFields(in expo.RegistrationInput, errs map[string]string) []formField {
	fields := []formField{
		{Name: "name", Label: "Name", Type: "text", Value: in.Name},
		{Name: "contact", Label: "Contact Number", Type: "tel", Value: in.Contact},
		{Name: "email", Label: "Email", Type: "email", Value: in.Email},
		{Name: "company", Label: "Company", Type: "text", Value: in.Company},
		{Name: "designation", Label: "Designation", Type: "text", Value: in.Designation},
		{Name: "city", Label: "City", Type: "text", Value: in.City},
		{Name: "country", Label: "Country", Type: "text", Value: in.Country},
		{Name: "attendanceType", Label: "How are you attending?", Type: "select", Value: in.AttendanceType},
	}
	for i := range fields {
		fields[i].Error = errs[fields[i].Name]
	}
	return fields
}

func attendanceOptions() []string {
	out := make([]string, 0, len(expo.AttendeeTypes))
	for _, t := range expo.AttendeeTypes {
		out = append(out, string(t))
	}
	return out
}
