package expo

import (
	"context"
	"time"
)

// AttendeeType enumerates how an attendee takes part in the expo.
type AttendeeType string

const (
	AttendeeVisitor   AttendeeType = "Visitor"
	AttendeeExhibitor AttendeeType = "Exhibitor"
)

// AttendeeTypes lists the accepted attendance types.
var AttendeeTypes = []AttendeeType{AttendeeExhibitor, AttendeeVisitor}

// Label returns the upper case label printed on badges.
func (t AttendeeType) Label() string {
	if t == AttendeeVisitor {
		return "VISITOR"
	}
	return "EXHIBITOR"
}

// AttendeeRecord is the resolved attendee data used to render a badge.
type AttendeeRecord struct {
	Name        string       `json:"name"`
	Company     string       `json:"company"`
	Designation string       `json:"designation"`
	Type        AttendeeType `json:"type"`
	QRID        string       `json:"qrId"`
}

// RegistrationInput holds raw registration form values.
type RegistrationInput struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	Designation    string `json:"designation,omitempty"`
	City           string `json:"city"`
	Country        string `json:"country"`
	AttendanceType string `json:"attendanceType"`
}

// RegistrationPayload is the body posted to the remote registration API.
type RegistrationPayload struct {
	RegistrationInput
	CaptchaToken string `json:"captchaToken"`
}

// SubmissionStatus describes the outcome of a registration attempt.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission is the result of a single registration attempt.
type Submission struct {
	ID          string           `json:"id"`
	Status      SubmissionStatus `json:"status"`
	Message     string           `json:"message,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// Bitmap is a rasterized capture of a rendered node.
type Bitmap struct {
	PNG    []byte
	Width  int
	Height int
	Scale  float64
}

// LogicalSize returns the bitmap size divided by the oversampling factor.
func (b Bitmap) LogicalSize() (float64, float64) {
	scale := b.Scale
	if scale <= 0 {
		scale = 1
	}
	return float64(b.Width) / scale, float64(b.Height) / scale
}

// BadgeDocument is a downloadable badge artifact.
type BadgeDocument struct {
	Filename    string
	ContentType string
	PDF         []byte
	ImageWidth  int
	ImageHeight int
	PageWidth   float64
	PageHeight  float64
}

// Branding configures the static event content printed on badges and pages.
type Branding struct {
	EventTitle string
	EventDates string
	Venue      string
	LogoURL    string
	Website    string
	Phone      string
	Email      string
}

// DefaultBranding returns the branding used by the expo site.
func DefaultBranding() Branding {
	return Branding{
		EventTitle: "ASEAN Expo 2025",
		EventDates: "17 – 19 SEPTEMBER 2024 | 2PM – 10PM",
		Venue:      "RIYADH FRONT EXHIBITION & CONFERENCE CENTER",
		LogoURL:    "/public/banner.svg",
		Website:    "https://www.jeddah-vision.com",
		Phone:      "0548037872",
		Email:      "info@jeddah-vision.com",
	}
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// RegistrationAPI submits registrations to the remote endpoint.
type RegistrationAPI interface {
	Register(ctx context.Context, requestID string, payload RegistrationPayload) error
}

// LookupAPI resolves badge tokens against the remote endpoint.
type LookupAPI interface {
	Lookup(ctx context.Context, token, captchaToken string) (AttendeeRecord, error)
}
