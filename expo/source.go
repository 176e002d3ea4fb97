package expo

import (
	"context"
	"strings"
	"time"
)

// DefaultMockDelay is the simulated lookup latency of MockSource.
const DefaultMockDelay = time.Second

// AttendeeSource resolves a badge token into an attendee record.
type AttendeeSource interface {
	Resolve(ctx context.Context, token string, captcha CaptchaClient) (*AttendeeRecord, error)
}

// RemoteSource resolves tokens through the remote lookup API.
type RemoteSource struct {
	API    LookupAPI
	Logger Logger
}

func (s RemoteSource) Resolve(ctx context.Context, token string, captcha CaptchaClient) (*AttendeeRecord, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewError(KindValidation, "badge token is required", nil)
	}
	if s.API == nil {
		return nil, NewError(KindNotImpl, "lookup api not configured", nil)
	}

	captchaToken, err := AcquireToken(ctx, captcha, ActionBadgeView)
	if err != nil {
		return nil, err
	}

	record, err := s.API.Lookup(ctx, token, captchaToken)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Errorf("badge lookup %s: %v", token, err)
		}
		return nil, err
	}
	return &record, nil
}

// MockSource returns a fixed record after Delay.
type MockSource struct {
	Record AttendeeRecord
	Delay  time.Duration
}

// NewMockSource returns a MockSource with the default sample attendee.
func NewMockSource() MockSource {
	return MockSource{
		Record: AttendeeRecord{
			Name:        "Majdi B",
			Company:     "Jeddah Vision",
			Designation: "Developer",
			Type:        AttendeeVisitor,
			QRID:        "abc123",
		},
		Delay: DefaultMockDelay,
	}
}

func (s MockSource) Resolve(ctx context.Context, token string, _ CaptchaClient) (*AttendeeRecord, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewError(KindValidation, "badge token is required", nil)
	}
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	record := s.Record
	return &record, nil
}
