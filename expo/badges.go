package expo

import "context"

// Badges resolves, renders and exports attendee badges.
type Badges struct {
	Source   AttendeeSource
	Renderer *BadgeRenderer
	Exporter *Exporter
}

// Lookup resolves token into an attendee record.
func (b *Badges) Lookup(ctx context.Context, token string, captcha CaptchaClient) (*AttendeeRecord, error) {
	if b == nil || b.Source == nil {
		return nil, NewError(KindNotImpl, "badge source not configured", nil)
	}
	return b.Source.Resolve(ctx, token, captcha)
}

// Card resolves token and renders its badge document.
func (b *Badges) Card(ctx context.Context, token string, captcha CaptchaClient) (*AttendeeRecord, string, error) {
	record, err := b.Lookup(ctx, token, captcha)
	if err != nil {
		return nil, "", err
	}
	markup, err := b.renderer().Render(record)
	if err != nil {
		return nil, "", err
	}
	return record, markup, nil
}

// Download resolves, renders and exports the badge for token.
// It returns (nil, nil) when there is nothing to export.
func (b *Badges) Download(ctx context.Context, token string, captcha CaptchaClient) (*BadgeDocument, error) {
	record, markup, err := b.Card(ctx, token, captcha)
	if err != nil {
		return nil, err
	}
	if b.Exporter == nil {
		return nil, NewError(KindNotImpl, "badge exporter not configured", nil)
	}
	return b.Exporter.Export(ctx, markup, record)
}

func (b *Badges) renderer() *BadgeRenderer {
	if b.Renderer == nil {
		return NewBadgeRenderer(DefaultBranding(), nil)
	}
	return b.Renderer
}
