package expo

import (
	"context"
	"strings"
	"time"
)

// CAPTCHA actions.
const (
	ActionSubmit    = "submit"
	ActionBadgeView = "badge_view"
)

// CaptchaClient acquires action scoped assertion tokens.
type CaptchaClient interface {
	Ready(ctx context.Context) error
	Execute(ctx context.Context, action string) (string, error)
}

// ForwardedCaptcha returns a token produced in the browser and forwarded with the request.
type ForwardedCaptcha struct {
	Token string
}

func (c ForwardedCaptcha) Ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Token) == "" {
		return NewError(KindExternal, "captcha is not ready", nil)
	}
	return nil
}

func (c ForwardedCaptcha) Execute(ctx context.Context, action string) (string, error) {
	if err := c.Ready(ctx); err != nil {
		return "", err
	}
	return strings.TrimSpace(c.Token), nil
}

// StaticCaptcha always returns the same token.
type StaticCaptcha struct {
	Token string
}

func (c StaticCaptcha) Ready(ctx context.Context) error {
	return ctx.Err()
}

func (c StaticCaptcha) Execute(ctx context.Context, action string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.Token, nil
}

type timeoutCaptcha struct {
	next    CaptchaClient
	timeout time.Duration
}

// WithTimeout bounds Ready and Execute calls on client.
func WithTimeout(client CaptchaClient, timeout time.Duration) CaptchaClient {
	if client == nil || timeout <= 0 {
		return client
	}
	return timeoutCaptcha{next: client, timeout: timeout}
}

func (c timeoutCaptcha) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Ready(ctx)
}

func (c timeoutCaptcha) Execute(ctx context.Context, action string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Execute(ctx, action)
}

// AcquireToken waits for client readiness and returns a token for action.
func AcquireToken(ctx context.Context, client CaptchaClient, action string) (string, error) {
	if client == nil {
		return "", NewError(KindNotImpl, "captcha client not configured", nil)
	}
	if err := client.Ready(ctx); err != nil {
		return "", wrapCaptchaErr(err)
	}
	token, err := client.Execute(ctx, action)
	if err != nil {
		return "", wrapCaptchaErr(err)
	}
	if token == "" {
		return "", NewError(KindExternal, "captcha returned an empty token", nil)
	}
	return token, nil
}

func wrapCaptchaErr(err error) error {
	if KindFromError(err) != KindInternal {
		return err
	}
	return NewError(KindExternal, "captcha failed", err)
}
