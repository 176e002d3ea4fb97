package expo

import (
	"context"
	"testing"
	"time"
)

type blockingCaptcha struct{}

func (blockingCaptcha) Ready(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingCaptcha) Execute(ctx context.Context, action string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestForwardedCaptcha(t *testing.T) {
	token, err := AcquireToken(context.Background(), ForwardedCaptcha{Token: " tok "}, ActionSubmit)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if token != "tok" {
		t.Fatalf("unexpected token %q", token)
	}

	_, err = AcquireToken(context.Background(), ForwardedCaptcha{}, ActionSubmit)
	if KindFromError(err) != KindExternal {
		t.Fatalf("expected external error for missing token, got %v", err)
	}
}

func TestWithTimeout_BoundsAcquisition(t *testing.T) {
	client := WithTimeout(blockingCaptcha{}, 10*time.Millisecond)
	_, err := AcquireToken(context.Background(), client, ActionBadgeView)
	if KindFromError(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestAcquireToken_NilClient(t *testing.T) {
	_, err := AcquireToken(context.Background(), nil, ActionSubmit)
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}
