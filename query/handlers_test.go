package query

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-expo/expo"
)

type stubLookup struct {
	tokens []string
	err    error
}

func (l *stubLookup) Lookup(ctx context.Context, token, captchaToken string) (expo.AttendeeRecord, error) {
	l.tokens = append(l.tokens, captchaToken)
	if l.err != nil {
		return expo.AttendeeRecord{}, l.err
	}
	return expo.AttendeeRecord{Name: "Majdi B", Company: "Jeddah Vision", Type: expo.AttendeeVisitor, QRID: token}, nil
}

func TestLookupBadgeHandler_ForwardsCaptcha(t *testing.T) {
	lookup := &stubLookup{}
	handler := NewLookupBadgeHandler(&expo.Badges{Source: expo.RemoteSource{API: lookup}})

	record, err := handler.Query(context.Background(), LookupBadge{
		Token:   "abc123",
		Captcha: expo.StaticCaptcha{Token: "cap"},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if record.QRID != "abc123" {
		t.Fatalf("expected qr id abc123, got %q", record.QRID)
	}
	if len(lookup.tokens) != 1 || lookup.tokens[0] != "cap" {
		t.Fatalf("expected captcha token to be forwarded, got %v", lookup.tokens)
	}
}

func TestLookupBadgeHandler_NotFound(t *testing.T) {
	lookup := &stubLookup{err: expo.NewError(expo.KindNotFound, "badge not found", nil)}
	handler := NewLookupBadgeHandler(&expo.Badges{Source: expo.RemoteSource{API: lookup}})

	_, err := handler.Query(context.Background(), LookupBadge{Token: "missing", Captcha: expo.StaticCaptcha{Token: "cap"}})
	if expo.KindFromError(err) != expo.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLookupBadge_Validate(t *testing.T) {
	if err := (LookupBadge{Token: "  "}).Validate(); err == nil {
		t.Fatalf("expected token validation error")
	}
	if err := (LookupBadge{Token: "abc"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBadgeCardHandler_Renders(t *testing.T) {
	source := expo.NewMockSource()
	source.Delay = 0
	handler := NewBadgeCardHandler(&expo.Badges{Source: source})

	markup, err := handler.Query(context.Background(), BadgeCard{Token: "abc123"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(markup, `id="badge"`) || !strings.Contains(markup, "Majdi B") {
		t.Fatalf("expected rendered badge markup")
	}
}

func TestHandlers_RequireBadges(t *testing.T) {
	if _, err := NewLookupBadgeHandler(nil).Query(context.Background(), LookupBadge{Token: "x"}); err == nil {
		t.Fatalf("expected error without badges service")
	}
	if _, err := NewBadgeCardHandler(nil).Query(context.Background(), BadgeCard{Token: "x"}); err == nil {
		t.Fatalf("expected error without badges service")
	}
}
