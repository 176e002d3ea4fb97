package query

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

// LookupBadgeHandler resolves badge tokens.
type LookupBadgeHandler struct {
	Badges *expo.Badges
}

func NewLookupBadgeHandler(badges *expo.Badges) *LookupBadgeHandler {
	return &LookupBadgeHandler{Badges: badges}
}

func (h *LookupBadgeHandler) Query(ctx context.Context, msg LookupBadge) (expo.AttendeeRecord, error) {
	if h == nil || h.Badges == nil {
		return expo.AttendeeRecord{}, errors.New("badges service is required", errors.CategoryInternal).
			WithTextCode("BADGES_REQUIRED")
	}
	record, err := h.Badges.Lookup(ctx, msg.Token, msg.Captcha)
	if err != nil {
		return expo.AttendeeRecord{}, err
	}
	if record == nil {
		return expo.AttendeeRecord{}, expo.NewError(expo.KindNotFound, "badge not found", nil)
	}
	return *record, nil
}

// BadgeCardHandler renders badge markup.
type BadgeCardHandler struct {
	Badges *expo.Badges
}

func NewBadgeCardHandler(badges *expo.Badges) *BadgeCardHandler {
	return &BadgeCardHandler{Badges: badges}
}

func (h *BadgeCardHandler) Query(ctx context.Context, msg BadgeCard) (string, error) {
	if h == nil || h.Badges == nil {
		return "", errors.New("badges service is required", errors.CategoryInternal).
			WithTextCode("BADGES_REQUIRED")
	}
	_, markup, err := h.Badges.Card(ctx, msg.Token, msg.Captcha)
	return markup, err
}
