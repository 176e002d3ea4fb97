package query

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

// LookupBadge requests the attendee record behind a badge token.
type LookupBadge struct {
	Token   string
	Captcha expo.CaptchaClient
}

func (LookupBadge) Type() string { return "expo:badge:lookup" }

func (msg LookupBadge) Validate() error {
	if strings.TrimSpace(msg.Token) == "" {
		return errors.New("badge token is required", errors.CategoryValidation).
			WithTextCode("TOKEN_REQUIRED")
	}
	return nil
}

// BadgeCard requests the rendered badge markup for a token.
type BadgeCard struct {
	Token   string
	Captcha expo.CaptchaClient
}

func (BadgeCard) Type() string { return "expo:badge:card" }

func (msg BadgeCard) Validate() error {
	if strings.TrimSpace(msg.Token) == "" {
		return errors.New("badge token is required", errors.CategoryValidation).
			WithTextCode("TOKEN_REQUIRED")
	}
	return nil
}
