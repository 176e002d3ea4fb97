package command

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

// SubmitRegistration validates and forwards a registration.
type SubmitRegistration struct {
	Input   expo.RegistrationInput
	Captcha expo.CaptchaClient
	Result  *expo.Submission
}

func (SubmitRegistration) Type() string { return "expo:registration:submit" }

func (msg SubmitRegistration) Validate() error {
	if msg.Captcha == nil {
		return errors.New("captcha client is required", errors.CategoryValidation).
			WithTextCode("CAPTCHA_REQUIRED")
	}
	return nil
}

// ExportBadge resolves a badge token and exports it as a PDF.
type ExportBadge struct {
	Token   string
	Captcha expo.CaptchaClient
	Result  **expo.BadgeDocument
}

func (ExportBadge) Type() string { return "expo:badge:export" }

func (msg ExportBadge) Validate() error {
	if strings.TrimSpace(msg.Token) == "" {
		return errors.New("badge token is required", errors.CategoryValidation).
			WithTextCode("TOKEN_REQUIRED")
	}
	if msg.Captcha == nil {
		return errors.New("captcha client is required", errors.CategoryValidation).
			WithTextCode("CAPTCHA_REQUIRED")
	}
	return nil
}
