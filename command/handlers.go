package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

// SubmitRegistrationHandler handles registration submissions.
type SubmitRegistrationHandler struct {
	Registrar *expo.Registrar
}

func NewSubmitRegistrationHandler(registrar *expo.Registrar) *SubmitRegistrationHandler {
	return &SubmitRegistrationHandler{Registrar: registrar}
}

func (h *SubmitRegistrationHandler) Execute(ctx context.Context, msg SubmitRegistration) error {
	if h == nil || h.Registrar == nil {
		return errors.New("registrar is required", errors.CategoryInternal).
			WithTextCode("REGISTRAR_REQUIRED")
	}
	sub, err := h.Registrar.Submit(ctx, msg.Captcha, msg.Input)
	if msg.Result != nil {
		*msg.Result = sub
	}
	if err != nil {
		return err
	}
	if res := gcmd.ResultFromContext[expo.Submission](ctx); res != nil {
		res.Store(sub)
	}
	return nil
}

// ExportBadgeHandler exports badge PDFs.
type ExportBadgeHandler struct {
	Badges *expo.Badges
}

func NewExportBadgeHandler(badges *expo.Badges) *ExportBadgeHandler {
	return &ExportBadgeHandler{Badges: badges}
}

// Execute stores a nil document when there was nothing to export.
func (h *ExportBadgeHandler) Execute(ctx context.Context, msg ExportBadge) error {
	if h == nil || h.Badges == nil {
		return errors.New("badges service is required", errors.CategoryInternal).
			WithTextCode("BADGES_REQUIRED")
	}
	doc, err := h.Badges.Download(ctx, msg.Token, msg.Captcha)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = doc
	}
	if res := gcmd.ResultFromContext[*expo.BadgeDocument](ctx); res != nil {
		res.Store(doc)
	}
	return nil
}
