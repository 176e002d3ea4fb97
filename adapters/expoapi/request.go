package expoapi

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goliatone/go-expo/expo"
)

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
	FormValue(name string) string
	Body() io.ReadCloser
}

func decodeForm(req Request) (expo.RegistrationInput, string) {
	in := expo.RegistrationInput{
		Name:           req.FormValue("name"),
		Contact:        req.FormValue("contact"),
		Email:          req.FormValue("email"),
		Company:        req.FormValue("company"),
		Designation:    req.FormValue("designation"),
		City:           req.FormValue("city"),
		Country:        req.FormValue("country"),
		AttendanceType: req.FormValue("attendanceType"),
	}
	return in, strings.TrimSpace(req.FormValue("captchaToken"))
}

func decodeJSON(req Request) (expo.RegistrationPayload, error) {
	body := req.Body()
	if body == nil {
		return expo.RegistrationPayload{}, expo.NewError(expo.KindValidation, "request body is required", nil)
	}
	defer body.Close()

	var payload expo.RegistrationPayload
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return expo.RegistrationPayload{}, expo.NewError(expo.KindValidation, "invalid request payload", err)
	}
	return payload, nil
}

func captchaTokenFrom(req Request) string {
	if token := strings.TrimSpace(req.Query("captchaToken")); token != "" {
		return token
	}
	return strings.TrimSpace(req.Header("X-Captcha-Token"))
}
