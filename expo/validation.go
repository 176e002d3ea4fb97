package expo

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	errorslib "github.com/goliatone/go-errors"
)

const (
	msgName           = "Please enter your name."
	msgContact        = "Please enter your contact number."
	msgEmail          = "Please enter a email address."
	msgCompany        = "Please enter your company."
	msgCity           = "Please enter your city."
	msgCountry        = "Please enter your country."
	msgAttendanceType = "Please select how you are attending."
)

// NormalizeRegistration trims surrounding whitespace from every field.
func NormalizeRegistration(in RegistrationInput) RegistrationInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Designation = strings.TrimSpace(in.Designation)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.AttendanceType = strings.TrimSpace(in.AttendanceType)
	return in
}

// ValidateRegistration checks a registration against the form schema.
// Field errors are keyed by the JSON field name.
func ValidateRegistration(in RegistrationInput) error {
	types := make([]any, 0, len(AttendeeTypes))
	for _, t := range AttendeeTypes {
		types = append(types, string(t))
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error(msgName)),
		validation.Field(&in.Contact,
			validation.Required.Error(msgContact),
			validation.RuneLength(3, 0).Error(msgContact),
		),
		validation.Field(&in.Email,
			validation.Required.Error(msgEmail),
			is.EmailFormat.Error(msgEmail),
		),
		validation.Field(&in.Company, validation.Required.Error(msgCompany)),
		validation.Field(&in.City, validation.Required.Error(msgCity)),
		validation.Field(&in.Country, validation.Required.Error(msgCountry)),
		validation.Field(&in.AttendanceType,
			validation.Required.Error(msgAttendanceType),
			validation.In(types...).Error(msgAttendanceType),
		),
	)
	if err == nil {
		return nil
	}
	return errorslib.FromOzzoValidation(err, "registration is invalid").WithTextCode("validation")
}
