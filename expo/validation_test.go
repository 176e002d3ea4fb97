package expo

import "testing"

func validInput() RegistrationInput {
	return RegistrationInput{
		Name:           "Majdi B",
		Contact:        "0548037872",
		Email:          "majdi@example.com",
		Company:        "Jeddah Vision",
		City:           "Jeddah",
		Country:        "Saudi Arabia",
		AttendanceType: "Visitor",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	if err := ValidateRegistration(validInput()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateRegistration_DesignationOptional(t *testing.T) {
	in := validInput()
	in.Designation = ""
	if err := ValidateRegistration(in); err != nil {
		t.Fatalf("designation should be optional: %v", err)
	}
}

func TestValidateRegistration_SingleFieldErrors(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*RegistrationInput)
		msg    string
	}{
		{"name", func(in *RegistrationInput) { in.Name = "" }, msgName},
		{"contact", func(in *RegistrationInput) { in.Contact = "" }, msgContact},
		{"contact", func(in *RegistrationInput) { in.Contact = "05" }, msgContact},
		{"email", func(in *RegistrationInput) { in.Email = "" }, msgEmail},
		{"email", func(in *RegistrationInput) { in.Email = "not-an-email" }, msgEmail},
		{"company", func(in *RegistrationInput) { in.Company = "" }, msgCompany},
		{"city", func(in *RegistrationInput) { in.City = "" }, msgCity},
		{"country", func(in *RegistrationInput) { in.Country = "" }, msgCountry},
		{"attendanceType", func(in *RegistrationInput) { in.AttendanceType = "" }, msgAttendanceType},
		{"attendanceType", func(in *RegistrationInput) { in.AttendanceType = "Speaker" }, msgAttendanceType},
	}

	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		err := ValidateRegistration(in)
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.field)
		}
		fields := FieldErrors(err)
		if len(fields) != 1 {
			t.Fatalf("%s: expected exactly one field error, got %v", tc.field, fields)
		}
		if fields[tc.field] != tc.msg {
			t.Fatalf("%s: expected %q, got %q", tc.field, tc.msg, fields[tc.field])
		}
	}
}

func TestValidateRegistration_EmptyReportsEveryRequiredField(t *testing.T) {
	fields := FieldErrors(ValidateRegistration(RegistrationInput{}))
	for _, field := range []string{"name", "contact", "email", "company", "city", "country", "attendanceType"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, fields)
		}
	}
	if _, ok := fields["designation"]; ok {
		t.Fatalf("designation must not be reported")
	}
}

func TestNormalizeRegistration_Trims(t *testing.T) {
	in := NormalizeRegistration(RegistrationInput{Name: "  Majdi  ", AttendanceType: " Exhibitor\n"})
	if in.Name != "Majdi" || in.AttendanceType != "Exhibitor" {
		t.Fatalf("unexpected normalized input: %+v", in)
	}
	if err := ValidateRegistration(NormalizeRegistration(RegistrationInput{Name: "   "})); FieldErrors(err)["name"] != msgName {
		t.Fatalf("whitespace-only name should be rejected")
	}
}
