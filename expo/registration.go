package expo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GenericFailureMessage is shown when a submission fails without a server message.
const GenericFailureMessage = "Something went wrong while submitting your registration. Please try again."

// Registrar validates and submits registrations.
type Registrar struct {
	API    RegistrationAPI
	Logger Logger
	Now    func() time.Time
	NewID  func() string
}

// NewRegistrar creates a registrar for api.
func NewRegistrar(api RegistrationAPI) *Registrar {
	return &Registrar{API: api}
}

// Submit validates in, acquires a submit token from captcha and posts the
// registration. Validation failures never reach the CAPTCHA client or the API.
func (r *Registrar) Submit(ctx context.Context, captcha CaptchaClient, in RegistrationInput) (Submission, error) {
	if r == nil || r.API == nil {
		return Submission{}, NewError(KindNotImpl, "registration api not configured", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	in = NormalizeRegistration(in)
	if err := ValidateRegistration(in); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:          r.newID(),
		SubmittedAt: r.now(),
	}

	token, err := AcquireToken(ctx, captcha, ActionSubmit)
	if err != nil {
		r.logger().Errorf("registration %s: captcha: %v", sub.ID, err)
		return r.failed(sub, err), err
	}

	payload := RegistrationPayload{RegistrationInput: in, CaptchaToken: token}
	if err := r.API.Register(ctx, sub.ID, payload); err != nil {
		r.logger().Errorf("registration %s: submit: %v", sub.ID, err)
		return r.failed(sub, err), err
	}

	sub.Status = SubmissionSubmitted
	r.logger().Infof("registration %s submitted", sub.ID)
	return sub, nil
}

func (r *Registrar) failed(sub Submission, err error) Submission {
	sub.Status = SubmissionFailed
	sub.Message = UserMessage(err, GenericFailureMessage)
	return sub
}

func (r *Registrar) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Registrar) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func (r *Registrar) logger() Logger {
	if r.Logger == nil {
		return NopLogger{}
	}
	return r.Logger
}
