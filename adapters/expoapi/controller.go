package expoapi

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

const (
	badgeLoadFailedMessage = "Unable to load badge data."
	publicPrefix           = "/public/"
)

// CaptchaFactory builds the CAPTCHA client for a request given the forwarded token.
type CaptchaFactory func(token string) expo.CaptchaClient

// Config configures the shared expo controller.
type Config struct {
	Registrar      *expo.Registrar
	Badges         *expo.Badges
	Captcha        CaptchaFactory
	CaptchaTimeout time.Duration
	Views          *Views
	Branding       expo.Branding
	SiteKey        string
	VideoID        string
	Logger         expo.Logger
}

// Controller exposes the registration and badge pages for multiple transports.
type Controller struct {
	registrar      *expo.Registrar
	badges         *expo.Badges
	captcha        CaptchaFactory
	captchaTimeout time.Duration
	views          *Views
	branding       expo.Branding
	siteKey        string
	videoID        string
	logger         expo.Logger
	public         fs.FS
}

// NewController creates a shared expo controller.
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = expo.NopLogger{}
	}
	views := cfg.Views
	if views == nil {
		views = NewViews()
	}
	captcha := cfg.Captcha
	if captcha == nil {
		captcha = func(token string) expo.CaptchaClient {
			return expo.ForwardedCaptcha{Token: token}
		}
	}
	branding := cfg.Branding
	if branding == (expo.Branding{}) {
		branding = expo.DefaultBranding()
	}
	videoID := cfg.VideoID
	if videoID == "" {
		videoID = DefaultVideoID
	}
	return &Controller{
		registrar:      cfg.Registrar,
		badges:         cfg.Badges,
		captcha:        captcha,
		captchaTimeout: cfg.CaptchaTimeout,
		views:          views,
		branding:       branding,
		siteKey:        strings.TrimSpace(cfg.SiteKey),
		videoID:        videoID,
		logger:         logger,
		public:         PublicFS(),
	}
}

// Serve routes expo endpoints using the shared controller.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil {
		WriteError(res, expo.NewError(expo.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, expo.NewError(expo.KindInternal, "request is nil", nil))
		return
	}

	p := req.Path()
	if strings.HasPrefix(p, publicPrefix) {
		c.handlePublic(req, res, strings.TrimPrefix(p, publicPrefix))
		return
	}

	parts := []string{}
	if trimmed := strings.Trim(p, "/"); trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	switch {
	case len(parts) == 0:
		if !allowMethods(req, res, http.MethodGet) {
			return
		}
		_ = res.Redirect("/register", http.StatusFound)
	case len(parts) == 1 && parts[0] == "healthz":
		if !allowMethods(req, res, http.MethodGet) {
			return
		}
		_ = res.WriteJSON(http.StatusOK, map[string]string{"status": "ok"})
	case len(parts) == 1 && parts[0] == "register":
		if !allowMethods(req, res, http.MethodGet, http.MethodPost) {
			return
		}
		if req.Method() == http.MethodPost {
			c.handleRegisterForm(req, res)
			return
		}
		c.renderForm(res, http.StatusOK, formState{})
	case len(parts) == 2 && parts[0] == "api" && parts[1] == "registrations":
		if !allowMethods(req, res, http.MethodPost) {
			return
		}
		c.handleRegisterJSON(req, res)
	case len(parts) >= 2 && len(parts) <= 3 && parts[0] == "badge":
		if !allowMethods(req, res, http.MethodGet) {
			return
		}
		token := parts[1]
		if len(parts) == 2 {
			c.handleBadgePage(res, token)
			return
		}
		switch parts[2] {
		case "card":
			c.handleBadgeCard(req, res, token)
		case "download":
			c.handleBadgeDownload(req, res, token)
		default:
			writeNotFound(res)
		}
	default:
		writeNotFound(res)
	}
}

type formState struct {
	input     expo.RegistrationInput
	errors    map[string]string
	banner    string
	submitted bool
}

func (c *Controller) handleRegisterForm(req Request, res Response) {
	in, token := decodeForm(req)
	sub, err := c.submit(req, in, token)
	if err != nil {
		if fields := expo.FieldErrors(err); len(fields) > 0 {
			c.renderForm(res, http.StatusUnprocessableEntity, formState{input: in, errors: fields})
			return
		}
		c.renderForm(res, statusForError(expo.AsGoError(err)), formState{
			input:  in,
			banner: expo.UserMessage(err, expo.GenericFailureMessage),
		})
		return
	}
	c.logger.Infof("registration %s accepted", sub.ID)
	c.renderForm(res, http.StatusOK, formState{submitted: true})
}

func (c *Controller) handleRegisterJSON(req Request, res Response) {
	payload, err := decodeJSON(req)
	if err != nil {
		WriteError(res, err)
		return
	}
	token := strings.TrimSpace(payload.CaptchaToken)
	if token == "" {
		token = captchaTokenFrom(req)
	}

	sub, err := c.submit(req, payload.RegistrationInput, token)
	if err != nil {
		ge := expo.AsGoError(err)
		if ge.Category == errorslib.CategoryValidation && len(ge.ValidationErrors) > 0 {
			_ = res.WriteJSON(http.StatusUnprocessableEntity, ge.ToErrorResponse(false, nil))
			return
		}
		_ = res.WriteJSON(statusForError(ge), ErrorResponse{Error: ErrorBody{
			Message: expo.UserMessage(err, expo.GenericFailureMessage),
			Code:    ge.TextCode,
		}})
		return
	}
	_ = res.WriteJSON(http.StatusCreated, RegistrationResponse{ID: sub.ID, Status: string(sub.Status)})
}

func (c *Controller) submit(req Request, in expo.RegistrationInput, token string) (expo.Submission, error) {
	if c.registrar == nil {
		return expo.Submission{}, expo.NewError(expo.KindNotImpl, "registration is not configured", nil)
	}
	return c.registrar.Submit(req.Context(), c.captchaFor(token), in)
}

func (c *Controller) handleBadgePage(res Response, token string) {
	base := "/badge/" + token
	c.renderPage(res, http.StatusOK, "badge_page.html", pongo2.Context{
		"card_url":     base + "/card",
		"download_url": base + "/download",
	})
}

func (c *Controller) handleBadgeCard(req Request, res Response, token string) {
	if c.badges == nil {
		c.renderBadgeError(res, expo.NewError(expo.KindNotImpl, "badges are not configured", nil))
		return
	}
	_, markup, err := c.badges.Card(req.Context(), token, c.captchaFor(captchaTokenFrom(req)))
	if err != nil {
		c.logger.Errorf("badge card %s: %v", token, err)
		c.renderBadgeError(res, err)
		return
	}
	res.SetHeader("Content-Type", "text/html; charset=utf-8")
	res.SetHeader("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write([]byte(markup))
}

func (c *Controller) handleBadgeDownload(req Request, res Response, token string) {
	if c.badges == nil {
		WriteError(res, expo.NewError(expo.KindNotImpl, "badges are not configured", nil))
		return
	}
	doc, err := c.badges.Download(req.Context(), token, c.captchaFor(captchaTokenFrom(req)))
	if err != nil {
		c.logger.Errorf("badge download %s: %v", token, err)
		WriteError(res, err)
		return
	}
	if doc == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	res.SetHeader("Content-Type", doc.ContentType)
	res.SetHeader("Content-Disposition", contentDisposition(doc.Filename))
	res.SetHeader("Content-Length", strconv.Itoa(len(doc.PDF)))
	res.SetHeader("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write(doc.PDF)
}

func (c *Controller) handlePublic(req Request, res Response, name string) {
	if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
		writeNotFound(res)
		return
	}
	name = path.Clean("/" + name)[1:]
	data, err := fs.ReadFile(c.public, name)
	if err != nil || name == "" {
		writeNotFound(res)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Cache-Control", "public, max-age=86400")
	res.WriteHeader(http.StatusOK)
	if req.Method() == http.MethodGet {
		_, _ = res.Write(data)
	}
}

func (c *Controller) renderForm(res Response, status int, state formState) {
	c.renderPage(res, status, "register.html", pongo2.Context{
		"fields":             registrationFields(state.input, state.errors),
		"attendance_types":   attendanceOptions(),
		"default_attendance": string(expo.AttendeeVisitor),
		"banner":             state.banner,
		"submitted":          state.submitted,
		"video_id":           c.videoID,
	})
}

func (c *Controller) renderBadgeError(res Response, err error) {
	c.renderPage(res, statusForError(expo.AsGoError(err)), "error.html", pongo2.Context{
		"title":   "Badge unavailable",
		"message": expo.UserMessage(err, badgeLoadFailedMessage),
	})
}

func (c *Controller) renderPage(res Response, status int, name string, data pongo2.Context) {
	data["branding"] = c.branding
	data["site_key"] = c.siteKey
	out, err := c.views.Render(name, data)
	if err != nil {
		c.logger.Errorf("render %s: %v", name, err)
		WriteError(res, err)
		return
	}
	res.SetHeader("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	_, _ = res.Write(out)
}

func (c *Controller) captchaFor(token string) expo.CaptchaClient {
	return expo.WithTimeout(c.captcha(token), c.captchaTimeout)
}

func allowMethods(req Request, res Response, methods ...string) bool {
	for _, method := range methods {
		if req.Method() == method {
			return true
		}
	}
	res.SetHeader("Allow", strings.Join(methods, ","))
	res.WriteHeader(http.StatusMethodNotAllowed)
	return false
}

func writeNotFound(res Response) {
	res.SetHeader("Content-Type", "text/plain; charset=utf-8")
	res.SetHeader("X-Content-Type-Options", "nosniff")
	res.WriteHeader(http.StatusNotFound)
	_, _ = res.Write([]byte("404 page not found\n"))
}

// WriteError writes err as a JSON error response.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	ge := expo.AsGoError(err)
	_ = res.WriteJSON(statusForError(ge), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.TextCode {
	case "not_implemented":
		return http.StatusNotImplemented
	case "timeout":
		return http.StatusGatewayTimeout
	case "canceled":
		return http.StatusServiceUnavailable
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryExternal:
		return http.StatusBadGateway
	case errorslib.CategoryOperation:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func contentDisposition(filename string) string {
	if value := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); value != "" {
		return value
	}
	return `attachment; filename="badge.pdf"`
}
