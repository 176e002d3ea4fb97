package expo

import (
	"net/url"
	"strings"
)

const (
	DefaultBadgePublicURL = "https://hotel-hospitality-register.vercel.app/badge-registration/"
	DefaultQRServiceURL   = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultQRSize         = "150x150"
)

// QRProvider returns an image source for a badge QR code.
type QRProvider interface {
	ImageSource(qrID string) (string, error)
}

// BadgeURL returns the public badge address encoded into QR codes.
func BadgeURL(publicURL, qrID string) string {
	if publicURL == "" {
		publicURL = DefaultBadgePublicURL
	}
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}
	return publicURL + qrID
}

// ExternalQR points at a remote QR image service.
type ExternalQR struct {
	ServiceURL string
	PublicURL  string
	Size       string
}

func (q ExternalQR) ImageSource(qrID string) (string, error) {
	service := q.ServiceURL
	if service == "" {
		service = DefaultQRServiceURL
	}
	size := q.Size
	if size == "" {
		size = DefaultQRSize
	}
	u, err := url.Parse(service)
	if err != nil {
		return "", NewError(KindInternal, "invalid qr service url", err)
	}
	values := u.Query()
	values.Set("data", BadgeURL(q.PublicURL, qrID))
	values.Set("size", size)
	u.RawQuery = values.Encode()
	return u.String(), nil
}
