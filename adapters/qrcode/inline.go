// Package expoqr renders badge QR codes locally.
package expoqr

import (
	"encoding/base64"

	"github.com/goliatone/go-expo/expo"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the QR image edge length in pixels.
const DefaultSize = 150

// InlineQR encodes badge QR codes as PNG data URIs.
type InlineQR struct {
	PublicURL string
	Size      int
}

func (q InlineQR) ImageSource(qrID string) (string, error) {
	size := q.Size
	if size <= 0 {
		size = DefaultSize
	}
	data, err := qrcode.Encode(expo.BadgeURL(q.PublicURL, qrID), qrcode.Medium, size)
	if err != nil {
		return "", expo.NewError(expo.KindInternal, "encode qr code", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
