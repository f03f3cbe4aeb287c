// Package qr renders scannable codes as PNG data URIs.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const dataURIPrefix = "data:image/png;base64,"

type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 256
	}
	return &Renderer{size: size, level: qrcode.Medium}
}

// DataURI encodes content as a QR code and returns it as a data URI.
func (r *Renderer) DataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
