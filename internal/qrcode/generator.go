package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// PNG renders data as a QR code image of size x size pixels
func PNG(data string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
