package helpers

import (
	"github.com/skip2/go-qrcode"
)

// EncodeURLQR renders a URL as a PNG QR code, sized for lot signage.
func EncodeURLQR(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
