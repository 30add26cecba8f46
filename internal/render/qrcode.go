package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// ShareCode returns a QR code image pointing at the session's share URL.
// If url is empty, it returns (nil, nil).
func ShareCode(url string, sizePx int) (image.Image, error) {
	if url == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qrCode.Image(sizePx), nil
}
