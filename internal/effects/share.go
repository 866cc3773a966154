package effects

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
)

// ShareCode renders link as a QR code image of side pixels.
func ShareCode(link string, side int) (image.Image, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	q.DisableBorder = true
	return q.Image(side), nil
}

// ShareCodePNG renders link as PNG bytes.
func ShareCodePNG(link string, side int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, side)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}

func (r *Rasterizer) shareCode(link string, side int) (image.Image, error) {
	key := fmt.Sprintf("%s@%d", link, side)
	r.mu.Lock()
	img, ok := r.shares[key]
	r.mu.Unlock()
	if ok {
		return img, nil
	}
	img, err := ShareCode(link, side)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.shares[key] = img
	r.mu.Unlock()
	return img, nil
}
