// Package imagex decodes product images and re-encodes them for upload.
package imagex

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// UploadQuality is the JPEG quality used for every uploaded or queued image.
const UploadQuality = 80

// Decode decodes JPEG, PNG or GIF bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodeJPEG encodes img at UploadQuality.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: UploadQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Reencode turns any supported image into upload-ready JPEG bytes.
// Empty input yields nil without error.
func Reencode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(img)
}
