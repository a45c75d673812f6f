package media

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Allowed media types untuk intake
const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypeWEBP = "image/webp"
)

// RawInput file mentah dari user, tidak pernah dipersist
type RawInput struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size panjang byte sebenarnya
func (r RawInput) Size() int64 { return int64(len(r.Data)) }

// EncodedImage payload hasil transcode dalam bentuk data URL
// (data:image/jpeg;base64,...). Immutable.
type EncodedImage string

var ErrNotDataURL = errors.New("media: not a base64 data url")

// NewEncodedImage bungkus bytes jadi data URL
func NewEncodedImage(mediaType string, data []byte) EncodedImage {
	return EncodedImage("data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func (e EncodedImage) split() (string, string, error) {
	s := string(e)
	if !strings.HasPrefix(s, "data:") {
		return "", "", ErrNotDataURL
	}
	head, body, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(head, ";base64") {
		return "", "", ErrNotDataURL
	}
	return strings.TrimSuffix(head, ";base64"), body, nil
}

// MediaType dari header data URL, kosong kalau bukan data URL
func (e EncodedImage) MediaType() string {
	mt, _, err := e.split()
	if err != nil {
		return ""
	}
	return mt
}

// Base64 payload tanpa prefix "data:...;base64,"
func (e EncodedImage) Base64() (string, error) {
	_, body, err := e.split()
	return body, err
}

// Bytes decode payload
func (e EncodedImage) Bytes() ([]byte, error) {
	body, err := e.Base64()
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(body)
}
