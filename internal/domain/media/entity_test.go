package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodedImageRoundTrip(t *testing.T) {
	img := NewEncodedImage(TypeJPEG, []byte{0xff, 0xd8, 0xff})

	assert.Equal(t, "data:image/jpeg;base64,/9j/", string(img))
	assert.Equal(t, TypeJPEG, img.MediaType())

	b64, err := img.Base64()
	require.NoError(t, err)
	assert.Equal(t, "/9j/", b64)

	data, err := img.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestEncodedImageRejectsPlainString(t *testing.T) {
	img := EncodedImage("https://example.com/a.jpg")

	assert.Empty(t, img.MediaType())
	_, err := img.Bytes()
	assert.ErrorIs(t, err, ErrNotDataURL)
}
