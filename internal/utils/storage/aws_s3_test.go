package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestCheckFile(t *testing.T) {
	ct, err := CheckFile(fileHeader(t, "steak.png", pngHeader), AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = CheckFile(fileHeader(t, "notes.txt", []byte("plain text")), AllowImage...)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestPublicLinkRoundTrip(t *testing.T) {
	link := PublicLink("meatfresh", "ap-southeast-1", "scans/scan-1.jpg")
	assert.Equal(t, "https://meatfresh.s3.ap-southeast-1.amazonaws.com/scans/scan-1.jpg", link)
	assert.Equal(t, "scans/scan-1.jpg", ObjectKeyFromLink("meatfresh", "ap-southeast-1", link))
	assert.Equal(t, "", ObjectKeyFromLink("meatfresh", "ap-southeast-1", "https://example.com/a.jpg"))
}
