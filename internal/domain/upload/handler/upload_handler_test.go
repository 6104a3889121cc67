package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, r io.Reader, folder, ext, contentType string) (string, error) {
	args := m.Called(ctx, r, folder, ext, contentType)
	return args.String(0), args.Error(1)
}

type rejectionCounter struct {
	reasons []string
}

func (r *rejectionCounter) RecordUploadRejected(reason string) {
	r.reasons = append(r.reasons, reason)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	return multipartRequestTo(t, "/api/upload", field, filename, contentType, content)
}

func multipartRequestTo(t *testing.T, path, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func setupRouter(h *UploadHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func TestUploadImage(t *testing.T) {
	t.Run("Valid png is stored and url returned", func(t *testing.T) {
		up := new(MockUploader)
		r := setupRouter(NewUploadHandler(up, 5<<20, nil, nil))
		up.On("Upload", mock.Anything, mock.Anything, UploadFolder, ".png", "image/png").
			Return("https://cdn.example.com/campaigns/20260301/a.png", nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, FormField, "ref.png", "image/png", pngBytes(t)))

		require.Equal(t, http.StatusOK, w.Code)
		var env map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "https://cdn.example.com/campaigns/20260301/a.png", env["data"].(map[string]interface{})["imageUrl"])
		up.AssertExpectations(t)
	})

	t.Run("Disguised text never reaches storage", func(t *testing.T) {
		up := new(MockUploader)
		rec := &rejectionCounter{}
		r := setupRouter(NewUploadHandler(up, 5<<20, rec, nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, FormField, "evil.png", "image/png", []byte("#!/bin/sh\necho pwned\n")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"not_image"}, rec.reasons)
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Oversized file never reaches storage", func(t *testing.T) {
		up := new(MockUploader)
		rec := &rejectionCounter{}
		r := setupRouter(NewUploadHandler(up, 64, rec, nil))

		content := append(pngBytes(t), bytes.Repeat([]byte{0}, 128)...)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, FormField, "big.png", "image/png", content))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"too_large"}, rec.reasons)
		up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong field name", func(t *testing.T) {
		up := new(MockUploader)
		r := setupRouter(NewUploadHandler(up, 5<<20, nil, nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "files", "ref.png", "image/png", pngBytes(t)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUploadImageAlias(t *testing.T) {
	for _, path := range []string{"/api/upload", "/api/upload/image"} {
		t.Run(path, func(t *testing.T) {
			up := new(MockUploader)
			r := setupRouter(NewUploadHandler(up, 5<<20, nil, nil))
			up.On("Upload", mock.Anything, mock.Anything, UploadFolder, ".png", "image/png").
				Return("https://cdn.example.com/campaigns/20260301/b.png", nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequestTo(t, path, FormField, "ref.png", "image/png", pngBytes(t)))

			require.Equal(t, http.StatusOK, w.Code)
			var env map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, "https://cdn.example.com/campaigns/20260301/b.png", env["data"].(map[string]interface{})["imageUrl"])
			up.AssertExpectations(t)
		})
	}
}
