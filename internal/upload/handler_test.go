package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropgate/service/internal/storage"
)

const testPublicBase = "http://localhost:9000/uploads"

func newTestHandler() (*Handler, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage(testPublicBase)
	return NewHandler(store, NewGate(testSecret)), store
}

// multipartBody builds a multipart form with a single part under fieldName
// carrying an explicit part Content-Type.
func multipartBody(t *testing.T, fieldName, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func uploadRequest(t *testing.T, path, tok, fieldName, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	body, formType := multipartBody(t, fieldName, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", formType)
	if tok != "" {
		req.Header.Set(TokenHeader, tok)
	}
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Success, body.Message
}

func TestUploadMissingTokenWritesNothing(t *testing.T) {
	h, store := newTestHandler()

	req := uploadRequest(t, "/", "", "file", "a.jpg", "image/jpeg", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	success, message := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "missing token", message)
	assert.Equal(t, 0, store.Len(), "no store write may happen before admission")
}

func TestUploadInvalidToken(t *testing.T) {
	h, store := newTestHandler()

	req := uploadRequest(t, "/", "bogus", "file", "a.jpg", "image/jpeg", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeEnvelope(t, rec)
	assert.Equal(t, "invalid token", message)
	assert.Equal(t, 0, store.Len())
}

func TestUploadExpiredToken(t *testing.T) {
	h, store := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/jpeg"}, -time.Minute)

	req := uploadRequest(t, "/", tok, "file", "a.jpg", "image/jpeg", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeEnvelope(t, rec)
	assert.Equal(t, "expired token", message)
	assert.Equal(t, 0, store.Len())
}

func TestUploadNoFileField(t *testing.T) {
	h, store := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/jpeg"}, time.Hour)

	// Wrong field name
	req := uploadRequest(t, "/", tok, "document", "a.jpg", "image/jpeg", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, message := decodeEnvelope(t, rec)
	assert.Equal(t, "no file uploaded", message)

	// Not multipart at all
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	req.Header.Set(TokenHeader, tok)
	rec = httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, message = decodeEnvelope(t, rec)
	assert.Equal(t, "no file uploaded", message)

	assert.Equal(t, 0, store.Len())
}

func TestUploadSizeBoundary(t *testing.T) {
	h, store := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/jpeg"}, time.Hour)

	// Exactly maxSize is admitted.
	req := uploadRequest(t, "/", tok, "file", "exact.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 1024))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, store.Len())

	// One byte over is rejected.
	req = uploadRequest(t, "/", tok, "file", "over.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 1025))
	rec = httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, message := decodeEnvelope(t, rec)
	assert.Equal(t, "file too large", message)
	assert.Equal(t, 1, store.Len())
}

func TestUploadUnsupportedType(t *testing.T) {
	h, store := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/jpeg"}, time.Hour)

	for _, ct := range []string{"text/plain", "Image/JPEG", "image/jpeg; charset=utf-8"} {
		req := uploadRequest(t, "/", tok, "file", "a.bin", ct, []byte("hello"))
		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "content type %q", ct)
		_, message := decodeEnvelope(t, rec)
		assert.Equal(t, "unsupported file type", message, "content type %q", ct)
	}
	assert.Equal(t, 0, store.Len())
}

func TestUploadDerivedKey(t *testing.T) {
	h, _ := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/jpeg"}, time.Hour)

	req := uploadRequest(t, "/", tok, "file", "photo.jpg", "image/jpeg", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, strings.HasPrefix(body.URL, testPublicBase+"/"), "url %q", body.URL)
	assert.True(t, strings.HasSuffix(body.URL, ".jpg"), "url %q", body.URL)
}

func TestUploadCallerChosenKey(t *testing.T) {
	h, store := newTestHandler()
	tok := mintTestToken(t, 1024, []string{"image/png"}, time.Hour)

	req := uploadRequest(t, "/avatars/me.png", tok, "file", "whatever.png", "image/png", []byte("pixels"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testPublicBase+"/avatars/me.png", body.URL)
	assert.Equal(t, 1, store.Len())
}

func TestUploadFetchDeleteLifecycle(t *testing.T) {
	h, _ := newTestHandler()
	tok := mintTestToken(t, 10*1024*1024, []string{"image/jpeg"}, time.Hour)
	content := []byte("12345")

	// Upload
	req := uploadRequest(t, "/", tok, "file", "tiny.jpg", "image/jpeg", content)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	key := strings.TrimPrefix(body.URL, testPublicBase+"/")
	require.NotEmpty(t, key)

	// Fetch: identical bytes, declared content type, an entity tag
	rec = httptest.NewRecorder()
	h.Fetch(rec, httptest.NewRequest(http.MethodGet, "/"+key, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Etag"))

	// Delete
	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/"+key, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted!", rec.Body.String())

	// Fetch again: gone
	rec = httptest.NewRecorder()
	h.Fetch(rec, httptest.NewRequest(http.MethodGet, "/"+key, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Object Not Found", rec.Body.String())
}

func TestDeleteAbsentKey(t *testing.T) {
	h, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/never-existed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted!", rec.Body.String())
}

func TestFetchFromURL(t *testing.T) {
	h, store := newTestHandler()

	content := []byte("remote bytes")
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(content)
	}))
	defer src.Close()

	target := src.URL + "/files/pic.png"
	req := httptest.NewRequest(http.MethodPut, "/"+url.PathEscape(target), nil)
	rec := httptest.NewRecorder()
	h.FetchFromURL(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testPublicBase+"/pic.png", body.URL)

	obj, info, err := store.Get(req.Context(), "pic.png")
	require.NoError(t, err)
	defer obj.Close()
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 1, store.Len())
}

func TestFetchFromURLInvalid(t *testing.T) {
	h, store := newTestHandler()

	for _, path := range []string{"/not-a-url", "/ftp:%2F%2Fexample.com%2Ffile"} {
		req := httptest.NewRequest(http.MethodPut, path, nil)
		rec := httptest.NewRecorder()
		h.FetchFromURL(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "path %q", path)
		success, message := decodeEnvelope(t, rec)
		assert.False(t, success)
		assert.Equal(t, "Invalid URL", message)
	}
	assert.Equal(t, 0, store.Len())
}

func TestFetchFromURLUpstreamFailure(t *testing.T) {
	h, store := newTestHandler()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer src.Close()

	req := httptest.NewRequest(http.MethodPut, "/"+url.PathEscape(src.URL+"/missing.png"), nil)
	rec := httptest.NewRecorder()
	h.FetchFromURL(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	success, _ := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, 0, store.Len())
}
