package upload

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dropgate/service/internal/response"
	"github.com/dropgate/service/internal/storage"
)

// multipartSlack is headroom on top of the token's max size for multipart
// framing (boundaries, part headers) when limiting the request body.
const multipartSlack = 1 << 20

// Handler holds HTTP handlers for object upload, fetch, and delete endpoints.
type Handler struct {
	store  storage.Storage
	gate   *Gate
	client *http.Client
}

// NewHandler creates a new upload Handler.
func NewHandler(store storage.Storage, gate *Gate) *Handler {
	return &Handler{
		store:  store,
		gate:   gate,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadData struct {
	Success bool   `json:"success" example:"true"`
	URL     string `json:"url"     example:"http://localhost:9000/uploads/e7eedc79.jpg"`
}

// Upload godoc
//
//	@Summary		Upload object
//	@Description	Store a multipart file upload under the path key, or a derived random key when the path is empty. Requires a valid capability token; the file must satisfy the token's size and content-type constraints.
//	@Tags			objects
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			Upload-Token	header		string	true	"Upload capability token"
//	@Param			file			formData	file	true	"File to store"
//	@Success		200				{object}	uploadData
//	@Failure		400				{object}	response.Envelope
//	@Failure		401				{object}	response.Envelope
//	@Failure		500				{object}	response.Envelope
//	@Router			/ [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	cons, gerr := h.gate.Check(r)
	if gerr != nil {
		response.Error(w, gerr.Status, gerr.Message)
		return
	}

	// Abort oversize bodies while they stream in rather than buffering the
	// whole payload first.
	r.Body = http.MaxBytesReader(w, r.Body, cons.MaxSize+multipartSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(w, "file too large")
			return
		}
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > cons.MaxSize {
		response.BadRequest(w, "file too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !cons.TypeAllowed(contentType) {
		response.BadRequest(w, "unsupported file type")
		return
	}

	key := DeriveKey(r.URL.Path, header.Filename)

	if err := h.store.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		log.Printf("upload: put %q: %v", key, err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, uploadData{Success: true, URL: h.store.PublicURL(key)})
}

// Fetch godoc
//
//	@Summary	Fetch object
//	@Tags		objects
//	@Produce	octet-stream
//	@Param		key	path	string	true	"Object key"
//	@Success	200
//	@Failure	404
//	@Failure	500
//	@Router		/{key} [get]
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	obj, info, err := h.store.Get(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		response.Text(w, http.StatusNotFound, "Object Not Found")
		return
	}
	if err != nil {
		log.Printf("upload: get %q: %v", key, err)
		response.Text(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Etag", info.ETag)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if _, err := io.Copy(w, obj); err != nil {
		log.Printf("upload: stream %q: %v", key, err)
	}
}

// FetchFromURL godoc
//
//	@Summary		Replace via URL fetch
//	@Description	Download the file at the URL given as the path key and store it under the URL's last path segment.
//	@Tags			objects
//	@Produce		json
//	@Param			key	path		string	true	"Source URL (http or https)"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/{key} [put]
func (h *Handler) FetchFromURL(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/")
	if dec, err := url.PathUnescape(raw); err == nil {
		raw = dec
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		response.BadRequest(w, "Invalid URL")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, raw, nil)
	if err != nil {
		response.BadRequest(w, "Invalid URL")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("upload: fetch %q: %v", raw, err)
		response.Error(w, http.StatusInternalServerError, "failed to fetch remote file")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("upload: fetch %q: status %s", raw, resp.Status)
		response.Error(w, http.StatusInternalServerError, "failed to fetch remote file")
		return
	}

	key := raw[strings.LastIndex(raw, "/")+1:]
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.store.Upload(r.Context(), key, resp.Body, resp.ContentLength, contentType); err != nil {
		log.Printf("upload: put %q: %v", key, err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"url": h.store.PublicURL(key)})
}

// Delete godoc
//
//	@Summary	Delete object
//	@Tags		objects
//	@Produce	plain
//	@Param		key	path	string	true	"Object key"
//	@Success	200
//	@Failure	500
//	@Router		/{key} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	if err := h.store.Delete(r.Context(), key); err != nil {
		log.Printf("upload: delete %q: %v", key, err)
		response.Text(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response.Text(w, http.StatusOK, "Deleted!")
}
