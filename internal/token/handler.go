package token

import (
	"errors"
	"log"
	"net/http"

	"github.com/dropgate/service/internal/response"
)

// Handler holds HTTP handlers for token endpoints.
type Handler struct {
	issuer *Issuer
}

// NewHandler creates a new token Handler.
func NewHandler(issuer *Issuer) *Handler {
	return &Handler{issuer: issuer}
}

type issueData struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token"   example:"eyJhbGci..."`
}

// Issue godoc
//
//	@Summary		Issue upload token
//	@Description	Mint a short-lived capability token for uploading. The token embeds the server's upload policy (TTL, max size, allowed content types).
//	@Tags			tokens
//	@Produce		json
//	@Param			X-API-Key	header		string	true	"Internal API key"
//	@Success		200			{object}	issueData
//	@Failure		403			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/get-upload-token [post]
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	tok, err := h.issuer.Issue(r.Header.Get("X-API-Key"))
	if errors.Is(err, ErrForbidden) {
		response.Forbidden(w, "invalid API key")
		return
	}
	if err != nil {
		log.Printf("token: mint failed: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, issueData{Success: true, Token: tok})
}
