package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmoreno/cv-studio/internal/qr"
)

// QRResponse is the body returned by POST /api/qr/{format}.
type QRResponse struct {
	Format  string `json:"format"`
	Payload string `json:"payload"`
}

// handleQR encodes a request body into the QR payload string for the format
// in the path. Encoding is pure string work; the client renders the actual
// image.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	format := qr.Format(r.PathValue("format"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<10))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	payload, err := qr.Decode(format, body)
	if err != nil {
		var unknown *qr.ErrUnknownFormat
		if errors.As(err, &unknown) {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, QRResponse{
		Format:  string(format),
		Payload: payload.Encode(),
	})
}
