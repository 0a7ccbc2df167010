package api

import (
	"encoding/json"
	"net/http"

	texerr "github.com/imfine/texwire/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code texerr.Code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    string(code),
		Message: message,
	})
}

// respondErr maps a texwire error to its HTTP status. Internal details of
// uncoded errors are logged, not returned.
func (s *Server) respondErr(w http.ResponseWriter, op string, err error) {
	code := texerr.GetCode(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op, "err", err)
		s.respondError(w, status, code, op+" failed")
		return
	}
	s.respondError(w, status, code, texerr.UserMessage(err))
}

func statusOf(code texerr.Code) int {
	switch code {
	case texerr.ErrCodeInvalidInput, texerr.ErrCodeInvalidFormat, texerr.ErrCodeInvalidPath,
		texerr.ErrCodeInvalidMaterial:
		return http.StatusBadRequest
	case texerr.ErrCodeNoGraph:
		return http.StatusNotFound
	case texerr.ErrCodeUnsupported, texerr.ErrCodeNoMaterialNode, texerr.ErrCodeNoTextures:
		return http.StatusUnprocessableEntity
	case texerr.ErrCodeTxFailed:
		return http.StatusConflict
	case texerr.ErrCodeStore:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
