package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/storage"
)

const (
	codeBadRequest      = "bad_request"
	codeInvalidGenotype = "invalid_genotype"
	codeNotFound        = "not_found"
	codeInternal        = "internal_error"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeError writes the error body. Internal errors never carry a
// description.
func writeError(w http.ResponseWriter, status int, code, description string) {
	if status >= http.StatusInternalServerError {
		description = ""
	}
	writeJSON(w, status, errorResponse{Error: code, ErrorDescription: description})
}

// writeServiceError maps service errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, genetics.ErrInvalidAllele), errors.Is(err, genetics.ErrInvalidGenotype):
		writeError(w, http.StatusBadRequest, codeInvalidGenotype, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "")
	}
}

func isInternal(err error) bool {
	return !errors.Is(err, genetics.ErrInvalidAllele) &&
		!errors.Is(err, genetics.ErrInvalidGenotype) &&
		!errors.Is(err, storage.ErrNotFound)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
