package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/otryad/join-bot/internal/domain/membership"
)

type detailResponse struct {
	Details string `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Details: detail})
}

// writeWorkflowError переводит бизнес-ошибки в 4xx с текстом,
// всё остальное — в безликий 500 (подробности уходят в лог и откат).
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, membership.ErrNotActive),
		errors.Is(err, membership.ErrAlreadyMember),
		errors.Is(err, membership.ErrDuplicateApplication):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "внутренняя ошибка")
	}
}
