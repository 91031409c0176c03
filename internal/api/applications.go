package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
)

// flexInt64 принимает telegram_id и числом, и строкой:
// фронт Mini App исторически шлёт строку.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt64(n)
	return nil
}

type submitRequest struct {
	FullName         string    `json:"full_name"`
	TelegramID       flexInt64 `json:"telegram_id"`
	TelegramUserName string    `json:"telegram_user_name"`
	PhoneNumber      string    `json:"phone_number"`
}

type applicationResponse struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	TelegramID       int64  `json:"telegram_id"`
	TelegramUserName string `json:"telegram_user_name"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

func toApplicationResponse(a *applications.Application) applicationResponse {
	return applicationResponse{
		ID:               a.ID,
		FullName:         a.FullName,
		PhoneNumber:      a.PhoneNumber,
		TelegramID:       a.TelegramID,
		TelegramUserName: a.TelegramUserName,
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/application
func (a *API) submitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.FullName == "" || req.PhoneNumber == "" || req.TelegramID == 0 {
		writeDetail(w, http.StatusBadRequest, "заполнены не все поля")
		return
	}

	_, err := a.flow.Submit(r.Context(), membership.SubmitRequest{
		FullName:         req.FullName,
		PhoneNumber:      req.PhoneNumber,
		TelegramID:       int64(req.TelegramID),
		TelegramUserName: req.TelegramUserName,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeDetail(w, http.StatusOK, "ваша заявка отправлена")
}

// PATCH /api/admin/application/{id}?status=accept|reject
func (a *API) decideApplication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "заявка не найдена")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			status = body.Status
		}
	}

	var app *applications.Application
	switch status {
	case string(applications.StatusAccept):
		app, err = a.flow.Accept(r.Context(), id)
	case string(applications.StatusReject):
		app, err = a.flow.Reject(r.Context(), id)
	default:
		writeDetail(w, http.StatusBadRequest, "status должен быть accept или reject")
		return
	}
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// GET /api/admin/applications?status=active
func (a *API) listApplications(w http.ResponseWriter, r *http.Request) {
	status := applications.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = applications.StatusActive
	}
	apps, err := a.flow.ApplicationsByStatus(r.Context(), status)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
