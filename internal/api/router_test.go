package api_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/otryad/join-bot/internal/api"
	"github.com/otryad/join-bot/internal/domain/applications"
	"github.com/otryad/join-bot/internal/domain/membership"
	"github.com/otryad/join-bot/internal/domain/users"
)

const testToken = "123456:TEST-TOKEN"

type stubTx struct{ pgx.Tx }

func (stubTx) Commit(context.Context) error   { return nil }
func (stubTx) Rollback(context.Context) error { return nil }

type stubPool struct{}

func (stubPool) Begin(context.Context) (pgx.Tx, error) { return stubTx{}, nil }

type fakeFlow struct {
	submit func(membership.SubmitRequest) (*applications.Application, error)
	accept func(int64) (*applications.Application, error)
	reject func(int64) (*applications.Application, error)
	list   []applications.Application
}

func (f *fakeFlow) Submit(_ context.Context, req membership.SubmitRequest) (*applications.Application, error) {
	return f.submit(req)
}

func (f *fakeFlow) Accept(_ context.Context, id int64) (*applications.Application, error) {
	return f.accept(id)
}

func (f *fakeFlow) Reject(_ context.Context, id int64) (*applications.Application, error) {
	return f.reject(id)
}

func (f *fakeFlow) ApplicationsByStatus(context.Context, applications.Status) ([]applications.Application, error) {
	return f.list, nil
}

type fakeDirectory struct {
	byTgID map[int64]*users.User
}

func (f *fakeDirectory) GetByTelegramID(_ context.Context, tgID int64) (*users.User, error) {
	return f.byTgID[tgID], nil
}

func (f *fakeDirectory) ExistsByTelegramID(_ context.Context, tgID int64) (bool, error) {
	return f.byTgID[tgID] != nil, nil
}

func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+values.Get(k))
	}
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	secret := mac.Sum(nil)
	mac = hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func initDataFor(tgID string) string {
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	v.Set("user", `{"id":`+tgID+`,"first_name":"Иван","username":"ivanp"}`)
	v.Set("hash", signInitData(v, testToken))
	return v.Encode()
}

func newServer(flow *fakeFlow, dir *fakeDirectory) *httptest.Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := api.New(log, stubPool{}, testToken, flow, dir)
	return httptest.NewServer(a.Routes())
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, initData, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if initData != "" {
		req.Header.Set("X-Telegram-Init-Data", initData)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestAPI_RejectsUnsignedRequests(t *testing.T) {
	srv := newServer(&fakeFlow{}, &fakeDirectory{})
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPost, "/application", "", `{}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body, "не авторизован")

	resp, _ = doRequest(t, srv, http.MethodPost, "/application", "hash=bad&user=%7B%22id%22%3A1%7D", `{}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_SubmitApplication(t *testing.T) {
	var got membership.SubmitRequest
	flow := &fakeFlow{submit: func(req membership.SubmitRequest) (*applications.Application, error) {
		got = req
		return &applications.Application{ID: 1, Status: applications.StatusActive}, nil
	}}
	srv := newServer(flow, &fakeDirectory{})
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPost, "/application", initDataFor("42"),
		`{"full_name":"Иван Петров","phone_number":"+79990001122","telegram_id":"42","telegram_user_name":"ivanp"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "ваша заявка отправлена")
	require.Equal(t, "Иван Петров", got.FullName)
	require.Equal(t, int64(42), got.TelegramID)
}

func TestAPI_SubmitValidation(t *testing.T) {
	srv := newServer(&fakeFlow{}, &fakeDirectory{})
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPost, "/application", initDataFor("42"),
		`{"full_name":"  ","phone_number":"","telegram_id":42}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "заполнены не все поля")

	resp, _ = doRequest(t, srv, http.MethodPost, "/application", initDataFor("42"), `не json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SubmitWorkflowErrors(t *testing.T) {
	flow := &fakeFlow{submit: func(membership.SubmitRequest) (*applications.Application, error) {
		return nil, membership.ErrDuplicateApplication
	}}
	srv := newServer(flow, &fakeDirectory{})
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPost, "/application", initDataFor("42"),
		`{"full_name":"Иван","phone_number":"+7999","telegram_id":42}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "заявка уже отправлена")
}

func TestAPI_CheckUser(t *testing.T) {
	dir := &fakeDirectory{byTgID: map[int64]*users.User{7: {ID: 1, TelegramID: 7}}}
	srv := newServer(&fakeFlow{}, dir)
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodGet, "/users/check/7", initDataFor("42"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"is_user":true`)

	resp, body = doRequest(t, srv, http.MethodGet, "/users/check/8", initDataFor("42"), "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, body, `"is_user":false`)
}

func TestAPI_Me(t *testing.T) {
	dir := &fakeDirectory{byTgID: map[int64]*users.User{
		42: {ID: 1, TelegramID: 42, FullName: "Иван Петров", Status: users.StatusCandidate},
	}}
	srv := newServer(&fakeFlow{}, dir)
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodGet, "/users/me", initDataFor("42"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Иван Петров")

	resp, body = doRequest(t, srv, http.MethodGet, "/users/me", initDataFor("99"), "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body, "вы не зарегистрированы")
}

func TestAPI_AdminOnly(t *testing.T) {
	dir := &fakeDirectory{byTgID: map[int64]*users.User{
		42: {ID: 1, TelegramID: 42},
	}}
	srv := newServer(&fakeFlow{}, dir)
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodGet, "/admin/applications", initDataFor("42"), "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, body, "недостаточно прав")
}

func TestAPI_DecideApplication(t *testing.T) {
	dir := &fakeDirectory{byTgID: map[int64]*users.User{
		42: {ID: 1, TelegramID: 42, IsAdmin: true},
	}}
	flow := &fakeFlow{
		accept: func(id int64) (*applications.Application, error) {
			return &applications.Application{ID: id, Status: applications.StatusAccept}, nil
		},
		reject: func(int64) (*applications.Application, error) {
			return nil, membership.ErrNotFound
		},
	}
	srv := newServer(flow, dir)
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPatch, "/admin/application/5?status=accept", initDataFor("42"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"status":"accept"`)

	resp, _ = doRequest(t, srv, http.MethodPatch, "/admin/application/5?status=reject", initDataFor("42"), "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doRequest(t, srv, http.MethodPatch, "/admin/application/5?status=whatever", initDataFor("42"), "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "accept или reject")

	resp, _ = doRequest(t, srv, http.MethodPatch, "/admin/application/abc?status=accept", initDataFor("42"), "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_DecideStatusFromBody(t *testing.T) {
	dir := &fakeDirectory{byTgID: map[int64]*users.User{
		42: {ID: 1, TelegramID: 42, IsAdmin: true},
	}}
	flow := &fakeFlow{reject: func(id int64) (*applications.Application, error) {
		return &applications.Application{ID: id, Status: applications.StatusReject}, nil
	}}
	srv := newServer(flow, dir)
	defer srv.Close()

	resp, body := doRequest(t, srv, http.MethodPatch, "/admin/application/5", initDataFor("42"),
		`{"status":"reject"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"status":"reject"`)
}
