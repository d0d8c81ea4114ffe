package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, ErrInviteExpired)

	require.Equal(t, http.StatusGone, rr.Code)
	body := decode(t, rr)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Invite expired or invalid", body["message"])
	_, hasData := body["data"]
	require.False(t, hasData)
}

func TestWriteErrorHidesGenericErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, stderrors.New("pg: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal server error", decode(t, rr)["message"])
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, http.StatusOK, "Login successful", map[string]string{"user_id": "u1"})

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Login successful", body["message"])
	require.Equal(t, map[string]any{"user_id": "u1"}, body["data"])
}

func TestWriteSuccessDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, http.StatusOK, "", nil)

	body := decode(t, rr)
	require.Equal(t, "OK", body["message"])
	require.Equal(t, map[string]any{}, body["data"])
}

func TestCopiesDoNotMutateBase(t *testing.T) {
	cause := stderrors.New("boom")
	e := ErrForbidden.WithDetail("no grant").WithCause(cause).WithMessage("nope")

	require.Equal(t, "Forbidden", ErrForbidden.Message)
	require.Empty(t, ErrForbidden.Detail)
	require.Nil(t, ErrForbidden.Err)
	require.ErrorIs(t, e, cause)
	require.Equal(t, "nope", e.Message)
}
