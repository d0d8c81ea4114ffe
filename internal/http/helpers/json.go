package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
)

const maxBodyBytes = 1 << 20

// ReadJSON decodes the body into v. Unknown fields are ignored and an empty
// body leaves v untouched. It writes the error response and returns false
// on failure.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := strings.ToLower(r.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail("content-type "+ct))
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return false
	}
	return true
}
