package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"loyalty-rewards/pkg/utils"
)

const maxCapturedBody = 4 << 10

// CaptureBody keeps the first few KB of non-multipart request bodies in the
// context so failures can be logged with what the client sent. The handler
// still reads the full body.
func CaptureBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody ||
			strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			next.ServeHTTP(w, r)
			return
		}

		head, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

		ctx := utils.SetRequestBody(r.Context(), string(head))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
