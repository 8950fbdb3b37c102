package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/validation"
)

// HeaderRunID carries the solve run ID on requests and responses.
const HeaderRunID = "X-Run-Id"

// RunID puts a run ID on every request context and echoes it in the
// response. A client-supplied ID must be a UUID.
func RunID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRunID)
			if err := validation.New().OptionalUUID(HeaderRunID, id).Validate(); err != nil {
				writeError(w, err)
				return
			}
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRunID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRunID(r.Context(), id)))
		})
	}
}
