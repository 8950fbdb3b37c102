package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/logger"
)

// Recovery turns a panic in a handler into a 500 INTERNAL_ERROR response and
// logs the stack.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithContext(r.Context()).Error("Panic recovered", logger.Fields(
						logger.FieldError, fmt.Sprintf("%v", rec),
						"stack", string(debug.Stack()),
						logger.FieldPath, r.URL.Path,
						"method", r.Method,
					))
					writeError(w, errors.Internal(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
