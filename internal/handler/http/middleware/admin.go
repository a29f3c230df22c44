package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrMissingToken)
			return
		}

		if !principal.IsAdmin() {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
