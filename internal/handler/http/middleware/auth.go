package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired must run after a jwtauth verifier. It turns the verified token
// into an auth.Principal stored on the request context.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			response.HandleError(w, auth.ErrMissingToken)
			return
		}
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		principal, err := jwt.PrincipalFromToken(token)
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
	return http.HandlerFunc(hfn)
}

// StreamVerifier also accepts the token from the "jwt" query parameter,
// since EventSource clients cannot set headers.
func StreamVerifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery)
}
