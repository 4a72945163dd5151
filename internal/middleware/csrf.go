package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRF-Token"
)

// CSRF implementa double-submit cookie: el servidor emite un token como
// cookie y la página lo devuelve en el header en cada llamada mutante.
// No hace falta estado del lado del servidor, alcanza con que coincidan.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// liveness queda afuera: lo consulta el supervisor sin cookies
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			token := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				SameSite: http.SameSiteLaxMode,
			})

			if isMutating(r.Method) {
				http.Error(w, "CSRF cookie missing", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if isMutating(r.Method) && r.Header.Get(csrfHeaderName) != cookie.Value {
			http.Error(w, "CSRF token mismatch", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
