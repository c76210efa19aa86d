package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns the security headers for the HTML apps. htmx is
// loaded from unpkg and previews may show images from any origin.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:      isDevelopment,
		ContentTypeNosniff: true,
		FrameDeny:          true,
		BrowserXssFilter:   true,
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: https: http:; " +
			"connect-src 'self' ws: wss:",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}
}

func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	s := secure.New(opts)
	return s.Handler
}
