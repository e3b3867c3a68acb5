// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// # Security Headers

// SecureHeaders sets the standard hardening headers on every response.
//
// HSTS is only sent outside development; the API serves JSON only, so the
// content security policy denies everything.
func SecureHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	headers := secure.New(secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	})
	return headers.Handler
}
