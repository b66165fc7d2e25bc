// Package redact strips sensitive material from strings before they are
// logged or returned in error responses. Provider error messages can echo
// request headers, and the request headers carry API keys, so everything
// that crosses the logging boundary goes through here.
package redact

import "regexp"

// Placeholders substituted for redacted material.
const (
	KeyPlaceholder        = "[REDACTED_KEY]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
)

var (
	// Database connection strings with inline credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Provider API keys passed as headers or key-value pairs. Matches the
	// xi-api-key header, Authorization bearers, and generic key=value forms.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(xi-api-key|api[_-]?key|authorization|bearer|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Signed JWTs (admin tokens) in their three-part form.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
)

// String redacts sensitive fragments in s.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, "$1://"+CredentialPlaceholder+"@")
	s = apiKeyRegex.ReplaceAllString(s, "$1$2"+KeyPlaceholder)
	s = jwtRegex.ReplaceAllString(s, TokenPlaceholder)
	return s
}

// Error redacts an error's message. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
