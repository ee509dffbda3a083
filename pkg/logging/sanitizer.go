package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a user question to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Bearer tokens in provider error echoes
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._~+/=-]+`)

	// key=value style API keys, including query strings
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// OpenAI and Anthropic style secret keys (sk-..., sk-ant-...)
	secretKeyPattern = regexp.MustCompile(`sk-[A-Za-z0-9-_]{16,}`)

	// user:pass@host credentials in endpoint URLs
	credentialURLPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeError sanitizes error messages from external collaborators.
// Provider SDKs sometimes echo request headers or URLs in their errors.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return redact(err.Error())
}

// SanitizeEndpoint removes credentials embedded in a collaborator URL.
func SanitizeEndpoint(endpoint string) string {
	return credentialURLPattern.ReplaceAllString(endpoint, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeQuery truncates a user question for logging and removes anything
// that looks like a pasted secret.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	return redact(TruncateString(query, MaxQueryLogLength))
}

// TruncateString truncates a string to maxLen bytes and adds ellipsis if needed.
// Multi-byte runes are never split.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := 0
	for i := range s {
		if i > maxLen {
			break
		}
		cut = i
	}
	return s[:cut] + "..."
}

func redact(s string) string {
	s = bearerPattern.ReplaceAllString(s, "Bearer "+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = secretKeyPattern.ReplaceAllString(s, RedactedText)
	return SanitizeEndpoint(s)
}
