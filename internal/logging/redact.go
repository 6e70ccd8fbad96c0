package logging

import (
	"regexp"
)

// Credentials flow through error messages when an API call fails with
// its request context attached, so log messages are scrubbed before
// they hit the console or the log file.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|access[_-]?token|auth[_-]?token|bearer[_-]?token|bearer|password)[=:\s]+["']?([^\s"']+)["']?`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
}

// Redact masks credential-shaped substrings in s.
func Redact(s string) string {
	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllStringFunc(s, func(match string) string {
			groups := pattern.FindStringSubmatch(match)
			if len(groups) == 3 {
				return groups[1] + "=***"
			}
			return "***"
		})
	}
	return s
}

// redactingWriter scrubs credentials from every log line on its way to
// the underlying writer.
type redactingWriter struct {
	next interface{ Write([]byte) (int, error) }
}

func (w redactingWriter) Write(p []byte) (int, error) {
	scrubbed := Redact(string(p))
	if _, err := w.next.Write([]byte(scrubbed)); err != nil {
		return 0, err
	}
	// Report the original length so zerolog does not treat the
	// rewrite as a short write.
	return len(p), nil
}
