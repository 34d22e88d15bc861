package dsn

import "regexp"

var (
	reSecretPair = regexp.MustCompile(`(?i)((?:^|[;:])\s*(?:pwd|password|token)\s*=)([^;]*)`)
	reBearer     = regexp.MustCompile(`(?i)(bearer\s+)([^\s;]+)`)
)

// Redact masks secret values in a connection string: PWD=, password=,
// token= pairs and bearer credentials. Non-secret pairs such as UID=token
// are left intact.
func Redact(s string) string {
	out := reSecretPair.ReplaceAllString(s, "${1}***")
	out = reBearer.ReplaceAllString(out, "${1}***")
	return out
}
