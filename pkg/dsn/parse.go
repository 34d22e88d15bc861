package dsn

import (
	"fmt"
	"strconv"
	"strings"
)

// Info is a parsed DSN.
type Info struct {
	Scheme Scheme
	// Keys lists the parameter keys in DSN order.
	Keys []string
	// Params maps lowercased keys to values.
	Params map[string]string
}

// Get returns the value for key, matched case-insensitively.
func (i *Info) Get(key string) string {
	return i.Params[strings.ToLower(key)]
}

// HostPort splits the host parameter. The port is 0 when absent.
// ODBC DSNs carry the port in a separate Port pair.
func (i *Info) HostPort() (string, int, error) {
	host := i.Get("host")
	port := 0

	if i.Scheme == SchemeODBC {
		if p := i.Get("port"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return "", 0, fmt.Errorf("invalid port %q: %w", p, err)
			}
			port = n
		}
		return host, port, nil
	}

	if h, p, ok := strings.Cut(host, ":"); ok {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid port %q: %w", p, err)
		}
		host, port = h, n
	}
	return host, port, nil
}

// ParseError represents an error that occurred during DSN parsing.
// DSN holds the redacted input.
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

func newParseError(d DSN, reason, hint string) *ParseError {
	return &ParseError{DSN: d.Redacted(), Reason: reason, Hint: hint}
}

// Parse splits a DSN of either grammar into its key/value pairs.
// Values may contain '=' but not ';'.
func Parse(d DSN) (*Info, error) {
	if d == "" {
		return nil, newParseError(d, "empty DSN", "build the DSN from a normalized descriptor")
	}

	scheme := d.Scheme()
	switch scheme {
	case SchemeODBC, SchemeNative:
	default:
		return nil, newParseError(d, fmt.Sprintf("unknown scheme %q", scheme), "use odbc: or dremio:")
	}

	_, body, _ := strings.Cut(string(d), ":")
	info := &Info{
		Scheme: scheme,
		Params: make(map[string]string),
	}

	for _, pair := range strings.Split(body, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, newParseError(d, fmt.Sprintf("malformed pair %q", Redact(pair)), "pairs must be key=value separated by ';'")
		}
		key = strings.TrimSpace(key)
		info.Keys = append(info.Keys, key)
		info.Params[strings.ToLower(key)] = value
	}

	if info.Get("host") == "" {
		return nil, newParseError(d, "missing host", "")
	}
	return info, nil
}
