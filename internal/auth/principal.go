// Package auth carries identity for the hub: principals, bearer tokens and
// the keyring-backed signing secret.
package auth

import "strings"

// Anonymous is the sentinel principal for callers who have not signed in.
const Anonymous = "anonymous"

// IsAnonymous reports whether the principal is absent or the anonymous
// sentinel.
func IsAnonymous(principal string) bool {
	p := strings.TrimSpace(principal)
	return p == "" || p == Anonymous
}
