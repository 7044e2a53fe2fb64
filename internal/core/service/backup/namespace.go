package backup

import (
	"path"
	"regexp"
)

var unsafeTokenChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeToken removes every character outside [A-Za-z0-9_-].
// Tokens differing only in removed characters map to the same value.
func SanitizeToken(token string) string {
	return unsafeTokenChars.ReplaceAllString(token, "")
}

// ResolveDirectory returns the rooted remote directory of a client.
// The token must be non-empty; the auth layer guarantees it.
func ResolveDirectory(baseFolder string, clientToken string) string {
	if clientToken == "" {
		panic("backup: empty client token")
	}
	return path.Join("/", baseFolder, SanitizeToken(clientToken))
}
