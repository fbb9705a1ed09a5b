package auth

import (
	"fmt"
	"strings"
)

// KeyExtractor parses the Authorization header into a client ID. Keys are
// opaque: the client ID is the key itself, presented either bare or as a
// bearer token.
type KeyExtractor struct{}

func NewKeyExtractor() *KeyExtractor {
	return &KeyExtractor{}
}

// ExtractClientIDFromHeader returns the client ID carried by an
// Authorization header value.
func (ke *KeyExtractor) ExtractClientIDFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is empty")
	}

	key := authHeader
	if rest, found := strings.CutPrefix(authHeader, "Bearer "); found {
		key = rest
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("authorization header contains no key")
	}

	return key, nil
}
