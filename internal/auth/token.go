package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TokenExtractor parses tenant credentials out of the Authorization header.
// The current scheme is a bearer token carrying the tenant ID directly.
type TokenExtractor struct{}

// NewTokenExtractor creates a new TokenExtractor instance
func NewTokenExtractor() *TokenExtractor {
	return &TokenExtractor{}
}

// ExtractTenantIDFromHeader parses an "Authorization: Bearer <tenant-uuid>"
// header and returns the tenant ID.
func (te *TokenExtractor) ExtractTenantIDFromHeader(header string) (uuid.UUID, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return uuid.Nil, fmt.Errorf("authorization header must use the Bearer scheme")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return uuid.Nil, fmt.Errorf("bearer token is empty")
	}

	tenantID, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant token: %w", err)
	}
	return tenantID, nil
}
