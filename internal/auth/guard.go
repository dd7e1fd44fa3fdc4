package auth

import (
	"context"
	"strings"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/pkg/util"
)

// TokenLookup is the slice of the credential store the guard needs: mapping
// a presented token back to the user it is currently bound to.
type TokenLookup interface {
	FindUserByToken(ctx context.Context, token string) (*domain.User, error)
}

// Guard authorizes a request as an authenticated administrator. It composes
// the stateless tokenizer check with the stateful store lookup; both must
// pass. The stateless check runs first so forged and expired tokens are
// rejected without a storage round-trip, while the lookup catches tokens
// superseded by a later login.
type Guard struct {
	tokens *Tokenizer
	users  TokenLookup
}

// NewGuard constructs a guard over the given tokenizer and store.
func NewGuard(tokens *Tokenizer, users TokenLookup) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authorize runs the per-request authorization sequence against the raw
// Authorization header value. Expired, forged, superseded and unknown tokens
// are indistinguishable to the caller; a valid session without the admin
// flag is the one distinct failure.
func (g *Guard) Authorize(ctx context.Context, authorization string) (*domain.APIKey, error) {
	token, err := extractBearer(authorization)
	if err != nil {
		return nil, err
	}

	if err := g.tokens.Verify(token); err != nil {
		return nil, util.NewUnauthenticated("invalid token")
	}

	user, err := g.users.FindUserByToken(ctx, token)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.NewUnauthenticated("invalid token")
		}
		return nil, err
	}

	if !user.IsAdmin {
		return nil, util.NewForbidden("administrator access required")
	}

	return &domain.APIKey{Token: token}, nil
}

func extractBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", util.NewUnauthenticated("missing authorization header")
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", util.NewUnauthenticated("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", util.NewUnauthenticated("invalid authorization header")
	}
	return token, nil
}
