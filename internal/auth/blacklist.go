package auth

import (
	"context"
	"errors"
	"fmt"

	"seti/workshop/internal/model"
)

// RevocationStore is the persistence surface the blacklist needs.
// *repository.Store satisfies it.
type RevocationStore interface {
	BlacklistToken(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	ListBlacklistedTokens(ctx context.Context) ([]model.BlacklistedToken, error)
	DeleteBlacklistedToken(ctx context.Context, id int64) error
}

// Blacklist is the token revocation list. Revoked tokens are rejected for
// their remaining lifetime; entries for tokens that have since expired can
// never be presented as valid again and are swept opportunistically.
type Blacklist struct {
	store  RevocationStore
	secret string
}

func NewBlacklist(store RevocationStore, secret string) *Blacklist {
	return &Blacklist{store: store, secret: secret}
}

// Record persists the token. Duplicate inserts are tolerated.
func (b *Blacklist) Record(ctx context.Context, token string) error {
	if err := b.store.BlacklistToken(ctx, token); err != nil {
		return fmt.Errorf("blacklist record: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token is on the list. Expired entries are
// swept first, so the list stays bounded without a background task.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if err := b.Cleanup(ctx); err != nil {
		return false, err
	}
	revoked, err := b.store.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return revoked, nil
}

// Cleanup deletes entries whose tokens now fail decoding specifically with
// ErrTokenExpired. Entries failing for other reasons (for example after a
// signing-key rotation) are kept.
func (b *Blacklist) Cleanup(ctx context.Context) error {
	entries, err := b.store.ListBlacklistedTokens(ctx)
	if err != nil {
		return fmt.Errorf("blacklist cleanup: %w", err)
	}
	for _, entry := range entries {
		_, err := ParseToken(b.secret, entry.Token)
		if errors.Is(err, ErrTokenExpired) {
			if err := b.store.DeleteBlacklistedToken(ctx, entry.ID); err != nil {
				return fmt.Errorf("blacklist cleanup: %w", err)
			}
		}
	}
	return nil
}
