// Package session is the durable client-side session state: the active
// claim token of each shop and the owner's bearer credential. Both the
// submission flow and the recovery flow go through the Store interface
// instead of touching storage directly.
package session

import "context"

// TokenKey is the storage key holding the active claim token of a shop.
// The key shape is shared with the web client, which keeps the same value
// in browser local storage.
func TokenKey(shopID string) string {
	return "uploadToken_" + shopID
}

// credentialKey holds the owner's bearer token.
const credentialKey = "authToken"

// Store persists session values across process runs. At most one claim
// token is active per shop: SaveToken overwrites any previous value.
type Store interface {
	// Token returns the stored claim token of the shop, "" when absent.
	Token(ctx context.Context, shopID string) (string, error)
	SaveToken(ctx context.Context, shopID string, token string) error
	ClearToken(ctx context.Context, shopID string) error

	// Credential returns the stored owner bearer token, "" when absent.
	Credential(ctx context.Context) (string, error)
	SaveCredential(ctx context.Context, credential string) error
	ClearCredential(ctx context.Context) error

	Close() error
}
