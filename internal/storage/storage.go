// Package storage defines the key-value persistence substrate the document
// store and session manager sit on.
//
// The whole application persists exactly three keys, each holding one
// serialized value: the users collection, the posts collection, and the
// current-session pointer. Collections are written as whole-snapshot values —
// every mutation reads the full collection, changes it in memory, and writes
// the full collection back. The substrate therefore only needs Get/Set/Delete
// on opaque byte values; it never sees individual records.
//
// Two backends implement KV: storage/sqlite (single-file database, one kv
// table) and storage/badgerkv (embedded LSM key-value store). Both are
// durable and synchronous; pick one via config.
package storage

import "context"

// Persisted key names. These are the storage format's namespace — changing
// one orphans existing data.
const (
	UsersKey       = "devshare_users"
	PostsKey       = "devshare_posts"
	CurrentUserKey = "devshare_current_user"
)

// KV is the minimal substrate contract.
//
// Get reports absence explicitly (ok == false) rather than with a sentinel
// error: "key never written" is an expected state the store uses to decide
// whether to seed, not a failure.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
