// Package store implements the key-value persistence layer. Every persisted
// key is an independently read/written JSON document with no schema
// versioning; loaders fail soft (log + default) on parse errors.
package store

import (
	"context"
	"errors"
)

// Persisted keys. Each maps to one JSON document in the backend.
const (
	KeyProducts         = "products"
	KeySales            = "sales"
	KeyUsers            = "users"
	KeySettings         = "settings"
	KeyExternalServices = "externalServices"
	KeyDarkMode         = "darkMode"
	KeyCurrentUser      = "currentUser"
	KeyLoginTime        = "loginTime"
	KeyCloudBackup      = "cloudBackup"
)

// AllKeys lists every persisted key, in flush order.
var AllKeys = []string{
	KeyProducts, KeySales, KeyUsers, KeySettings, KeyExternalServices,
	KeyDarkMode, KeyCurrentUser, KeyLoginTime, KeyCloudBackup,
}

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is the backend contract: a flat namespace of JSON-encoded values.
// Implementations: FileStore (one file per key) and RedisStore.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
