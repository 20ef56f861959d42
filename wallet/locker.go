package wallet

import "context"

// Locker serializes work on a key across processes. The returned function releases the
// lock and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// NoopLocker never blocks. Concurrent first-time creation is then settled by the unique
// constraints alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
