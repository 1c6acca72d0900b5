package storage

import "context"

// Prefixed namespaces every key of an underlying store
type Prefixed struct {
	inner  Storage
	prefix string
}

// WithPrefix returns a view of s in which key k is stored as prefix+k
func WithPrefix(s Storage, prefix string) *Prefixed {
	return &Prefixed{inner: s, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *Prefixed) Ping(ctx context.Context) error {
	return Ping(ctx, p.inner)
}
