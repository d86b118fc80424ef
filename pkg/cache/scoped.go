package cache

import "time"

// ScopedKeyer namespaces the keys of another Keyer, so catalogs from several
// roots can share one Redis without colliding:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "suitesparse:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes every key of inner. A nil inner means the default
// keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HeaderKey(path string, size int64, modTime time.Time, format string) string {
	return k.prefix + k.inner.HeaderKey(path, size, modTime, format)
}

func (k *ScopedKeyer) StatsKey(path string, size int64, modTime time.Time) string {
	return k.prefix + k.inner.StatsKey(path, size, modTime)
}
