package cache

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/autoscan/internal/core/domain"
)

// Key returns the identity of a scan configuration within the cache store.
// Pattern order does not matter. Marker extensions take part only when present,
// so configurations without them keep a stable key.
func Key(cfg *domain.ScanConfig) string {
	h := xxhash.New()

	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(cfg.BasePath)
	for _, p := range sorted(cfg.EffectiveIncludes()) {
		write(p)
	}
	write(":")
	for _, p := range sorted(cfg.ExcludePatterns) {
		write(p)
	}
	if !cfg.Markers.IsZero() {
		write(":")
		write(cfg.Markers.Fingerprint())
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func sorted(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
