package statelog

import (
	"fmt"

	"github.com/dayrize/statelog/internal/domain"
)

// cacheKeyPrefix namespaces every staging key. The manager owns this part of
// the cache store's key space; unrelated cache users must not write under it.
const cacheKeyPrefix = "StateLog"

// CacheKeyForObject derives the staging key for an entity identity. The kind
// name disambiguates identical primary keys across entity types, so the key
// is collision-free as long as kind names are unique.
func CacheKeyForObject(ref domain.ObjectRef) string {
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, ref.Kind, ref.PK)
}
