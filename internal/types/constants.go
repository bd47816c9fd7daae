package types

const ContextUserKey = "user"

// Material categories.
const (
	CategoryCharacter = "character"
	CategoryLocation  = "location"
	CategoryItem      = "item"
	CategoryEvent     = "event"
	CategoryConcept   = "concept"
)

// MigrationUniverseName is the fixed, per-user de-duplication key of the
// universe that receives bulk-imported LocalStorage data. The name is
// what the original frontend expects to see, so it stays verbatim.
const MigrationUniverseName = "默认宇宙(迁移)"

// MigrationUniverseDescription labels the auto-created migration universe.
const MigrationUniverseDescription = "由 LocalStorage 迁移而来的素材"
