package model

// Merge returns a new map with every key from base, keys present in
// override replacing the base value and keys unique to override added.
// Only top-level keys are considered; neither input is mutated.
func Merge(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}
	return merged
}

const (
	defaultRootfsUser = "0:0"
	defaultRootfsCopy = true
)

// resolveRootfsUser walks the override chain most-specific-first and returns
// the first non-nil value, falling back to the hardcoded default.
func resolveRootfsUser(chain ...*string) string {
	for _, value := range chain {
		if value != nil {
			return *value
		}
	}
	return defaultRootfsUser
}

func resolveRootfsCopy(chain ...*bool) bool {
	for _, value := range chain {
		if value != nil {
			return *value
		}
	}
	return defaultRootfsCopy
}
