package dataset

import "fmt"

// ConfigError reports an invalid subset configuration. It is raised at
// construction time, before any data is copied, so a subset is never
// partially built.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
