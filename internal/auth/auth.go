// Package auth holds the x-api-key allow list. Keys are any environment
// variable whose name starts with the configured prefix, loaded once at
// startup so request handling never touches the environment.
package auth

import (
	"os"
	"strings"
)

type Keys struct {
	allowed map[string]struct{}
}

// KeysFromEnv collects the values of every environment variable whose name
// starts with prefix. Empty values are skipped.
func KeysFromEnv(prefix string) *Keys {
	allowed := make(map[string]struct{})
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			allowed[value] = struct{}{}
		}
	}
	return &Keys{allowed: allowed}
}

func (k *Keys) Allowed(key string) bool {
	if key == "" {
		return false
	}
	_, ok := k.allowed[key]
	return ok
}

func (k *Keys) Len() int {
	return len(k.allowed)
}
