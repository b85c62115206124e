// Package loader reads the raw layers of the Tilestorm configuration.
//
// Each source (TOML file, environment) yields a nested map keyed by section
// and setting name. Merge folds the layers in precedence order; decoding the
// result into typed settings is left to the config package.
package loader

import "os"

// Loader reads one configuration layer.
// A source that doesn't exist yields a nil map and no error.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem reads configuration files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// ReadFileFunc adapts a function to the FileSystem interface.
type ReadFileFunc func(path string) ([]byte, error)

// ReadFile calls f(path).
func (f ReadFileFunc) ReadFile(path string) ([]byte, error) {
	return f(path)
}

// OS reads files from the operating system.
var OS FileSystem = ReadFileFunc(os.ReadFile)

// Merge folds layers into a new map, later layers winning.
// Nested sections are merged key by key; the inputs are not modified.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		mergeInto(out, layer)
	}
	return out
}

func mergeInto(dst, src map[string]any) {
	for key, val := range src {
		section, isSection := val.(map[string]any)
		if !isSection {
			dst[key] = val
			continue
		}
		if existing, ok := dst[key].(map[string]any); ok {
			mergeInto(existing, section)
			continue
		}
		fresh := make(map[string]any, len(section))
		mergeInto(fresh, section)
		dst[key] = fresh
	}
}

