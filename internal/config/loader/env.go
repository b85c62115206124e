package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader reads settings from PREFIX_SECTION_KEY environment variables.
// TILESTORM_HISTORY_MAX_ENTRIES sets history.max_entries; a few aliases
// such as TILESTORM_LOG_LEVEL map to paths directly.
type EnvLoader struct {
	prefix  string
	aliases map[string]string
	environ func() []string
}

// NewEnvLoader reads the process environment. prefix includes its
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		aliases: map[string]string{
			"LOG_LEVEL": "logging.level",
			"LOG_FILE":  "logging.file",
			"CATALOG":   "catalog.path",
			"SCRIPTS":   "scripts.dir",
		},
		environ: os.Environ,
	}
}

// NewEnvLoaderWithEnviron reads environ, in os.Environ form, instead of
// the process environment.
func NewEnvLoaderWithEnviron(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// AddMapping maps the full variable name envVar to configPath.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.aliases[strings.TrimPrefix(envVar, l.prefix)] = configPath
}

// Load returns the matching variables as a nested map. A variable set to
// the empty string is still a value.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		rest, ok := strings.CutPrefix(name, l.prefix)
		if !ok {
			continue
		}
		if path := l.path(rest); path != "" {
			setPath(out, strings.Split(path, "."), parseValue(value))
		}
	}
	return out, nil
}

// path resolves the part of a variable name after the prefix.
func (l *EnvLoader) path(name string) string {
	if p, ok := l.aliases[name]; ok {
		return p
	}
	section, key, ok := strings.Cut(strings.ToLower(name), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// parseValue types a raw variable: booleans, integers, then decimals.
// Anything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func setPath(m map[string]any, keys []string, v any) {
	if len(keys) == 1 {
		m[keys[0]] = v
		return
	}
	child, ok := m[keys[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[keys[0]] = child
	}
	setPath(child, keys[1:], v)
}
