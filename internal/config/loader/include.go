package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// IncludeKey is the top-level key listing files layered beneath a config
// file. Paths are relative to the including file, and each may be TOML or
// YAML regardless of the including file's format.
const IncludeKey = "include"

// ErrIncludeCycle indicates a file includes itself, directly or not.
var ErrIncludeCycle = errors.New("include cycle")

type parseFunc func(source string, data []byte) (map[string]any, error)

func parserFor(path string) (parseFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return parseTOML, nil
	case ".yaml", ".yml":
		return parseYAML, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// loadFile reads and parses path, then layers it over its includes.
// chain holds the files currently being loaded, outermost first. A missing
// top-level file yields nil, nil; a missing include is an error.
func loadFile(fsys FileSystem, path string, chain []string) (map[string]any, error) {
	if slices.Contains(chain, path) {
		return nil, fmt.Errorf("%s: %w", strings.Join(append(chain, path), " -> "), ErrIncludeCycle)
	}

	parse, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && len(chain) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	config, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	includes, err := includePaths(path, config[IncludeKey])
	if err != nil {
		return nil, err
	}
	delete(config, IncludeKey)
	if len(includes) == 0 {
		return config, nil
	}

	chain = append(slices.Clip(chain), path)
	base := make(map[string]any)
	for _, inc := range includes {
		layer, err := loadFile(fsys, inc, chain)
		if err != nil {
			return nil, err
		}
		base = DeepMerge(base, layer)
	}
	return DeepMerge(base, config), nil
}

// includePaths resolves the include directive of the file at path.
func includePaths(path string, v any) ([]string, error) {
	var names []string
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: %s entries must be strings, got %T", path, IncludeKey, item)
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("%s: %s must be a string or a list of strings, got %T", path, IncludeKey, v)
	}

	dir := filepath.Dir(path)
	paths := make([]string, len(names))
	for i, name := range names {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		paths[i] = name
	}
	return paths, nil
}
