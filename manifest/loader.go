package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/capstack-dev/capstack-sdk/descriptor"
)

// Applier receives the type registrations a loader discovers.
// *capstack.Registry satisfies it.
type Applier interface {
	RegisterType(key string, bindings map[string]descriptor.BindingSpec) error
}

// LoaderOption configures an FSLoader.
type LoaderOption func(*FSLoader)

// WithPatterns sets the glob patterns used to discover manifest files.
// Patterns follow doublestar syntax, so "**" crosses directories.
func WithPatterns(patterns ...string) LoaderOption {
	return func(l *FSLoader) {
		l.patterns = patterns
	}
}

// WithParser sets the manifest parser. Defaults to the YAML parser.
func WithParser(p Parser) LoaderOption {
	return func(l *FSLoader) {
		l.parser = p
	}
}

// FSLoader discovers manifest files in a filesystem and applies their
// registrations to a building registry.
type FSLoader struct {
	fsys     fs.FS
	parser   Parser
	patterns []string
}

// NewFSLoader creates a loader over the given filesystem.
// The default pattern discovers every .yaml file, recursively.
func NewFSLoader(fsys fs.FS, opts ...LoaderOption) *FSLoader {
	l := &FSLoader{
		fsys:     fsys,
		parser:   NewYAMLParser(),
		patterns: []string{"**/*.yaml"},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load discovers, parses, and applies every matching manifest.
// Files are applied in deterministic path order. The first failing file
// aborts the load; the registry's own freeze validation is the authority
// on cross-file completeness.
func (l *FSLoader) Load(ctx context.Context, applier Applier) error {
	paths, err := l.discover()
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.loadFile(path, applier); err != nil {
			return fmt.Errorf("manifest %q: %w", path, err)
		}
	}
	return nil
}

func (l *FSLoader) discover() ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	for _, pattern := range l.patterns {
		matches, err := doublestar.Glob(l.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid manifest pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (l *FSLoader) loadFile(path string, applier Applier) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	doc, err := l.parser.Parse(data)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	for _, t := range doc.Types {
		bindings := make(map[string]descriptor.BindingSpec, len(t.Bindings))
		for name, entry := range t.Bindings {
			bindings[name] = entry.spec()
		}
		if err := applier.RegisterType(t.Key, bindings); err != nil {
			return fmt.Errorf("type %q: %w", t.Key, err)
		}
	}
	return nil
}
