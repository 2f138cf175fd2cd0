package router

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// CompileOptions configures route compilation.
type CompileOptions struct {
	// Prefix is an optional URL prefix prepended to every compiled
	// pattern as literal segments, e.g. "/api".
	Prefix string
}

// Compile scans the route tree rooted at fsys, loads route modules through
// loader, and builds the immutable route table. Directory naming rules,
// applied per path segment:
//
//	name/    literal URL segment "name"
//	[name]/  dynamic segment bound to parameter "name"
//	(name)/  grouping segment, excluded from the URL
//
// Every regular file is offered to the loader; files the loader does not
// recognize are skipped. A tree with zero route files compiles to an empty
// table. All configuration errors (ambiguous dynamic siblings, unreadable
// directories, invalid modules, duplicate patterns) are collected and
// returned together as a *MultiConfigError; no partial table is ever
// returned alongside an error.
func Compile(fsys fs.FS, loader ModuleLoader, opts CompileOptions) (*Table, error) {
	c := &compiler{fsys: fsys, loader: loader}

	prefix := make(Pattern, 0)
	for _, seg := range strings.Split(strings.Trim(opts.Prefix, "/"), "/") {
		if seg != "" {
			prefix = append(prefix, Literal(seg))
		}
	}

	c.walk(".", prefix)

	if len(c.errs) > 0 {
		return nil, &MultiConfigError{Errors: c.errs}
	}

	table, err := NewTable(c.routes)
	if err != nil {
		return nil, err
	}
	return table, nil
}

type compiler struct {
	fsys   fs.FS
	loader ModuleLoader
	routes []*RouteDescriptor
	errs   []ConfigError
}

// walk scans one directory, loading route files and descending into
// subdirectories. pattern is the URL pattern accumulated so far.
func (c *compiler) walk(dir string, pattern Pattern) {
	entries, err := fs.ReadDir(c.fsys, dir)
	if err != nil {
		c.errs = append(c.errs, ConfigError{
			Type:    ErrorUnreadableDir,
			Message: fmt.Sprintf("cannot read route directory %s", dir),
			Path:    dir,
			Err:     err,
		})
		return
	}

	// Load route files at this level. Each route file is a leaf: its name
	// contributes nothing to the URL, so two route files in one directory
	// surface later as a duplicate pattern.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filePath := path.Join(dir, entry.Name())
		module, err := c.loader.Load(filePath)
		if err != nil {
			c.errs = append(c.errs, ConfigError{
				Type:    ErrorInvalidModule,
				Message: fmt.Sprintf("loading route module %s", filePath),
				Path:    filePath,
				Files:   []string{filePath},
				Err:     err,
			})
			continue
		}
		if module == nil {
			continue
		}
		if len(module.Handlers) == 0 {
			c.errs = append(c.errs, ConfigError{
				Type:    ErrorInvalidModule,
				Message: fmt.Sprintf("route module %s declares no method handlers", filePath),
				Path:    filePath,
				Files:   []string{filePath},
			})
			continue
		}
		c.routes = append(c.routes, newDescriptor(pattern, filePath, module))
	}

	// Descend into subdirectories, enforcing at most one dynamic sibling
	// per parent. ReadDir returns entries sorted by name, so compilation
	// is deterministic.
	var dynamicSeen string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		subdir := path.Join(dir, name)

		switch {
		case isGroupingDir(name):
			// Grouping segments organize files on disk but contribute
			// nothing to the URL.
			c.walk(subdir, pattern)

		case isDynamicDir(name):
			param := name[1 : len(name)-1]
			if param == "" {
				c.errs = append(c.errs, ConfigError{
					Type:    ErrorInvalidModule,
					Message: fmt.Sprintf("dynamic directory %s has an empty parameter name", subdir),
					Path:    subdir,
				})
				continue
			}
			if dynamicSeen != "" {
				c.errs = append(c.errs, ConfigError{
					Type:    ErrorAmbiguousDynamic,
					Message: fmt.Sprintf("ambiguous dynamic segments under %s", dir),
					Path:    dir,
					Files:   []string{path.Join(dir, dynamicSeen), subdir},
				})
				continue
			}
			dynamicSeen = name
			c.walk(subdir, appendSegment(pattern, Param(param)))

		default:
			c.walk(subdir, appendSegment(pattern, Literal(name)))
		}
	}
}

// appendSegment extends a pattern without aliasing the parent's backing
// array across sibling branches.
func appendSegment(p Pattern, seg Segment) Pattern {
	next := make(Pattern, len(p), len(p)+1)
	copy(next, p)
	return append(next, seg)
}

func isDynamicDir(name string) bool {
	return strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]")
}

func isGroupingDir(name string) bool {
	return strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")")
}
