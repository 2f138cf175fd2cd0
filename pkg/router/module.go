package router

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// ModuleLoader loads the structural content of a route file discovered by
// the compiler. It is the explicit startup-time registration step that
// replaces dynamic import: the compiler treats "load module" as an injected
// capability, so compilation is testable without real route code.
//
// Load returns (nil, nil) when path is not a route file; such files are
// skipped. A non-nil error is a fatal configuration error.
type ModuleLoader interface {
	Load(path string) (*RouteModule, error)
}

// Registry is the standard ModuleLoader: route modules are registered
// explicitly at startup, keyed by their slash-separated path relative to
// the route root (e.g. "api/users/[id]/route.go"). Register everything
// before compiling; the registry is read-only afterwards.
type Registry struct {
	modules map[string]*RouteModule
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*RouteModule)}
}

// Register associates a route module with a file path. Paths are
// slash-separated and relative to the route root. Registering the same
// path twice replaces the earlier module.
func (r *Registry) Register(filePath string, m *RouteModule) {
	r.modules[normalizeModulePath(filePath)] = m
}

// Load implements ModuleLoader.
func (r *Registry) Load(filePath string) (*RouteModule, error) {
	return r.modules[normalizeModulePath(filePath)], nil
}

// Paths returns all registered file paths, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FS synthesizes a read-only filesystem mirroring the registered paths,
// suitable for passing to Compile alongside the registry itself. This lets
// applications define their route tree purely in code, without a directory
// on disk.
func (r *Registry) FS() fs.FS {
	root := newMemDir(".")
	for p := range r.modules {
		root.insert(p)
	}
	return &memFS{root: root}
}

func normalizeModulePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

// memFS is a minimal in-memory filesystem over registered route paths.
// Only the operations the compiler performs (ReadDir and Stat-via-Open)
// are supported; file contents are always empty.
type memFS struct {
	root *memDir
}

type memDir struct {
	name    string
	subdirs map[string]*memDir
	files   map[string]struct{}
}

func newMemDir(name string) *memDir {
	return &memDir{
		name:    name,
		subdirs: make(map[string]*memDir),
		files:   make(map[string]struct{}),
	}
}

func (d *memDir) insert(p string) {
	dir, file := path.Split(p)
	cur := d
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		if part == "" {
			continue
		}
		child, ok := cur.subdirs[part]
		if !ok {
			child = newMemDir(part)
			cur.subdirs[part] = child
		}
		cur = child
	}
	if file != "" {
		cur.files[file] = struct{}{}
	}
}

func (d *memDir) lookup(p string) *memDir {
	if p == "." || p == "" {
		return d
	}
	cur := d
	for _, part := range strings.Split(p, "/") {
		child, ok := cur.subdirs[part]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// Open implements fs.FS.
func (m *memFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if dir := m.root.lookup(name); dir != nil {
		return &memFile{info: memInfo{name: path.Base(name), dir: true}}, nil
	}
	parent := m.root.lookup(path.Dir(name))
	if parent != nil {
		if _, ok := parent.files[path.Base(name)]; ok {
			return &memFile{info: memInfo{name: path.Base(name)}}, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadDir implements fs.ReadDirFS.
func (m *memFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	dir := m.root.lookup(name)
	if dir == nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	entries := make([]fs.DirEntry, 0, len(dir.subdirs)+len(dir.files))
	for sub := range dir.subdirs {
		entries = append(entries, memInfo{name: sub, dir: true})
	}
	for f := range dir.files {
		entries = append(entries, memInfo{name: f})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type memFile struct {
	info memInfo
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Read([]byte) (int, error)   { return 0, fs.ErrClosed }
func (f *memFile) Close() error               { return nil }

type memInfo struct {
	name string
	dir  bool
}

func (i memInfo) Name() string { return i.name }
func (i memInfo) Size() int64  { return 0 }
func (i memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
func (i memInfo) ModTime() time.Time          { return time.Time{} }
func (i memInfo) IsDir() bool                 { return i.dir }
func (i memInfo) Sys() any                    { return nil }
func (i memInfo) Type() fs.FileMode           { return i.Mode().Type() }
func (i memInfo) Info() (fs.FileInfo, error)  { return i, nil }
