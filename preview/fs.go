package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/sortdedup/util"
)

// ErrPathConflict is returned when one planned path is both a file and a
// directory of another planned path.
var ErrPathConflict = errors.New("planned path is both a file and a directory")

// FS implements a read-only FUSE filesystem showing the planned output layout
type FS struct {
	root    *Dir
	mu      sync.Mutex // protects inodes
	inodes  uint64
	started time.Time
}

// Dir is a directory of the planned layout
type Dir struct {
	fs      *FS
	name    string
	inode   uint64
	dirs    map[string]*Dir
	files   map[string]*File
	modTime time.Time
}

// File is a planned destination; its content is read from the source file
type File struct {
	inode    uint64
	source   string
	size     int64
	modified time.Time
	role     util.Role
}

// NewFS builds the tree of every destination below outputRoot.
func NewFS(outputRoot string, decisions []util.PlacementDecision) (*FS, error) {
	filesys := &FS{started: time.Now()}
	filesys.root = filesys.newDir("")

	for _, d := range decisions {
		rel, err := filepath.Rel(outputRoot, d.Destination)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", util.ErrOutsideRoot, d.Destination)
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		dir := filesys.root
		for _, part := range parts[:len(parts)-1] {
			if _, ok := dir.files[part]; ok {
				return nil, fmt.Errorf("%w: %s", ErrPathConflict, d.Destination)
			}
			next, ok := dir.dirs[part]
			if !ok {
				next = filesys.newDir(part)
				dir.dirs[part] = next
			}
			dir = next
		}

		name := parts[len(parts)-1]
		if _, ok := dir.dirs[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPathConflict, d.Destination)
		}
		if _, ok := dir.files[name]; ok {
			return nil, &util.CollisionError{Source: d.Source.Path, Destination: d.Destination}
		}
		modified := filesys.started
		if info, err := os.Stat(d.Source.Path); err == nil {
			modified = info.ModTime()
		}
		dir.files[name] = &File{
			inode:    filesys.newInode(),
			source:   d.Source.Path,
			size:     d.Source.Size,
			modified: modified,
			role:     d.Role,
		}
	}
	return filesys, nil
}

func (f *FS) newInode() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inodes++
	return f.inodes
}

func (f *FS) newDir(name string) *Dir {
	return &Dir{
		fs:      f,
		name:    name,
		inode:   f.newInode(),
		dirs:    make(map[string]*Dir),
		files:   make(map[string]*File),
		modTime: f.started,
	}
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return f.root, nil
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.inode
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.modTime
	a.Ctime = d.modTime
	a.Atime = d.modTime
	return nil
}

// Lookup resolves file/directory names to nodes
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if sub, ok := d.dirs[name]; ok {
		return sub, nil
	}
	if f, ok := d.files[name]; ok {
		return f, nil
	}
	return nil, syscall.ENOENT
}

// ReadDirAll lists directory contents, directories first, each group by name
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirents := make([]fuse.Dirent, 0, len(d.dirs)+len(d.files))
	for _, name := range sortedKeys(d.dirs) {
		dirents = append(dirents, fuse.Dirent{Inode: d.dirs[name].inode, Name: name, Type: fuse.DT_Dir})
	}
	for _, name := range sortedKeys(d.files) {
		dirents = append(dirents, fuse.Dirent{Inode: d.files[name].inode, Name: name, Type: fuse.DT_File})
	}
	return dirents, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0o444
	a.Size = uint64(f.size)
	a.Mtime = f.modified
	a.Ctime = f.modified
	a.Atime = f.modified
	return nil
}

// Read serves a byte range straight from the source file
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	src, err := os.Open(f.source)
	if err != nil {
		return err
	}
	defer src.Close()

	buf := make([]byte, req.Size)
	n, err := src.ReadAt(buf, req.Offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	resp.Data = buf[:n]
	return nil
}

// Source returns the path the file content is read from
func (f *File) Source() string {
	return f.source
}

// Role returns how the file was routed
func (f *File) Role() util.Role {
	return f.role
}
