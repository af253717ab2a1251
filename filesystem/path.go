package filesystem

import (
	"errors"
	"fmt"
	gopath "path"
	"strings"
)

// Branch is the first segment of every path.
type Branch string

const (
	Public  Branch = "public"
	Private Branch = "private"
)

// Kind distinguishes file paths from directory paths.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

var (
	ErrEmptyPath     = errors.New("path has no segments")
	ErrInvalidBranch = errors.New("path must start with public or private")
	ErrNotDirectory  = errors.New("not a directory path")
	ErrNotFile       = errors.New("not a file path")
)

// Path is a typed location in the filesystem. The zero value is invalid.
type Path struct {
	kind     Kind
	segments []string
}

// File returns a file path. Construction does not validate; Validate or the
// filesystem operations do.
func File(segments ...string) Path {
	return Path{kind: KindFile, segments: append([]string(nil), segments...)}
}

// Directory returns a directory path.
func Directory(segments ...string) Path {
	return Path{kind: KindDirectory, segments: append([]string(nil), segments...)}
}

// ParsePath parses "/public/gallery/" style strings. A trailing slash makes
// a directory path.
func ParsePath(s string) (Path, error) {
	kind := KindFile
	if strings.HasSuffix(s, "/") {
		kind = KindDirectory
	}
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return Path{}, ErrEmptyPath
	}
	p := Path{kind: kind, segments: strings.Split(trimmed, "/")}
	return p, p.Validate()
}

func (p Path) Kind() Kind { return p.kind }

func (p Path) IsDirectory() bool { return p.kind == KindDirectory }

func (p Path) IsFile() bool { return p.kind == KindFile }

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Branch returns the first segment.
func (p Path) Branch() Branch {
	if len(p.segments) == 0 {
		return ""
	}
	return Branch(p.segments[0])
}

// Name is the last segment.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the directory holding p. The branch root has no parent and
// returns itself.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Directory(p.segments...)
	}
	return Directory(p.segments[:len(p.segments)-1]...)
}

// Join appends a file name to a directory path.
func (p Path) Join(name string) Path {
	return File(append(p.Segments(), name)...)
}

// JoinDir appends a directory name to a directory path.
func (p Path) JoinDir(name string) Path {
	return Directory(append(p.Segments(), name)...)
}

// Validate checks the branch and every segment.
func (p Path) Validate() error {
	if len(p.segments) == 0 {
		return ErrEmptyPath
	}
	switch p.Branch() {
	case Public, Private:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBranch, p.segments[0])
	}
	for _, s := range p.segments {
		if s == "" || s == "." || s == ".." || strings.Contains(s, "/") {
			return fmt.Errorf("invalid path segment %q", s)
		}
	}
	if p.kind == KindFile && len(p.segments) == 1 {
		return fmt.Errorf("%w: branch root %q", ErrNotFile, p.segments[0])
	}
	return nil
}

// mfsPath is the path inside the MFS tree.
func (p Path) mfsPath() string {
	return "/" + gopath.Join(p.segments...)
}

// String renders the path; directories end in a slash.
func (p Path) String() string {
	s := p.mfsPath()
	if p.kind == KindDirectory {
		s += "/"
	}
	return s
}

// Equal reports whether two paths have the same kind and segments.
func (p Path) Equal(o Path) bool {
	if p.kind != o.kind || len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}
