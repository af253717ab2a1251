// Package session holds the active filesystem of the running program and
// the onboarding state stored in it.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/galleryfs/galleryfs/filesystem"
	logging "github.com/ipfs/go-log/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var log = logging.Logger("session")

// GetStartedPath is the file recording that the get-started screen was seen.
var GetStartedPath = filesystem.File("public", "viewed-get-started")

// ErrNoFilesystem is returned when an operation needs an active filesystem
// and there is none.
var ErrNoFilesystem = errors.New("no active filesystem")

// Session is the shared state of one running program.
type Session struct {
	fs     *Cell[filesystem.FileSystem]
	viewed *Cell[bool]
}

// New returns a session with fs active. fs may be nil.
func New(fs filesystem.FileSystem) *Session {
	return &Session{
		fs:     NewCell(fs),
		viewed: NewCell(false),
	}
}

// Filesystem returns the active filesystem or nil.
func (s *Session) Filesystem() filesystem.FileSystem {
	return s.fs.Get()
}

// SetFilesystem makes fs the active filesystem.
func (s *Session) SetFilesystem(fs filesystem.FileSystem) {
	s.fs.Set(fs)
}

// FilesystemCell is the observable holding the active filesystem.
func (s *Session) FilesystemCell() *Cell[filesystem.FileSystem] { return s.fs }

// ViewedCell is the in-memory get-started flag.
func (s *Session) ViewedCell() *Cell[bool] { return s.viewed }

// GetStartedViewed reports whether the flag file says viewed. A missing
// file or a missing filesystem reads as false.
func (s *Session) GetStartedViewed(ctx context.Context) (bool, error) {
	fs := s.Filesystem()
	if fs == nil {
		return false, nil
	}

	data, err := fs.Read(ctx, GetStartedPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !gjson.ValidBytes(data) {
		return false, fmt.Errorf("malformed %s", GetStartedPath)
	}
	return gjson.GetBytes(data, "viewed").Bool(), nil
}

// SetGetStartedViewed writes the flag file with viewed set and publishes
// the filesystem. Other fields of an existing file are kept. The in-memory
// flag is set once the publish succeeds, or right away when there is no
// filesystem to write to.
func (s *Session) SetGetStartedViewed(ctx context.Context) error {
	fs := s.Filesystem()
	if fs == nil {
		s.viewed.Set(true)
		log.Error("cannot record get-started view: ", ErrNoFilesystem)
		return ErrNoFilesystem
	}

	doc := []byte(`{}`)
	existing, err := fs.Read(ctx, GetStartedPath)
	switch {
	case err == nil && gjson.ValidBytes(existing) && gjson.ParseBytes(existing).IsObject():
		doc = existing
	case err == nil, errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	doc, err = sjson.SetBytes(doc, "viewed", true)
	if err != nil {
		return err
	}
	if err := fs.Write(ctx, GetStartedPath, doc); err != nil {
		return err
	}
	if _, err := fs.Publish(ctx); err != nil {
		return err
	}
	s.viewed.Set(true)
	return nil
}
