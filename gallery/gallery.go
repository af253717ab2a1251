// Package gallery knows where the gallery keeps its files and exports them
// as records that can be written into another filesystem.
package gallery

import (
	"context"
	"errors"
	"os"

	"github.com/galleryfs/galleryfs/filesystem"
)

// Area selects the public or private half of the gallery.
type Area int

const (
	Public Area = iota
	Private
)

func (a Area) String() string {
	if a == Private {
		return "private"
	}
	return "public"
}

// Dirs maps each area to its image directory.
var Dirs = map[Area]filesystem.Path{
	Public:  filesystem.Directory("public", "gallery"),
	Private: filesystem.Directory("private", "gallery"),
}

var (
	AccountSettingsDir = filesystem.Directory("private", "settings")
	AvatarsDir         = AccountSettingsDir.JoinDir("avatars")
)

// Record is one exported file.
type Record struct {
	Path filesystem.Path
	Data []byte
}

// Images holds the exported gallery, split by area.
type Images struct {
	Public  []Record
	Private []Record
}

// Exporter reads gallery records out of FS.
type Exporter struct {
	FS filesystem.FileSystem
}

// Images exports every file directly inside the public and private gallery
// directories, in name order.
func (e *Exporter) Images(ctx context.Context) (Images, error) {
	var out Images
	var err error
	if out.Public, err = e.export(ctx, Dirs[Public]); err != nil {
		return Images{}, err
	}
	if out.Private, err = e.export(ctx, Dirs[Private]); err != nil {
		return Images{}, err
	}
	return out, nil
}

// Avatars exports the account avatars.
func (e *Exporter) Avatars(ctx context.Context) ([]Record, error) {
	return e.export(ctx, AvatarsDir)
}

func (e *Exporter) export(ctx context.Context, dir filesystem.Path) ([]Record, error) {
	entries, err := e.FS.Ls(ctx, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []Record
	for _, ent := range entries {
		if ent.Kind != filesystem.KindFile {
			continue
		}
		p := dir.Join(ent.Name)
		data, err := e.FS.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{Path: p, Data: data})
	}
	return recs, nil
}
