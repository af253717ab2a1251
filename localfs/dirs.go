package localfs

import (
	"context"
	"fmt"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/gallery"
)

// EnsureDirectories creates every path, with parents, that does not exist
// yet. All paths are checked before anything is created.
func EnsureDirectories(ctx context.Context, fs filesystem.FileSystem, paths ...filesystem.Path) error {
	for _, p := range paths {
		if err := p.Validate(); err != nil {
			return err
		}
		if !p.IsDirectory() {
			return fmt.Errorf("%w: %s", filesystem.ErrNotDirectory, p)
		}
	}

	for _, p := range paths {
		ok, err := fs.Exists(ctx, p)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := fs.Mkdir(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Initialize prepares a freshly obtained local-only filesystem.
func Initialize(ctx context.Context, fs filesystem.FileSystem) error {
	return EnsureDirectories(ctx, fs, gallery.Dirs[gallery.Public], gallery.Dirs[gallery.Private])
}
