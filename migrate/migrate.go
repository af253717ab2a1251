// Package migrate moves the gallery from the active filesystem into the
// local-only one.
package migrate

import (
	"context"
	"fmt"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/gallery"
	"github.com/galleryfs/galleryfs/localfs"
	"github.com/galleryfs/galleryfs/session"
	"github.com/galleryfs/galleryfs/tracing"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("migrate")

// Exporter reads the records to migrate out of the source filesystem.
type Exporter interface {
	Images(ctx context.Context) (gallery.Images, error)
	Avatars(ctx context.Context) ([]gallery.Record, error)
}

// Migrator copies the gallery of Session's active filesystem into the
// filesystem returned by Open, which becomes the active one.
type Migrator struct {
	// Exporter reads the source records. When nil, Migrate exports the
	// filesystem that is active at the time it runs.
	Exporter Exporter
	Session  *session.Session
	Open     func(ctx context.Context) (filesystem.FileSystem, error)
}

// Report summarizes a finished migration.
type Report struct {
	Records int
	Bytes   int64
	Root    string
}

// Migrate runs the migration. It stops at the first failure; whatever was
// written before stays in the destination.
func (m *Migrator) Migrate(ctx context.Context) (*Report, error) {
	ctx, span := tracing.Span(ctx, "Migrate", "Migrate")
	defer span.End()

	exp := m.Exporter
	if exp == nil {
		src := m.Session.Filesystem()
		if src == nil {
			return nil, fmt.Errorf("exporting: %w", session.ErrNoFilesystem)
		}
		exp = &gallery.Exporter{FS: src}
	}

	var (
		images  gallery.Images
		avatars []gallery.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if images, err = exp.Images(gctx); err != nil {
			return fmt.Errorf("exporting images: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if avatars, err = exp.Avatars(gctx); err != nil {
			return fmt.Errorf("exporting avatars: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	viewed, err := m.Session.GetStartedViewed(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading onboarding flag: %w", err)
	}

	dst, err := m.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening local-only filesystem: %w", err)
	}
	m.Session.SetFilesystem(dst)

	dirs := []filesystem.Path{
		gallery.Dirs[gallery.Public],
		gallery.Dirs[gallery.Private],
		gallery.AccountSettingsDir,
	}
	if err := localfs.EnsureDirectories(ctx, dst, dirs...); err != nil {
		return nil, fmt.Errorf("creating directories: %w", err)
	}

	rep := &Report{}
	for _, step := range []struct {
		name string
		recs []gallery.Record
	}{
		{"public images", images.Public},
		{"private images", images.Private},
		{"avatars", avatars},
	} {
		if err := m.write(ctx, dst, step.recs, rep); err != nil {
			return nil, fmt.Errorf("writing %s: %w", step.name, err)
		}
		log.Debugw("migrated", "step", step.name, "records", len(step.recs))
	}

	if viewed {
		if err := m.Session.SetGetStartedViewed(ctx); err != nil {
			return nil, fmt.Errorf("writing onboarding flag: %w", err)
		}
	}

	c, err := dst.Publish(ctx)
	if err != nil {
		return nil, fmt.Errorf("publishing: %w", err)
	}
	rep.Root = filesystem.EncodeCID(c)

	span.SetAttributes(attribute.Int("records", rep.Records), attribute.String("root", rep.Root))
	log.Infow("migration complete", "records", rep.Records, "bytes", rep.Bytes, "root", rep.Root)
	return rep, nil
}

func (m *Migrator) write(ctx context.Context, dst filesystem.FileSystem, recs []gallery.Record, rep *Report) error {
	for _, r := range recs {
		if err := dst.Write(ctx, r.Path, r.Data); err != nil {
			return fmt.Errorf("%s: %w", r.Path, err)
		}
		rep.Records++
		rep.Bytes += int64(len(r.Data))
	}
	return nil
}
