package fsrepo

import (
	"fmt"
	"os"
	"path/filepath"

	repo "github.com/galleryfs/galleryfs/repo"

	"github.com/cockroachdb/pebble"
	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/mount"
	dssync "github.com/ipfs/go-datastore/sync"
	badgerds "github.com/ipfs/go-ds-badger"
	flatfs "github.com/ipfs/go-ds-flatfs"
	levelds "github.com/ipfs/go-ds-leveldb"
	measure "github.com/ipfs/go-ds-measure"
	pebbleds "github.com/ipfs/go-ds-pebble"
	"github.com/pbnjay/memory"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
)

// constructDatastore builds the datastore tree described by params. Relative
// paths are resolved against repoPath.
func constructDatastore(repoPath string, params map[string]interface{}) (repo.Datastore, error) {
	switch params["type"] {
	case "mount":
		mounts, ok := params["mounts"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("'mounts' field is missing or not an array")
		}

		return openMountDatastore(repoPath, mounts)
	case "flatfs":
		return openFlatfsDatastore(repoPath, params)
	case "mem":
		return dssync.MutexWrap(ds.NewMapDatastore()), nil
	case "log":
		childField, ok := params["child"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("'child' field is missing or not a map")
		}
		child, err := constructDatastore(repoPath, childField)
		if err != nil {
			return nil, err
		}
		nameField, ok := params["name"].(string)
		if !ok {
			return nil, fmt.Errorf("'name' field was missing or not a string")
		}
		return ds.NewLogDatastore(child, nameField), nil
	case "measure":
		childField, ok := params["child"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("'child' field was missing or not a map")
		}
		child, err := constructDatastore(repoPath, childField)
		if err != nil {
			return nil, err
		}

		prefix, ok := params["prefix"].(string)
		if !ok {
			return nil, fmt.Errorf("'prefix' field was missing or not a string")
		}

		return measure.New(prefix, child), nil
	case "levelds":
		return openLeveldbDatastore(repoPath, params)
	case "badgerds":
		return openBadgerDatastore(repoPath, params)
	case "pebbleds":
		return openPebbleDatastore(repoPath, params)
	default:
		return nil, fmt.Errorf("unknown datastore type: %s", params["type"])
	}
}

func openMountDatastore(repoPath string, mountcfg []interface{}) (repo.Datastore, error) {
	var mounts []mount.Mount
	for _, iface := range mountcfg {
		cfg, ok := iface.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected map for mountpoint")
		}

		prefix, ok := cfg["mountpoint"].(string)
		if !ok {
			return nil, fmt.Errorf("no 'mountpoint' on mount")
		}

		child, err := constructDatastore(repoPath, cfg)
		if err != nil {
			return nil, err
		}

		mounts = append(mounts, mount.Mount{
			Datastore: child,
			Prefix:    ds.NewKey(prefix),
		})
	}

	return mount.New(mounts), nil
}

func resolvePath(repoPath string, params map[string]interface{}) (string, error) {
	p, ok := params["path"].(string)
	if !ok {
		return "", fmt.Errorf("'path' field is missing or not string")
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(repoPath, p)
	}
	return p, nil
}

func openFlatfsDatastore(repoPath string, params map[string]interface{}) (repo.Datastore, error) {
	p, err := resolvePath(repoPath, params)
	if err != nil {
		return nil, err
	}

	sshardFun, ok := params["shardFunc"].(string)
	if !ok {
		return nil, fmt.Errorf("'shardFunc' field is missing or not a string")
	}
	shardFun, err := flatfs.ParseShardFunc(sshardFun)
	if err != nil {
		return nil, err
	}

	syncField, ok := params["sync"].(bool)
	if !ok {
		return nil, fmt.Errorf("'sync' field is missing or not boolean")
	}
	return flatfs.CreateOrOpen(p, shardFun, syncField)
}

func openLeveldbDatastore(repoPath string, params map[string]interface{}) (repo.Datastore, error) {
	p, err := resolvePath(repoPath, params)
	if err != nil {
		return nil, err
	}

	var c ldbopts.Compression
	compression, _ := params["compression"].(string)
	switch compression {
	case "none":
		c = ldbopts.NoCompression
	case "snappy":
		c = ldbopts.SnappyCompression
	case "":
		c = ldbopts.DefaultCompression
	default:
		return nil, fmt.Errorf("unrecognized value for compression: %s", compression)
	}
	return levelds.NewDatastore(p, &levelds.Options{
		Compression: c,
	})
}

func openBadgerDatastore(repoPath string, params map[string]interface{}) (repo.Datastore, error) {
	p, err := resolvePath(repoPath, params)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return nil, err
	}

	opts := badgerds.DefaultOptions
	if sw, ok := params["syncWrites"].(bool); ok {
		opts.SyncWrites = sw
	}
	if tr, ok := params["truncate"].(bool); ok {
		opts.Truncate = tr
	}
	return badgerds.NewDatastore(p, &opts)
}

func openPebbleDatastore(repoPath string, params map[string]interface{}) (repo.Datastore, error) {
	p, err := resolvePath(repoPath, params)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return nil, err
	}

	var opts pebble.Options
	opts = *opts.EnsureDefaults()
	opts.MemTableSize = memTableSize(memory.TotalMemory())
	if v, ok := params["memTableSize"].(float64); ok && v > 0 {
		opts.MemTableSize = uint64(v)
	}
	opts.Levels[0].Compression = pebble.NoCompression

	return pebbleds.NewDatastore(p, pebbleds.WithPebbleOpts(&opts))
}

// memTableSize gives pebble a thirty-second of the system memory, kept
// between 4MiB and 64MiB.
func memTableSize(total uint64) uint64 {
	const (
		lo = 4 << 20
		hi = 64 << 20
	)
	size := total / 32
	switch {
	case size < lo:
		return lo
	case size > hi:
		return hi
	}
	return size
}
