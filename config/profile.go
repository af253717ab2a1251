package config

// Transformer is a function which takes configuration and applies some filter to it
type Transformer func(c *Config) error

// Profile contains the profile transformer the description of the profile
type Profile struct {
	// Description briefly describes the functionality of the profile
	Description string

	// Transform takes galleryfs configuration and applies the profile to it
	Transform Transformer
}

// Profiles is a map holding configuration transformers.
var Profiles = map[string]Profile{
	"flatfs": {
		Description: `Default datastore: blocks in flatfs, everything else in leveldb.`,
		Transform: func(c *Config) error {
			c.Datastore.Spec = flatfsSpec()
			return nil
		},
	},
	"badgerds": {
		Description: `Replaces the default datastore configuration with badger.

If you apply this profile after init, the existing gallery stays in the
old datastore and the filesystems start empty.`,
		Transform: func(c *Config) error {
			c.Datastore.Spec = badgerSpec()
			return nil
		},
	},
	"pebbleds": {
		Description: `Replaces the default datastore configuration with pebble.`,
		Transform: func(c *Config) error {
			c.Datastore.Spec = pebbleSpec()
			return nil
		},
	},
	"test": {
		Description: `Keeps everything in memory. Nothing survives the process;
useful in tests.`,
		Transform: func(c *Config) error {
			c.Datastore.Spec = memSpec()
			return nil
		},
	},
	"local-only": {
		Description: `Starts in local-only mode instead of the synced filesystem.`,
		Transform: func(c *Config) error {
			c.Filesystem.Mode = FilesystemLocalOnly
			return nil
		},
	},
}
