package config

// DefaultDataStoreDirectory is the directory to store all the local data.
const DefaultDataStoreDirectory = "datastore"

// Datastore tracks the configuration of the datastore.
type Datastore struct {
	StorageMax string // in B, kB, kiB, MB, ...

	// Spec is the datastore tree handed to fsrepo. Every node has a "type"
	// and type specific parameters.
	Spec map[string]interface{}
}

// DefaultDatastoreConfig is an internal function allowing the default config
// to be overridden by profiles.
func DefaultDatastoreConfig() Datastore {
	return Datastore{
		StorageMax: "10GB",
		Spec:       flatfsSpec(),
	}
}

// flatfsSpec stores blocks one file per block and everything else (root
// references, metadata) in leveldb.
func flatfsSpec() map[string]interface{} {
	return map[string]interface{}{
		"type": "mount",
		"mounts": []interface{}{
			map[string]interface{}{
				"mountpoint": "/blocks",
				"type":       "measure",
				"prefix":     "flatfs.datastore",
				"child": map[string]interface{}{
					"type":      "flatfs",
					"path":      "blocks",
					"sync":      true,
					"shardFunc": "/repo/flatfs/shard/v1/next-to-last/2",
				},
			},
			map[string]interface{}{
				"mountpoint": "/",
				"type":       "measure",
				"prefix":     "leveldb.datastore",
				"child": map[string]interface{}{
					"type":        "levelds",
					"path":        "datastore",
					"compression": "none",
				},
			},
		},
	}
}

func badgerSpec() map[string]interface{} {
	return map[string]interface{}{
		"type":   "measure",
		"prefix": "badger.datastore",
		"child": map[string]interface{}{
			"type":       "badgerds",
			"path":       "badgerds",
			"syncWrites": true,
			"truncate":   true,
		},
	}
}

func pebbleSpec() map[string]interface{} {
	return map[string]interface{}{
		"type":   "measure",
		"prefix": "pebble.datastore",
		"child": map[string]interface{}{
			"type": "pebbleds",
			"path": "pebbleds",
		},
	}
}

func memSpec() map[string]interface{} {
	return map[string]interface{}{
		"type": "mem",
	}
}
