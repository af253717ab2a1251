package config

const (
	// FilesystemSynced is the default mode: the filesystem is meant to be
	// replicated across the account's devices.
	FilesystemSynced = "synced"
	// FilesystemLocalOnly keeps the filesystem on this device only.
	FilesystemLocalOnly = "local-only"
)

// Filesystem selects the filesystem a node opens on start.
type Filesystem struct {
	// Mode is either "synced" (default when empty) or "local-only".
	Mode string `json:",omitempty"`
}

// LocalOnly reports whether the node should open the local-only filesystem.
func (f Filesystem) LocalOnly() bool {
	return f.Mode == FilesystemLocalOnly
}
