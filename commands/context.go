package commands

import (
	"context"
	"errors"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("command")

// Context represents request context.
type Context struct {
	ConfigRoot string

	node          *core.Node
	ConstructNode func() (*core.Node, error)
}

func (c *Context) GetConfig() (*config.Config, error) {
	node, err := c.GetNode()
	if err != nil {
		return nil, err
	}
	return node.Repo.Config()
}

// GetNode returns the node of the current Command execution
// context. It may construct it with the provided function.
func (c *Context) GetNode() (*core.Node, error) {
	var err error
	if c.node == nil {
		if c.ConstructNode == nil {
			return nil, errors.New("nil ConstructNode function")
		}
		c.node, err = c.ConstructNode()
	}
	return c.node, err
}

// Context returns the node's context.
func (c *Context) Context() context.Context {
	n, err := c.GetNode()
	if err != nil {
		log.Debug("error getting node: ", err)
		return context.Background()
	}

	return n.Context()
}

// Close cleans up the application state.
func (c *Context) Close() {
	// let's not forget teardown. If a node was initialized, we must close it.
	// Note that this means the underlying req.Context().Node variable is exposed.
	// this is gross, and should be changed when we extract out the exec Context.
	if c.node != nil {
		log.Info("Shutting down node...")
		if err := c.node.Close(); err != nil {
			log.Error("error closing node: ", err)
		}
	}
}
