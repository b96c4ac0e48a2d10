package plugin

import (
	"log/slog"

	"github.com/marcus/workbench/internal/config"
)

// Context carries shared resources into a plugin at Init.
type Context struct {
	WorkDir   string
	ConfigDir string
	Config    *config.Config
	Logger    *slog.Logger
}

// Log returns the context logger, or a discarding logger when unset.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
