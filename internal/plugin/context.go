package plugin

import (
	"log/slog"

	"github.com/jdbrinton/treeline/internal/workspace"
)

// Context carries the shared session state handed to every plugin at Init.
// There is exactly one Context per running program; plugins must not stash
// copies of its fields beyond their own lifetime.
type Context struct {
	// WorkDir is the absolute path of the workspace root.
	WorkDir string

	// ConfigDir is where treeline keeps its config and state files.
	ConfigDir string

	// Workspace owns the open views, the preview slot, and the shared
	// document models.
	Workspace *workspace.Workspace

	Logger *slog.Logger

	// Epoch increments every time the workspace root changes. Async
	// messages carry the epoch they were started under so results from a
	// previous root can be discarded.
	Epoch uint64
}
