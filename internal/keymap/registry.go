// Package keymap maps key presses to command identifiers per focus
// context. Plugins register command handlers; the app resolves a key in
// the active context, falling back to global bindings.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/plugin"
)

// Binding associates a key with a command in a focus context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds bindings, user overrides, and registered commands.
type Registry struct {
	// context -> key -> command id
	bindings map[string]map[string]string

	// user overrides apply in every context, on top of defaults
	overrides map[string]string

	commands map[string]plugin.Command
}

func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[string]map[string]string),
		overrides: make(map[string]string),
		commands:  make(map[string]plugin.Command),
	}
}

// RegisterBinding adds a binding, replacing any existing one for the
// same key and context.
func (r *Registry) RegisterBinding(b Binding) {
	ctx := r.bindings[b.Context]
	if ctx == nil {
		ctx = make(map[string]string)
		r.bindings[b.Context] = ctx
	}
	ctx[b.Key] = b.Command
}

// SetUserOverride maps a key to a command id in every context.
func (r *Registry) SetUserOverride(key, commandID string) {
	r.overrides[key] = commandID
}

// RegisterCommands makes plugin commands resolvable by id.
func (r *Registry) RegisterCommands(cmds []plugin.Command) {
	for _, c := range cmds {
		r.commands[c.ID] = c
	}
}

// GetCommand returns the command registered under id.
func (r *Registry) GetCommand(id string) (plugin.Command, bool) {
	c, ok := r.commands[id]
	return c, ok
}

// Resolve maps a key in a context to a command id. Context-specific
// bindings win over global ones; user overrides win over both.
func (r *Registry) Resolve(key, context string) (string, bool) {
	if id, ok := r.overrides[key]; ok {
		return id, true
	}
	if ctx, ok := r.bindings[context]; ok {
		if id, ok := ctx[key]; ok {
			return id, true
		}
	}
	if global, ok := r.bindings["global"]; ok {
		if id, ok := global[key]; ok {
			return id, true
		}
	}
	return "", false
}

// Handle resolves a key press and runs the bound command's handler.
// Returns nil when the key is unbound or the command has no handler.
func (r *Registry) Handle(msg tea.KeyMsg, context string) tea.Cmd {
	id, ok := r.Resolve(msg.String(), context)
	if !ok {
		return nil
	}
	cmd, ok := r.commands[id]
	if !ok || cmd.Handler == nil {
		return nil
	}
	return cmd.Handler()
}

// CommandsFor returns the command ids bound in a context, for the help
// footer.
func (r *Registry) CommandsFor(context string) map[string]string {
	out := make(map[string]string)
	if global, ok := r.bindings["global"]; ok {
		for k, v := range global {
			out[k] = v
		}
	}
	if ctx, ok := r.bindings[context]; ok {
		for k, v := range ctx {
			out[k] = v
		}
	}
	for k, v := range r.overrides {
		out[k] = v
	}
	return out
}
