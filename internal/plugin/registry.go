package plugin

import tea "github.com/charmbracelet/bubbletea"

// Registry holds the registered plugins in tab order.
type Registry struct {
	ctx     *Context
	plugins []Plugin
	active  int
}

func NewRegistry(ctx *Context) *Registry {
	return &Registry{ctx: ctx}
}

// Register adds a plugin. Registration order determines tab order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
}

// Context returns the shared plugin context.
func (r *Registry) Context() *Context { return r.ctx }

// Plugins returns the registered plugins in order.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ByID returns the plugin with the given ID, or nil.
func (r *Registry) ByID(id string) Plugin {
	for _, p := range r.plugins {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Active returns the currently active plugin, or nil when none registered.
func (r *Registry) Active() Plugin {
	if len(r.plugins) == 0 {
		return nil
	}
	return r.plugins[r.active]
}

// ActiveIndex returns the index of the active plugin.
func (r *Registry) ActiveIndex() int { return r.active }

// SetActive switches the active plugin, updating focus on both sides.
func (r *Registry) SetActive(i int) {
	if i < 0 || i >= len(r.plugins) || i == r.active {
		return
	}
	r.plugins[r.active].SetFocused(false)
	r.active = i
	r.plugins[r.active].SetFocused(true)
}

// InitAll initializes every plugin with the shared context. The first
// error aborts initialization.
func (r *Registry) InitAll() error {
	for _, p := range r.plugins {
		if err := p.Init(r.ctx); err != nil {
			return err
		}
	}
	return nil
}

// StartAll collects the start command of every plugin.
func (r *Registry) StartAll() []tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range r.plugins {
		if cmd := p.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// StopAll stops every plugin in reverse registration order.
func (r *Registry) StopAll() {
	for i := len(r.plugins) - 1; i >= 0; i-- {
		r.plugins[i].Stop()
	}
}
