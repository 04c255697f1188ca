package clish

// StackFrame is one entry of the ViewStack: the View in effect plus the
// viewid variable bindings that came into scope when it was pushed
// (spec.md §4.3, §6 expand scope order).
type StackFrame struct {
	View   *View
	Vars   map[string]string
}

// ViewStack is the operator's current mode chain, e.g. enable ->
// configure -> interface. Mutations take effect only after a command's
// action returns (spec.md §5): callers push/pop/truncate once dispatch
// is complete, never mid-parse.
type ViewStack struct {
	frames []*StackFrame
}

// NewViewStack creates a stack seeded with the given root view.
func NewViewStack(root *View) *ViewStack {
	return &ViewStack{frames: []*StackFrame{{View: root, Vars: map[string]string{}}}}
}

// Top returns the view currently in effect.
func (s *ViewStack) Top() *View {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1].View
}

// Depth returns the current stack depth, for Command.Depth bookkeeping.
func (s *ViewStack) Depth() int {
	return len(s.frames)
}

// Push enters a new view, recording vars (the command's expanded Viewid
// map, if any) in the new top frame.
func (s *ViewStack) Push(v *View, vars map[string]string) {
	if vars == nil {
		vars = map[string]string{}
	}
	s.frames = append(s.frames, &StackFrame{View: v, Vars: vars})
}

// Pop removes the top frame, unless it is the last remaining one.
func (s *ViewStack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// RestoreView pops frames until the given view is on top, or until only
// the root frame remains. It implements Command.Restore == RestoreView:
// revert to the command's declaration view.
func (s *ViewStack) RestoreView(declared *View) {
	for len(s.frames) > 1 && s.Top() != declared {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// RestoreDepth truncates the stack to the given depth. It implements
// Command.Restore == RestoreDepth.
func (s *ViewStack) RestoreDepth(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth < len(s.frames) {
		s.frames = s.frames[:depth]
	}
}

// Apply performs the view-stack effect declared by a Command once its
// action has returned, per Command.Restore/View/Viewname/Viewid.
func (s *ViewStack) Apply(cmd *Command, catalogue *Catalogue, vars map[string]string) {
	switch cmd.Restore {
	case RestoreView:
		s.RestoreView(cmd.View)
	case RestoreDepth:
		s.RestoreDepth(cmd.Depth)
	}

	if cmd.Viewname != "" {
		if v := catalogue.View(cmd.Viewname); v != nil {
			s.Push(v, vars)
		}
	}
}

// Vars returns the merged viewid variable scopes of the stack, topmost
// frame first — the order `expand` consults after PArgV bindings
// (spec.md §6).
func (s *ViewStack) Vars() []map[string]string {
	out := make([]map[string]string, 0, len(s.frames))
	for i := len(s.frames) - 1; i >= 0; i-- {
		out = append(out, s.frames[i].Vars)
	}
	return out
}

// Catalogue is the set of named Views built at schema-load time,
// read-only during serving.
type Catalogue struct {
	views map[string]*View
}

// NewCatalogue creates an empty view catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{views: make(map[string]*View)}
}

// AddView registers a View by name.
func (c *Catalogue) AddView(v *View) {
	c.views[v.Name] = v
}

// View looks up a View by name.
func (c *Catalogue) View(name string) *View {
	return c.views[name]
}
