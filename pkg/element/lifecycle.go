package element

// State is the lifecycle state of an element.
type State uint8

const (
	StateUnattached State = iota
	StatePreMount
	StateMounted
	StateUnmounted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StatePreMount:
		return "premount"
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// State returns the current lifecycle state.
func (e *Element) State() State {
	return e.state
}

// Mounted reports whether the element is mounted.
func (e *Element) Mounted() bool {
	return e.state == StateMounted
}

func (e *Element) transition(to State) {
	e.logger.Debug("lifecycle transition", "from", e.state.String(), "to", to.String())
	e.state = to
	e.metrics.transition(e.tag, to.String())
}

// connected mounts the element. Repeated connect callbacks while attached
// are ignored.
func (e *Element) connected() {
	if e.state == StatePreMount || e.state == StateMounted {
		return
	}
	span := e.tracer.start("velement.mount")
	defer span.End()

	e.transition(StatePreMount)

	if pm, ok := e.comp.(PreMounter); ok {
		pm.OnPreMount()
	}
	for _, h := range e.hooks {
		if h.PreMount != nil {
			h.PreMount()
		}
	}

	e.store.Subscribe()
	e.installStyle()

	if u, ok := e.comp.(Updater); ok {
		all := e.store.Snapshot()
		u.OnUpdate(all, all)
	}

	for _, h := range e.hooks {
		if h.Mount != nil {
			h.Mount()
		}
	}

	e.render()
	e.transition(StateMounted)

	if m, ok := e.comp.(Mounter); ok {
		m.OnMount()
	}
}

// disconnected tears the element down. It runs only once per mount.
func (e *Element) disconnected() {
	if e.state != StatePreMount && e.state != StateMounted {
		return
	}
	span := e.tracer.start("velement.unmount")
	defer span.End()

	e.sched.Cancel()
	e.transition(StateUnmounted)

	if u, ok := e.comp.(Unmounter); ok {
		u.OnUnmount()
	}
	e.releaseStyle()
	e.store.Unsubscribe()

	for _, h := range e.hooks {
		if h.Unmount != nil {
			h.Unmount()
		}
	}
}
