package message

// Dispatcher answers requests.
type Dispatcher interface {
	Handle(req Request) Response
}

// Scope is page-scoped state shared by every copy of the content script
// injected into the same document.
type Scope interface {
	// Active returns the dispatcher of the instance already running in
	// the page, if any.
	Active() (Dispatcher, bool)
	// Activate records d as the page's instance.
	Activate(d Dispatcher)
}

// Install starts a page instance unless one is already active. It returns
// the dispatcher callers should use and whether build was called.
func Install(scope Scope, build func() Dispatcher) (Dispatcher, bool) {
	if d, ok := scope.Active(); ok {
		return d, false
	}
	d := build()
	scope.Activate(d)
	return d, true
}
