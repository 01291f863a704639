package relay

// FakeController records relay commands for test assertions.
type FakeController struct {
	// Sets contains every logical state written via Set, in order.
	Sets []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeController creates a FakeController for testing.
func NewFakeController() *FakeController {
	return &FakeController{}
}

// Set records the commanded state.
func (f *FakeController) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Sets = append(f.Sets, on)
	return nil
}

// Close marks the controller as closed.
func (f *FakeController) Close() error {
	f.Closed = true
	return nil
}

// On reports the last commanded state (false if Set was never called).
func (f *FakeController) On() bool {
	if len(f.Sets) == 0 {
		return false
	}
	return f.Sets[len(f.Sets)-1]
}
