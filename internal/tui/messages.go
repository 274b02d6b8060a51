package tui

// loadedMsg is emitted when a grant list refresh finishes.
type loadedMsg struct {
	Err error
}

// submittedMsg is emitted when an add-grant submit finishes.
type submittedMsg struct {
	Err error
}
