package track

// Controls is the enable/disable surface for the external start/stop
// controls. The tracker keeps exactly one of the two actionable at any time.
// Implementations must not call back into the Tracker.
type Controls interface {
	SetStartEnabled(enabled bool)
	SetStopEnabled(enabled bool)
}

// StatusSink receives the single free-text status line.
type StatusSink interface {
	SetStatus(status string)
}

// NopControls is a Controls that does nothing, for headless operation.
type NopControls struct{}

func (NopControls) SetStartEnabled(bool) {}
func (NopControls) SetStopEnabled(bool)  {}

// NopStatus is a StatusSink that does nothing.
type NopStatus struct{}

func (NopStatus) SetStatus(string) {}

// MultiControls fans out control state to several surfaces (e.g. tray and
// web UI) so they stay mutually consistent.
func MultiControls(controls ...Controls) Controls {
	return fanoutControls(controls)
}

type fanoutControls []Controls

func (f fanoutControls) SetStartEnabled(enabled bool) {
	for _, c := range f {
		c.SetStartEnabled(enabled)
	}
}

func (f fanoutControls) SetStopEnabled(enabled bool) {
	for _, c := range f {
		c.SetStopEnabled(enabled)
	}
}

// MultiStatus fans the status line out to several sinks.
func MultiStatus(sinks ...StatusSink) StatusSink {
	return fanoutStatus(sinks)
}

type fanoutStatus []StatusSink

func (f fanoutStatus) SetStatus(status string) {
	for _, s := range f {
		s.SetStatus(status)
	}
}
