package actuator

import "time"

// HBridge drives a DC motor. *l9110x.Device and *l293x.Device satisfy it.
type HBridge interface {
	Forward()
	Backward()
	Stop()
}

// Motor runs an H-bridge for a fixed pulse per command. It never blocks:
// the control loop calls Update to stop the motor once the pulse is over.
type Motor struct {
	hb      HBridge
	pulse   time.Duration
	until   time.Time
	running bool
}

func NewMotor(hb HBridge, pulse time.Duration) *Motor {
	hb.Stop()
	return &Motor{hb: hb, pulse: pulse}
}

func (m *Motor) Running() bool { return m.running }

// Run starts or extends a pulse: forward for dir > 0, backward for dir < 0.
// dir == 0 stops the motor.
func (m *Motor) Run(dir int, now time.Time) {
	switch {
	case dir > 0:
		m.hb.Forward()
	case dir < 0:
		m.hb.Backward()
	default:
		m.Stop()
		return
	}
	m.running = true
	m.until = now.Add(m.pulse)
}

// Update stops the motor when its pulse is over.
func (m *Motor) Update(now time.Time) {
	if m.running && !now.Before(m.until) {
		m.Stop()
	}
}

func (m *Motor) Stop() {
	m.hb.Stop()
	m.running = false
}
