package actuator

// Stepper is a stepper motor. *easystepper.Device satisfies it.
type Stepper interface {
	Move(steps int32)
	Off()
}

// Dial shows a level with a needle turned by a stepper motor. The needle
// must rest at level 0 when NewDial is called.
type Dial struct {
	st       Stepper
	perLevel int32
	pos      int32
}

func NewDial(st Stepper, stepsPerLevel int32) *Dial {
	return &Dial{st: st, perLevel: stepsPerLevel}
}

// Show turns the needle to level and releases the coils. It blocks while
// the motor turns.
func (d *Dial) Show(level uint8) {
	target := int32(level) * d.perLevel
	if target == d.pos {
		return
	}
	d.st.Move(target - d.pos)
	d.st.Off()
	d.pos = target
}

// Zero turns the needle back to level 0.
func (d *Dial) Zero() { d.Show(0) }
