// Package irknob implements the infrared link between a hand-held knob
// transmitter and a receiver.
//
// Data is carried in the length of the silent pauses between fixed-length
// carrier bursts: a short pause is a 0, a long pause is a 1. A transmission
// is one 32-bit Command sent most significant bit first. The first burst is
// longer than the others to let the receiver's gain control settle.
//
// The transmit side is the Encoder, advanced by a periodic Tick at twice the
// carrier frequency and by PollDone from the control loop. The receive side
// is the Decoder, which measures pause lengths with a Meter.
package irknob

import (
	"fmt"
	"time"
)

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000

	// CommandSize is the number of payload bytes in one transmission.
	CommandSize = 4
)

// Command is the 32-bit payload of one transmission. By convention it is
// four printable bytes so a captured signal can be read by eye.
type Command uint32

// MakeCommand packs four bytes into a Command, a first.
func MakeCommand(a, b, c, d byte) Command {
	return Command(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// CommandFromBytes is the inverse of Command.Bytes.
func CommandFromBytes(buf [CommandSize]byte) Command {
	return MakeCommand(buf[0], buf[1], buf[2], buf[3])
}

var (
	CmdMore       = MakeCommand('m', 'o', 'r', 'e') // knob turned right
	CmdLess       = MakeCommand('l', 'e', 's', 's') // knob turned left
	CmdButtonOn   = MakeCommand('b', '_', 'o', 'n') // button pressed
	CmdButtonOff  = MakeCommand('b', 'o', 'f', 'f') // button released
	CmdButtonHold = MakeCommand('b', 'h', 'l', 'd') // button kept pressed
)

// Bytes returns the command in wire order.
func (c Command) Bytes() [CommandSize]byte {
	return [CommandSize]byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)}
}

func (c Command) String() string {
	buf := c.Bytes()
	for _, b := range buf {
		if b < 0x20 || b > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(c))
		}
	}
	return string(buf[:])
}

// TimePair encodes two durations used to encode an on-off or off-on amount of time.
type TimePair [2]time.Duration

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// Frame is a Command together with the Timing used to put it on the air.
type Frame struct {
	Command Command
	Timing  Timing
}

// MarshalFrame returns one burst/pause pair per bit plus the trailing burst
// and the final pause, 33 pairs in total. The pause of pair i carries bit
// 31-i.
func (f Frame) MarshalFrame() []TimePair {
	var (
		t    = f.Timing
		tick = t.TickPeriod()
		out  = make([]TimePair, 0, 33)
	)
	burst := time.Duration(t.InitialBurst) * tick
	for bit := uint32(1) << 31; bit != 0; bit >>= 1 {
		pause := t.ZeroPause
		if uint32(f.Command)&bit != 0 {
			pause = t.OnePause
		}
		out = append(out, TimePair{burst, time.Duration(pause) * tick})
		burst = time.Duration(t.Burst) * tick
	}
	return append(out, TimePair{burst, time.Duration(t.FinalPause) * tick})
}
