// Package actuator holds the peripheral adapters of the receiver: the
// attenuator, the LED indicator, the LED matrix level bar, the needle dial
// and the motor.
//
// Every adapter talks to its chip through a narrow interface so the logic
// runs on the host; the constructors binding them to TinyGo drivers live in
// the tinygo build.
package actuator
