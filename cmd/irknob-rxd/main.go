// Command irknob-rxd is a receiver for Linux boards: it decodes the knob
// from an IR receiver on a GPIO line, steps a digital potentiometer on the
// I2C bus and forwards every command to Redis.
package main // import "github.com/sparques/irknob/cmd/irknob-rxd"

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/actuator"
	"github.com/sparques/irknob/bridge"
	"github.com/sparques/irknob/config"
	"github.com/sparques/irknob/dispatch"
	"github.com/sparques/irknob/rpi"
)

var log = logrus.New()

// idlePoll is how often the input is checked for the start of a
// transmission. It must be shorter than the initial burst.
const idlePoll = 500 * time.Microsecond

// edgeResolution is the unit of the EdgeMeter counts, and so of the receive
// thresholds.
const edgeResolution = time.Microsecond

// publisher forwards commands; *bridge.Redis implements it.
type publisher interface {
	Publish(cmd irknob.Command) error
}

// stepper is the volume control; *actuator.Attenuator implements it.
type stepper interface {
	Up() error
	Down() error
	Level() uint8
}

func main() {
	var (
		pin        = flag.String("pin", "GPIO17", "GPIO line of the IR receiver")
		activeHigh = flag.Bool("active-high", false, "receiver output is high on carrier")
		bus        = flag.String("i2c", "", "I2C bus of the potentiometer and EEPROM")
		cfgName    = flag.String("cfg", "", "path to JSON5 calibration file")
		addr       = flag.String("redis", "localhost:6379", "address of the Redis server, empty to disable")
		channel    = flag.String("channel", bridge.DefaultChannel, "Redis channel")
		verbose    = flag.Bool("v", false, "enable verbose output")
	)

	flag.Parse()

	log.Formatter = new(logrus.TextFormatter)
	log.Level = logrus.InfoLevel
	if *verbose {
		log.Level = logrus.DebugLevel
	}

	th, err := loadThresholds(*cfgName)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.WithFields(logrus.Fields{"one": th.One, "end": th.End}).Debug("thresholds")

	board, err := rpi.Open(*pin, *bus)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer board.Close()

	var pub publisher
	if *addr != "" {
		r, db := bridge.Dial(*addr)
		defer db.Close()
		r.Channel = *channel
		pub = r
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, board, th, *activeHigh, pub)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

// loadThresholds returns the receive thresholds for the EdgeMeter. A
// calibration file without receive thresholds gets them derived from its
// transmit timing. Thresholds that cannot decode that timing at the meter
// resolution are rejected, which catches values measured with another meter.
func loadThresholds(cfgName string) (irknob.Thresholds, error) {
	cfg := config.Default()
	if cfgName != "" {
		var err error
		cfg, err = config.LoadFile(cfgName)
		if err != nil {
			return irknob.Thresholds{}, err
		}
	}
	th := cfg.Thresholds(cfg.Transmit.EdgeThresholds(edgeResolution))
	err := cfg.Transmit.CheckThresholds(th, edgeResolution)
	if err != nil {
		return irknob.Thresholds{}, fmt.Errorf("receive thresholds do not fit a %v edge meter: %w", edgeResolution, err)
	}
	return th, nil
}

// newDispatcher steps att on more/less and forwards every command to pub,
// if not nil.
func newDispatcher(att stepper, pub publisher) *dispatch.Dispatcher {
	forward := func(cmd irknob.Command) {
		log.WithField("cmd", cmd).Debug("received")
		if pub == nil {
			return
		}
		if err := pub.Publish(cmd); err != nil {
			log.WithError(err).Warn("could not forward command")
		}
	}
	step := func(fn func() error) dispatch.Handler {
		return func(cmd irknob.Command) {
			if err := fn(); err != nil {
				log.WithError(err).Error("could not step attenuator")
			}
			log.WithField("level", att.Level()).Info("attenuator")
			forward(cmd)
		}
	}

	disp := dispatch.NewDispatcher()
	disp.Handle(irknob.CmdMore, step(att.Up))
	disp.Handle(irknob.CmdLess, step(att.Down))
	disp.Fallback = forward
	return disp
}

func run(ctx context.Context, board *rpi.Board, th irknob.Thresholds, activeHigh bool, pub publisher) error {
	meter := irknob.NewEdgeMeter(edgeResolution, nil)
	dec, err := irknob.NewDecoder(meter, th)
	if err != nil {
		return fmt.Errorf("could not create decoder: %w", err)
	}

	att, err := actuator.NewAttenuator(board.Bus, actuator.NewEEPROM(board.Bus), actuator.AttenuatorConfig{})
	if err != nil {
		return fmt.Errorf("could not create attenuator: %w", err)
	}
	log.WithField("level", att.Level()).Info("attenuator restored")

	disp := newDispatcher(att, pub)

	w := log.WriterLevel(logrus.DebugLevel)
	defer w.Close()
	recv := dispatch.NewReceiver(dec, disp, dispatch.WithLogger(stdlog.New(w, "", 0)))

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return rpi.Watch(ctx, board.IR, meter, activeHigh)
	})
	grp.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				log.WithField("dropped", recv.Dropped()).Info("stopping")
				return nil
			default:
			}
			_, ok, err := recv.Poll()
			if err != nil {
				log.WithError(err).Warn("could not handle command")
			}
			if !ok {
				time.Sleep(idlePoll)
			}
		}
	})
	return grp.Wait()
}
