// Command irknob-sim runs a transmitter and a receiver back to back on the
// host and reports the commands that made it across.
package main // import "github.com/sparques/irknob/cmd/irknob-sim"

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/config"
	"github.com/sparques/irknob/sim"
)

var log = logrus.New()

func main() {
	xmain(os.Args[1:], os.Stdout)
}

func xmain(args []string, stdout io.Writer) {
	var (
		fset = flag.NewFlagSet("irknob-sim", flag.ExitOnError)

		cfgName = fset.String("cfg", "", "path to JSON calibration file")
		verbose = fset.Bool("v", false, "enable verbose output")
	)

	fset.Usage = func() {
		fmt.Printf(`Usage: irknob-sim [OPTIONS] cmd1 [cmd2 [...]]

Commands are 4 characters (more, less, b_on, ...) or 32bit hex values (0xdeadbeef).

The simulated receiver counts one per encoder tick, so "receive" thresholds
of the calibration file are in ticks. Without them they are derived from
the "transmit" timing.

ex:
 $> irknob-sim more more less 0x00000000
 $> irknob-sim -cfg ./calib.json -v b_on boff

options:
`)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	log.Formatter = new(logrus.TextFormatter)
	log.Out = os.Stderr
	if *verbose {
		log.Level = logrus.DebugLevel
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing commands to send")
	}

	err = run(stdout, *cfgName, *verbose, fset.Args())
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(stdout io.Writer, cfgName string, verbose bool, args []string) error {
	cfg := config.Default()
	if cfgName != "" {
		var err error
		cfg, err = config.LoadFile(cfgName)
		if err != nil {
			return fmt.Errorf("could not load calibration: %w", err)
		}
	}

	cmds := make([]irknob.Command, len(args))
	for i, arg := range args {
		cmd, err := parseCommand(arg)
		if err != nil {
			return err
		}
		cmds[i] = cmd
	}

	log.WithFields(logrus.Fields{
		"carrier": cfg.Transmit.CarrierHz,
		"cmds":    len(cmds),
	}).Debug("starting link")

	var msg *stdlog.Logger
	if verbose {
		w := log.WriterLevel(logrus.DebugLevel)
		defer w.Close()
		msg = stdlog.New(w, "", 0)
	}
	link := sim.NewLink(cfg.Transmit, msg)
	link.Thresholds = cfg.Thresholds(link.Thresholds)
	err := cfg.Transmit.CheckThresholds(link.Thresholds, cfg.Transmit.TickPeriod())
	if err != nil {
		return fmt.Errorf("receive thresholds are not in ticks: %w", err)
	}
	rcvd, err := link.Run(context.Background(), cmds)
	if err != nil {
		return fmt.Errorf("could not run link: %w", err)
	}

	for _, cmd := range rcvd {
		fmt.Fprintf(stdout, "%v\n", cmd)
	}
	if len(rcvd) != len(cmds) {
		return fmt.Errorf("sent %d commands, received %d", len(cmds), len(rcvd))
	}
	return nil
}

func parseCommand(s string) (irknob.Command, error) {
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("could not parse command %q: %w", s, err)
		}
		return irknob.Command(v), nil
	}
	if len(s) != irknob.CommandSize {
		return 0, fmt.Errorf("invalid command %q: need %d characters", s, irknob.CommandSize)
	}
	return irknob.MakeCommand(s[0], s[1], s[2], s[3]), nil
}
