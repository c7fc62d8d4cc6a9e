// Command irknob-monitor prints the commands a receiver echoes on its
// serial port, and optionally forwards them to Redis.
package main // import "github.com/sparques/irknob/cmd/irknob-monitor"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/bridge"
	"github.com/sparques/irknob/serial"
)

var log = logrus.New()

// publisher forwards commands; *bridge.Redis implements it.
type publisher interface {
	Publish(cmd irknob.Command) error
}

func main() {
	var (
		device  = flag.String("device", "/dev/ttyUSB0", "serial device path")
		baud    = flag.Int("baud", 9600, "baud rate of the receiver")
		stamp   = flag.Bool("t", false, "print a timestamp with every command")
		addr    = flag.String("redis", "", "address of a Redis server to forward commands to")
		channel = flag.String("channel", bridge.DefaultChannel, "Redis channel")
	)

	flag.Parse()

	log.Formatter = new(logrus.TextFormatter)
	log.Out = os.Stderr

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.WithFields(logrus.Fields{"device": cfg.Device, "baud": cfg.Baud}).Info("port opened")

	var pub publisher
	if *addr != "" {
		r, db := bridge.Dial(*addr)
		defer db.Close()
		r.Channel = *channel
		pub = r
		log.WithFields(logrus.Fields{"redis": *addr, "channel": *channel}).Info("forwarding commands")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, port, os.Stdout, *stamp, pub)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

// run prints commands read from port until ctx is done or port fails.
// port is closed on return.
func run(parent context.Context, port io.ReadCloser, stdout io.Writer, stamp bool, pub publisher) error {
	grp, ctx := errgroup.WithContext(parent)
	quit := make(chan struct{})

	grp.Go(func() error {
		defer close(quit)
		return serial.ReadCommands(port, func(cmd irknob.Command) {
			if stamp {
				fmt.Fprintf(stdout, "%s %v\n", time.Now().UTC().Format(time.RFC3339Nano), cmd)
			} else {
				fmt.Fprintf(stdout, "%v\n", cmd)
			}
			if pub == nil {
				return
			}
			if err := pub.Publish(cmd); err != nil {
				log.WithError(err).Warn("could not forward command")
			}
		})
	})

	grp.Go(func() error {
		select {
		case <-ctx.Done():
		case <-quit:
		}
		err := port.Close()
		if err != nil && !errors.Is(err, os.ErrClosed) {
			return fmt.Errorf("could not close serial port: %w", err)
		}
		return nil
	})

	err := grp.Wait()
	if err != nil && parent.Err() != nil {
		// reads fail once the port is closed under them.
		return nil
	}
	return err
}
