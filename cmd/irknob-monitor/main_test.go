package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sparques/irknob"
)

type fakePublisher struct {
	cmds []irknob.Command
}

func (p *fakePublisher) Publish(cmd irknob.Command) error {
	p.cmds = append(p.cmds, cmd)
	if cmd == irknob.CmdButtonOn {
		return errors.New("redis down")
	}
	return nil
}

type fakePort struct {
	io.Reader
	closed int
}

func (p *fakePort) Close() error {
	p.closed++
	return nil
}

func TestRun(t *testing.T) {
	port := &fakePort{Reader: strings.NewReader("more\r\nxx\r\nless\r\nb_on\r\n")}
	out := new(strings.Builder)

	pub := new(fakePublisher)

	err := run(context.Background(), port, out, false, pub)
	if err != nil {
		t.Fatalf("could not run: %+v", err)
	}
	if got, want := out.String(), "more\nless\nb_on\n"; got != want {
		t.Fatalf("got=%q, want=%q", got, want)
	}
	if got, want := len(pub.cmds), 3; got != want {
		t.Fatalf("invalid number of forwarded commands: got=%d, want=%d", got, want)
	}
	if got, want := pub.cmds[1], irknob.CmdLess; got != want {
		t.Fatalf("got=%v, want=%v", got, want)
	}
	if port.closed != 1 {
		t.Fatalf("port closed %d times", port.closed)
	}
}

// blockingPort blocks reads until it is closed.
type blockingPort struct {
	done chan struct{}
}

func (p *blockingPort) Read([]byte) (int, error) {
	<-p.done
	return 0, errors.New("port closed")
}

func (p *blockingPort) Close() error {
	close(p.done)
	return nil
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &blockingPort{done: make(chan struct{})}
	err := run(ctx, port, io.Discard, true, nil)
	if err != nil {
		t.Fatalf("could not stop: %+v", err)
	}
}
