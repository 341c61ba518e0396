package interactive

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/agent-go/pkg/examples"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *examples.HeatPump) {
	t.Helper()

	hp := examples.NewHeatPump(examples.DefaultHeatPumpConfig(), nil)
	var buf bytes.Buffer
	return newShell(hp, &buf), &buf, hp
}

func TestShellGetSet(t *testing.T) {
	s, out, hp := newTestShell(t)

	require.True(t, s.Execute("set setpoint 23.5"))
	assert.Equal(t, 23.5, hp.Setpoint.Get())
	assert.Contains(t, out.String(), "setpoint = 23.5")

	out.Reset()
	s.Execute("get mode")
	assert.Equal(t, "mode = heat\n", out.String())
}

func TestShellSetClampedValue(t *testing.T) {
	s, out, hp := newTestShell(t)

	s.Execute("set setpoint 40")

	assert.Equal(t, 28.0, hp.Setpoint.Get())
	assert.Contains(t, out.String(), "setpoint = 28")
}

func TestShellSetErrors(t *testing.T) {
	s, out, _ := newTestShell(t)

	s.Execute("set mode turbo")
	assert.Contains(t, out.String(), "invalid operating mode")

	out.Reset()
	s.Execute("set humidity 40")
	assert.Contains(t, out.String(), "Unknown agent: humidity")

	out.Reset()
	s.Execute("set setpoint")
	assert.Contains(t, out.String(), "Usage: set <agent> <value>")

	out.Reset()
	s.Execute("set setpoint warm")
	assert.Contains(t, out.String(), "Error:")
}

func TestShellArithmetic(t *testing.T) {
	s, out, hp := newTestShell(t)

	s.Execute("add setpoint 1.5")
	assert.Equal(t, 22.5, hp.Setpoint.Get())

	s.Execute("inc setpoint")
	assert.Equal(t, 23.5, hp.Setpoint.Get())

	s.Execute("dec setpoint")
	assert.Equal(t, 22.5, hp.Setpoint.Get())

	out.Reset()
	s.Execute("inc mode")
	assert.Contains(t, out.String(), ErrNotNumeric.Error())

	out.Reset()
	s.Execute("add running 1")
	assert.Contains(t, out.String(), ErrNotNumeric.Error())
}

func TestShellWatchUnwatch(t *testing.T) {
	s, out, hp := newTestShell(t)
	before := hp.Setpoint.Count()

	s.Execute("watch setpoint")
	assert.Contains(t, out.String(), "Watching setpoint (id 3)")
	assert.Equal(t, before+1, hp.Setpoint.Count())

	out.Reset()
	s.Execute("set setpoint 22")
	assert.Contains(t, out.String(), "[watch] setpoint = 22")

	out.Reset()
	s.Execute("unwatch")
	assert.Contains(t, out.String(), "3: setpoint")

	out.Reset()
	s.Execute("unwatch 3")
	assert.Contains(t, out.String(), "Stopped watching setpoint (id 3)")
	assert.Equal(t, before, hp.Setpoint.Count())

	out.Reset()
	s.Execute("unwatch 3")
	assert.Contains(t, out.String(), "No watch with id 3")

	out.Reset()
	s.Execute("unwatch x")
	assert.Contains(t, out.String(), "Invalid id: x")
}

func TestShellTick(t *testing.T) {
	s, out, hp := newTestShell(t)
	start := hp.RoomTemperature.Get()

	s.Execute("tick 2")

	assert.InDelta(t, start+0.4, hp.RoomTemperature.Get(), 1e-9)
	assert.Contains(t, out.String(), "running = true")

	out.Reset()
	s.Execute("tick 0")
	assert.Contains(t, out.String(), "Invalid step count")
}

func TestShellListAndStatus(t *testing.T) {
	s, out, _ := newTestShell(t)

	s.Execute("list")
	for _, name := range []string{"setpoint", "room", "mode", "running", "power", "limit"} {
		assert.Contains(t, out.String(), name)
	}

	out.Reset()
	s.Execute("set limit 1000000")
	s.Execute("status")
	assert.Contains(t, out.String(), "Mode:     heat")
	assert.Contains(t, out.String(), "Power:    1.00 kW (limit 1.00 kW)")
}

func TestShellQuitAndUnknown(t *testing.T) {
	s, out, _ := newTestShell(t)

	assert.True(t, s.Execute(""))
	assert.True(t, s.Execute("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	assert.False(t, s.Execute("quit"))
	assert.False(t, s.Execute("EXIT"))
}

// blockingReader serves queued lines, then blocks until closed.
type blockingReader struct {
	lines  chan string
	reads  chan struct{}
	closed chan struct{}
}

func newBlockingReader(lines ...string) *blockingReader {
	r := &blockingReader{
		lines:  make(chan string, len(lines)),
		reads:  make(chan struct{}, len(lines)+1),
		closed: make(chan struct{}),
	}
	for _, l := range lines {
		r.lines <- l
	}
	return r
}

func (r *blockingReader) Readline() (string, error) {
	select {
	case r.reads <- struct{}{}:
	default:
	}
	select {
	case l := <-r.lines:
		return l, nil
	case <-r.closed:
		return "", io.EOF
	}
}

func (r *blockingReader) Close() error {
	close(r.closed)
	return nil
}

func runShell(s *Shell, ctx context.Context, cancel context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, cancel)
	}()
	return done
}

func TestShellRunReturnsOnCancelWhileReading(t *testing.T) {
	s, _, hp := newTestShell(t)
	in := newBlockingReader("set setpoint 22")
	s.in = in

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runShell(s, ctx, cancel)

	// The second read finds no queued line and blocks.
	for i := 0; i < 2; i++ {
		select {
		case <-in.reads:
		case <-time.After(time.Second):
			t.Fatal("shell did not read")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 22.0, hp.Setpoint.Get())
	assert.NoError(t, s.Close())
}

func TestShellRunReturnsOnClose(t *testing.T) {
	s, out, _ := newTestShell(t)
	s.in = newBlockingReader()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runShell(s, ctx, cancel)

	require.NoError(t, s.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Contains(t, out.String(), "Exiting...")
	assert.Error(t, ctx.Err())
}

func TestShellRunQuit(t *testing.T) {
	s, _, _ := newTestShell(t)
	s.in = newBlockingReader("quit")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Run(ctx, cancel)
	assert.Error(t, ctx.Err())
}
