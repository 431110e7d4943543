package link

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normen/x32-osc/config"
	"github.com/normen/x32-osc/msg"
	"github.com/normen/x32-osc/osc"
	"github.com/normen/x32-osc/x32"
)

// fakeConsole answers on a loopback socket and records what it receives.
type fakeConsole struct {
	conn     *net.UDPConn
	received chan osc.Message
	peer     chan *net.UDPAddr
}

func newFakeConsole(t *testing.T) *fakeConsole {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	f := &fakeConsole{
		conn:     conn,
		received: make(chan osc.Message, 512),
		peer:     make(chan *net.UDPAddr, 1),
	}
	t.Cleanup(func() { conn.Close() })
	go f.serve()
	return f
}

func (f *fakeConsole) serve() {
	buf := make([]byte, 2048)
	for {
		n, addr, err := f.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		select {
		case f.peer <- addr:
		default:
		}
		if m, err := osc.Decode(buf[:n]); err == nil {
			f.received <- m
		}
	}
}

func (f *fakeConsole) reply(t *testing.T, to *net.UDPAddr, m osc.Message) {
	t.Helper()
	_, err := f.conn.WriteToUDP(osc.Encode(m), to)
	require.NoError(t, err)
}

func waitFor[T any](t *testing.T, out <-chan interface{}) T {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case m := <-out:
			if v, ok := m.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("no %T received", zero)
			return zero
		}
	}
}

func testSync() config.Sync {
	return config.Sync{KeepAliveSeconds: 1, FullUpdateSeconds: 300, RequestSpacingMs: 0, RetryDelaySeconds: 1}
}

func TestLinkSyncsConsole(t *testing.T) {
	console := newFakeConsole(t)
	in := make(chan interface{}, 1)
	out := make(chan interface{}, 1024)
	l := New(config.General{ConsoleHost: console.conn.LocalAddr().String(), LocalAddr: "127.0.0.1:0"}, testSync(), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	first := <-console.received
	assert.Equal(t, "/xremote", first.Address)
	second := <-console.received
	assert.Equal(t, "/showdata", second.Address)

	peer := <-console.peer
	console.reply(t, peer, osc.NewMessage("/ch/01/mix/fader", osc.Float(0.75)))
	conn := waitFor[msg.ConnectionMessage](t, out)
	assert.True(t, conn.Connected)
	fader := waitFor[msg.FaderMessage](t, out)
	assert.Equal(t, "channel", fader.Kind)
	assert.Equal(t, 1, fader.Number)
	assert.Equal(t, "Ch01", fader.Name)
	assert.Equal(t, "+0.0 dB", fader.LevelText)

	console.reply(t, peer, osc.NewMessage("node", osc.String(`/ch/01/config "Kick" 1 RD 1`)))
	fader = waitFor[msg.FaderMessage](t, out)
	assert.Equal(t, "Kick", fader.Name)
	assert.Equal(t, "RD", fader.Color)

	console.reply(t, peer, osc.NewMessage("/-show/showfile/cue/000/name", osc.String("Intro")))
	cue := waitFor[msg.CueMessage](t, out)
	assert.Equal(t, "Cue: 0.0.0 :: Intro [--] [--]", cue.Text)
	assert.Equal(t, "Cues", cue.Mode)

	console.reply(t, peer, osc.NewMessage("/meters/2", osc.Blob{0, 0, 128, 63}))
	meters := waitFor[msg.MeterMessage](t, out)
	assert.Equal(t, 2, meters.ID)
	assert.Equal(t, []float32{1}, meters.Values)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("link did not stop")
	}
}

func TestLinkUpdateRequest(t *testing.T) {
	console := newFakeConsole(t)
	in := make(chan interface{}, 1)
	out := make(chan interface{}, 1024)
	l := New(config.General{ConsoleHost: console.conn.LocalAddr().String()}, testSync(), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	drain := len(x32.FullUpdate()) + 1
	for i := 0; i < drain; i++ {
		<-console.received
	}

	in <- msg.UpdateRequest{}
	timeout := time.After(5 * time.Second)
	for {
		select {
		case m := <-console.received:
			if m.Address == "/showdata" {
				return
			}
		case <-timeout:
			t.Fatal("no full update after request")
		}
	}
}

func TestLinkOnlineOnlyAfterReply(t *testing.T) {
	console := newFakeConsole(t)
	in := make(chan interface{}, 1)
	out := make(chan interface{}, 1024)
	l := New(config.General{ConsoleHost: console.conn.LocalAddr().String(), LocalAddr: "127.0.0.1:0"}, testSync(), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	for i := 0; i < len(x32.FullUpdate())+1; i++ {
		<-console.received
	}
	assert.Empty(t, out)

	peer := <-console.peer
	console.reply(t, peer, osc.NewMessage("/-prefs/show_control", osc.Int(1)))
	conn := waitFor[msg.ConnectionMessage](t, out)
	assert.True(t, conn.Connected)

	// writes to a closed loopback port fail on the next keep-alive
	console.conn.Close()
	conn = waitFor[msg.ConnectionMessage](t, out)
	assert.False(t, conn.Connected)
}

func TestOfflineIsNotDropped(t *testing.T) {
	out := make(chan interface{}, 1)
	out <- msg.UpdateRequest{}
	l := New(config.General{ConsoleHost: "127.0.0.1:1"}, testSync(), nil, out)
	l.connected = true
	l.online = true

	received := make(chan interface{}, 2)
	go func() {
		time.Sleep(50 * time.Millisecond)
		received <- <-out
		received <- <-out
	}()
	l.disconnect(context.Background())
	<-received
	conn, ok := (<-received).(msg.ConnectionMessage)
	require.True(t, ok)
	assert.False(t, conn.Connected)
	assert.False(t, l.online)
}

func TestOfflineGivesUpWhenCancelled(t *testing.T) {
	out := make(chan interface{}, 1)
	out <- msg.UpdateRequest{}
	l := New(config.General{ConsoleHost: "127.0.0.1:1"}, testSync(), nil, out)
	l.online = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l.disconnect(ctx)
	assert.Len(t, out, 1)
	assert.False(t, l.online)
}

func TestFaderMessage(t *testing.T) {
	c := x32.NewConsole()
	res := c.Process(osc.Encode(osc.NewMessage("/dca/2/fader", osc.Float(0.5))))
	m := faderMessage(res.(x32.Fader).State)
	assert.Equal(t, msg.FaderMessage{
		Kind:      "dca",
		Number:    2,
		Name:      "DCA2",
		Level:     0.5,
		LevelText: "-10.0 dB",
		Decibel:   -10,
		On:        false,
		Color:     "OFF",
		Display:   "[02] OFF -10.0 dB DCA2",
	}, m)
}
