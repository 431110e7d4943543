package link

import (
	"context"
	"net"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog/log"

	"github.com/normen/x32-osc/config"
	"github.com/normen/x32-osc/msg"
	"github.com/normen/x32-osc/x32"
)

const maxDatagram = 8192

// Link keeps one console mirror in sync over UDP. All state is owned by
// the goroutine running Run.
type Link struct {
	host      string
	localAddr string
	sync      config.Sync

	in  <-chan interface{}
	out chan<- interface{}

	console      *x32.Console
	conn         *net.UDPConn
	connected    bool
	online       bool
	connection   chan int
	packets      chan []byte
	failures     chan error
	done         chan struct{}
	connectRetry *time.Timer
}

// New prepares a link; in carries requests such as msg.UpdateRequest,
// out receives the msg values produced from console traffic.
func New(general config.General, sync config.Sync, in <-chan interface{}, out chan<- interface{}) *Link {
	return &Link{
		host:       general.ConsoleHost,
		localAddr:  general.LocalAddr,
		sync:       sync,
		in:         in,
		out:        out,
		console:    x32.NewConsole(),
		connection: make(chan int, 1),
		packets:    make(chan []byte, 256),
		failures:   make(chan error, 1),
		done:       make(chan struct{}),
	}
}

// Run is the runloop that manages the connection to the console. It
// returns when ctx is done.
func (l *Link) Run(ctx context.Context) error {
	defer close(l.done)
	keepAlive := time.NewTicker(interval(l.sync.KeepAlive(), 9*time.Second))
	defer keepAlive.Stop()
	fullUpdate := time.NewTicker(interval(l.sync.FullUpdate(), 5*time.Minute))
	defer fullUpdate.Stop()

	// start connection by sending connection state "0"
	l.connection <- 0
	for {
		select {
		case <-ctx.Done():
			l.disconnect(ctx)
			log.Info().Str("host", l.host).Msg("Ending console runloop")
			return nil
		case <-l.connection:
			l.handle(ctx, l.connect(ctx))
		case err := <-l.failures:
			l.handle(ctx, err)
		case <-keepAlive.C:
			if l.connected {
				l.handle(ctx, l.send(x32.KeepAlive()))
			}
		case <-fullUpdate.C:
			if l.connected {
				l.handle(ctx, l.requestAll(ctx))
			}
		case message := <-l.in:
			l.processRequest(ctx, message)
		case packet := <-l.packets:
			l.processPacket(ctx, packet)
		}
	}
}

// Tries to connect to the console, called by the runloop
func (l *Link) connect(ctx context.Context) error {
	l.closeConn()
	remote, err := net.ResolveUDPAddr("udp", l.host)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", l.host)
	}
	var local *net.UDPAddr
	if l.localAddr != "" {
		if local, err = net.ResolveUDPAddr("udp", l.localAddr); err != nil {
			return errors.Wrapf(err, "resolve %s", l.localAddr)
		}
	}
	conn, err := net.DialUDP("udp", local, remote)
	if err != nil {
		return errors.Wrap(err, "dial console")
	}
	l.conn = conn
	go l.readLoop(conn)

	if err := l.send(x32.KeepAlive()); err != nil {
		return err
	}
	if err := l.requestAll(ctx); err != nil {
		return err
	}
	l.connected = true
	log.Info().Str("host", l.host).Str("local", conn.LocalAddr().String()).Msg("Console requests sent, waiting for reply")
	return nil
}

// setOnline tracks whether the console answered since the last dial and
// publishes every change.
func (l *Link) setOnline(ctx context.Context, online bool) {
	if l.online == online {
		return
	}
	l.online = online
	if online {
		log.Info().Str("host", l.host).Msg("Console link up")
	} else {
		log.Warn().Str("host", l.host).Msg("Console link down")
	}
	l.emit(ctx, msg.ConnectionMessage{Host: l.host, Connected: online})
}

// Tries to reconnect to the console, called by the runloop
func (l *Link) retryConnect() {
	delay := interval(l.sync.RetryDelay(), 3*time.Second)
	log.Info().Dur("delay", delay).Msg("Retry console connection..")
	if l.connectRetry != nil {
		l.connectRetry.Stop()
	}
	l.connectRetry = time.AfterFunc(delay, func() {
		select {
		case l.connection <- 0:
		default:
		}
	})
}

// Disconnects from the console, called by the runloop
func (l *Link) disconnect(ctx context.Context) {
	if l.connectRetry != nil {
		l.connectRetry.Stop()
	}
	l.connected = false
	l.closeConn()
	l.console.Reset()
	l.setOnline(ctx, false)
}

func (l *Link) closeConn() {
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
}

// Handles an error by logging it and retrying to connect
func (l *Link) handle(ctx context.Context, err error) {
	if err != nil {
		log.Error().Err(err).Str("host", l.host).Msg("Console link failed")
		l.disconnect(ctx)
		l.retryConnect()
	}
}

func (l *Link) readLoop(conn *net.UDPConn) {
	buf := make([]byte, maxDatagram)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				select {
				case l.failures <- errors.Wrap(err, "read"):
				default:
				}
			}
			return
		}
		packet := make([]byte, n)
		copy(packet, buf[:n])
		select {
		case l.packets <- packet:
		case <-l.done:
			return
		}
	}
}

func (l *Link) send(b []byte) error {
	if l.conn == nil {
		return errors.New("not connected")
	}
	if _, err := l.conn.Write(b); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// requestAll sends the full update, spaced so the console keeps up.
func (l *Link) requestAll(ctx context.Context) error {
	spacing := l.sync.RequestSpacing()
	for _, b := range x32.FullUpdate() {
		if err := l.send(b); err != nil {
			return err
		}
		if spacing <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(spacing):
		}
	}
	return nil
}

// Processes a request from the other runloops
func (l *Link) processRequest(ctx context.Context, message interface{}) {
	switch message.(type) {
	case msg.UpdateRequest:
		if l.connected {
			l.handle(ctx, l.requestAll(ctx))
		}
	}
}

// Processes a datagram from the console
func (l *Link) processPacket(ctx context.Context, packet []byte) {
	if !l.connected {
		return
	}
	l.setOnline(ctx, true)
	switch r := l.console.Process(packet).(type) {
	case x32.Fader:
		log.Debug().Str("fader", r.State.Index().String()).Msg(r.State.Display())
		l.emit(ctx, faderMessage(r.State))
	case x32.CurrentCue:
		log.Debug().Msg(r.Text)
		l.emit(ctx, msg.CueMessage{Text: r.Text, Mode: l.console.ShowMode().String()})
	case x32.Meters:
		l.emit(ctx, msg.MeterMessage{ID: r.Block.ID, Data: r.Block.Data, Values: r.Block.Floats()})
	case x32.NoOperation:
		log.Trace().Int("bytes", len(packet)).Msg("Ignored console packet")
	}
}

// emit hands message to the publishers. It only gives up when the
// channel is full and ctx is done.
func (l *Link) emit(ctx context.Context, message interface{}) {
	select {
	case l.out <- message:
		return
	default:
	}
	select {
	case l.out <- message:
	case <-ctx.Done():
	}
}

func faderMessage(f x32.FaderState) msg.FaderMessage {
	idx := f.Index()
	level, text := f.Level()
	on, _ := f.On()
	return msg.FaderMessage{
		Kind:      idx.Kind.String(),
		Number:    idx.Number,
		Name:      f.Name(),
		Level:     level,
		LevelText: text,
		Decibel:   f.Decibel(),
		On:        on,
		Color:     f.Color().String(),
		Display:   f.Display(),
	}
}

func interval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
