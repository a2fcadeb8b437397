package game

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// Dispatcher executes one input line for a session.
// Returning true indicates the connection should terminate.
type Dispatcher func(*World, *Session, string) bool

type serverOptions struct {
	welcome       string
	charset       encoding.Encoding
	websocketAddr string
	metricsAddr   string
	metrics       http.Handler
}

// ServerOption customises the behaviour of ListenAndServe.
type ServerOption func(*serverOptions)

// WithWelcome sets the server welcome sent before the world welcome.
func WithWelcome(message string) ServerOption {
	return func(opts *serverOptions) {
		opts.welcome = message
	}
}

// WithCharset transcodes telnet traffic for clients using charset.
func WithCharset(charset encoding.Encoding) ServerOption {
	return func(opts *serverOptions) {
		opts.charset = charset
	}
}

// WithWebsocket serves websocket sessions on addr at /ws.
func WithWebsocket(addr string) ServerOption {
	return func(opts *serverOptions) {
		opts.websocketAddr = strings.TrimSpace(addr)
	}
}

// WithMetrics serves handler on addr at /metrics.
func WithMetrics(addr string, handler http.Handler) ServerOption {
	return func(opts *serverOptions) {
		opts.metricsAddr = strings.TrimSpace(addr)
		opts.metrics = handler
	}
}

func collectOptions(opts []ServerOption) serverOptions {
	options := serverOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

var (
	netListenFunc = net.Listen
	acceptSleep   = time.Sleep
)

// ListenAndServe accepts telnet sessions on addr, and websocket sessions and
// metrics scrapes when configured, until the world's Shutdown is called or
// the listener fails.
func ListenAndServe(world *World, addr string, dispatcher Dispatcher, opts ...ServerOption) error {
	if dispatcher == nil {
		return fmt.Errorf("dispatcher must not be nil")
	}
	options := collectOptions(opts)
	log := world.Logger()

	ln, err := netListenFunc("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	defer ln.Close()

	servers := httpServers(world, dispatcher, opts, options)
	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http listener stopped", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
		log.Info("http listening", zap.String("addr", srv.Addr))
	}

	var closing atomic.Bool
	world.AttachShutdown(func() {
		closing.Store(true)
		_ = ln.Close()
		for _, srv := range servers {
			_ = srv.Close()
		}
	})

	log.Info("MUD listening", zap.String("addr", ln.Addr().String()))
	err = acceptConnections(ln, log, func(conn net.Conn) {
		go serveSession(world, NewTelnetSession(conn, options.charset), conn.RemoteAddr().String(), "telnet", dispatcher, options.welcome)
	})
	if closing.Load() {
		return nil
	}
	return err
}

func httpServers(world *World, dispatcher Dispatcher, opts []ServerOption, options serverOptions) []*http.Server {
	muxes := make(map[string]*http.ServeMux)
	var order []string
	muxFor := func(addr string) *http.ServeMux {
		if mux, ok := muxes[addr]; ok {
			return mux
		}
		mux := http.NewServeMux()
		muxes[addr] = mux
		order = append(order, addr)
		return mux
	}
	if options.websocketAddr != "" {
		muxFor(options.websocketAddr).Handle("/ws", WebsocketHandler(world, dispatcher, opts...))
	}
	if options.metricsAddr != "" && options.metrics != nil {
		muxFor(options.metricsAddr).Handle("/metrics", options.metrics)
	}
	servers := make([]*http.Server, 0, len(order))
	for _, addr := range order {
		servers = append(servers, &http.Server{Addr: addr, Handler: muxes[addr], ReadHeaderTimeout: 10 * time.Second})
	}
	return servers
}

// serveSession runs one client from welcome to goodbye. Lines are processed
// strictly one at a time; output is written by a separate goroutine so a
// slow client never holds up the world.
func serveSession(world *World, conn Conn, addr, transport string, dispatcher Dispatcher, welcome string) {
	session := NewSession(conn, addr, transport)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for out := range session.Output {
			_ = conn.WriteString(out)
		}
	}()

	if welcome != "" {
		session.Tell(welcome)
	}
	world.Attach(session)
	session.Send(Prompt())

	log := world.Logger()
	for {
		line, err := conn.ReadLine()
		if err != nil {
			break
		}
		line = sanitizeInput(Trim(line))
		if line == "" {
			session.Send(Prompt())
			continue
		}
		if ce := log.Check(zap.DebugLevel, "command received"); ce != nil {
			name := ""
			if c := session.Character(); c != nil {
				name = world.Profile(c).Name
			}
			ce.Write(zap.String("session", session.ID()), zap.String("character", name), zap.String("line", line))
		}
		if quit := dispatcher(world, session, line); quit {
			break
		}
		session.Send(Prompt())
	}

	world.Disconnect(session)
	<-done
}

const (
	acceptBackoffStart = 50 * time.Millisecond
	acceptBackoffMax   = time.Second
)

func acceptConnections(ln net.Listener, log *zap.Logger, handle func(net.Conn)) error {
	backoff := acceptBackoffStart
	for {
		conn, err := ln.Accept()
		if err != nil {
			if isTemporaryAcceptError(err) {
				log.Warn("temporary accept error", zap.Error(err), zap.Duration("retry", backoff))
				acceptSleep(backoff)
				backoff *= 2
				if backoff > acceptBackoffMax {
					backoff = acceptBackoffMax
				}
				continue
			}
			return err
		}
		backoff = acceptBackoffStart
		handle(conn)
	}
}

func isTemporaryAcceptError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var te interface{ Temporary() bool }
	if errors.As(err, &te) && te.Temporary() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// sanitizeInput drops control and formatting runes and folds other
// whitespace to plain spaces.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return r
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
}
