package inspector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vango-dev/freedux/pkg/store"
)

// FrameType identifies a websocket frame.
type FrameType string

const (
	FrameSnapshot FrameType = "snapshot"
)

// Frame is sent to websocket clients.
type Frame struct {
	Type     FrameType `json:"type"`
	Store    string    `json:"store"`
	Revision uint64    `json:"revision"`
	State    any       `json:"state"`
}

// Snapshot is one published root.
type Snapshot struct {
	Revision uint64
	State    any
}

// Config configures an Inspector.
type Config struct {
	// MaxRate caps websocket broadcasts per second (default: 10).
	MaxRate float64

	// Burst is the number of broadcasts allowed back to back (default: 1).
	Burst int

	// WriteTimeout bounds each websocket write (default: 10s). A client
	// that does not drain its connection within it is dropped.
	WriteTimeout time.Duration

	// Logger receives connection logs.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// CheckOrigin is passed to the websocket upgrader. Nil allows all
	// origins.
	CheckOrigin func(r *http.Request) bool
}

// Option configures an Inspector.
type Option func(*Config)

// WithMaxRate sets the broadcast rate limit.
func WithMaxRate(perSecond float64) Option {
	return func(c *Config) {
		c.MaxRate = perSecond
	}
}

// WithBurst sets the broadcast burst.
func WithBurst(burst int) Option {
	return func(c *Config) {
		c.Burst = burst
	}
}

// WithWriteTimeout sets the websocket write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

func defaultConfig() Config {
	return Config{
		MaxRate:      10,
		Burst:        1,
		WriteTimeout: 10 * time.Second,
	}
}

// Inspector publishes the snapshots of one store.
type Inspector struct {
	name         string
	logger       *slog.Logger
	writeTimeout time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
	clients  map[*client]bool

	upgrader    websocket.Upgrader
	router      chi.Router
	limiter     *rate.Limiter
	pending     chan struct{}
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

type client struct {
	id      string
	conn    *websocket.Conn
	timeout time.Duration
	mu      sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(data)
}

// write sends one frame; the caller holds c.mu.
func (c *client) write(data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// New subscribes an inspector to s. New and Close must run on the goroutine
// that owns s; the HTTP handlers may run anywhere.
func New[T any](s *store.Store[T], opts ...Option) *Inspector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxRate <= 0 {
		config.MaxRate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}
	checkOrigin := config.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	ctx, cancel := context.WithCancel(context.Background())
	insp := &Inspector{
		name:         s.Name(),
		logger:       config.Logger.With("component", "inspector", "store", s.Name()),
		writeTimeout: config.WriteTimeout,
		snapshot:     Snapshot{Revision: s.Revision(), State: s.Get()},
		clients:      make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		limiter: rate.NewLimiter(rate.Limit(config.MaxRate), config.Burst),
		pending: make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	insp.router = insp.routes()

	insp.unsubscribe = s.Subscribe(func(root T) {
		insp.publish(Snapshot{Revision: s.Revision(), State: root})
	})

	go insp.broadcastLoop(ctx)
	return insp
}

// Handler returns the HTTP handler serving the inspector routes.
func (i *Inspector) Handler() http.Handler {
	return i.router
}

// Snapshot returns the latest published snapshot.
func (i *Inspector) Snapshot() Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snapshot
}

// ClientCount returns the number of connected websocket clients.
func (i *Inspector) ClientCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.clients)
}

// Close unsubscribes from the store, stops broadcasting and disconnects all
// clients.
func (i *Inspector) Close() {
	i.closeOnce.Do(func() {
		i.unsubscribe()
		i.cancel()

		// Closing the connections first unblocks a broadcast stuck on a
		// client that stopped reading.
		i.mu.Lock()
		for c := range i.clients {
			c.conn.Close()
			delete(i.clients, c)
		}
		i.mu.Unlock()

		<-i.done
	})
}

// publish records a new snapshot and wakes the broadcaster without
// blocking the store.
func (i *Inspector) publish(snap Snapshot) {
	i.mu.Lock()
	i.snapshot = snap
	i.mu.Unlock()

	select {
	case i.pending <- struct{}{}:
	default:
	}
}

func (i *Inspector) broadcastLoop(ctx context.Context) {
	defer close(i.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-i.pending:
		}
		if err := i.limiter.Wait(ctx); err != nil {
			return
		}
		i.broadcast(i.Snapshot())
	}
}

// broadcast sends snap to all clients, dropping those that fail.
func (i *Inspector) broadcast(snap Snapshot) {
	data, err := i.frame(snap)
	if err != nil {
		i.logger.Warn("inspector: snapshot not serializable", "revision", snap.Revision, "error", err)
		return
	}

	i.mu.RLock()
	clients := make([]*client, 0, len(i.clients))
	for c := range i.clients {
		clients = append(clients, c)
	}
	i.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(data); err != nil {
			i.drop(c, err)
		}
	}
}

func (i *Inspector) frame(snap Snapshot) ([]byte, error) {
	return json.Marshal(Frame{
		Type:     FrameSnapshot,
		Store:    i.name,
		Revision: snap.Revision,
		State:    snap.State,
	})
}

func (i *Inspector) drop(c *client, err error) {
	i.mu.Lock()
	_, ok := i.clients[c]
	delete(i.clients, c)
	i.mu.Unlock()

	if ok {
		c.conn.Close()
		i.logger.Debug("inspector: client disconnected", "client", c.id, "error", err)
	}
}

// handleWebSocket upgrades the connection, sends the current snapshot and
// then keeps the connection until the client goes away.
func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, timeout: i.writeTimeout}

	// Hold the client lock while registering so that no broadcast can
	// reach it before the initial snapshot.
	c.mu.Lock()
	i.mu.Lock()
	i.clients[c] = true
	snap := i.snapshot
	i.mu.Unlock()

	i.logger.Debug("inspector: client connected", "client", c.id, "remote", r.RemoteAddr)

	data, err := i.frame(snap)
	if err == nil {
		err = c.write(data)
	}
	c.mu.Unlock()
	if err != nil {
		i.drop(c, err)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			i.drop(c, err)
			return
		}
	}
}
