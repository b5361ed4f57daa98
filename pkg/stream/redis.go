package stream

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
)

// DefaultRedisChannel is the channel frames are published to by default.
const DefaultRedisChannel = "livelayout:events"

const publishTimeout = 2 * time.Second

// Publisher is the subset of *redis.Client used by [RedisPublisher].
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher is a store listener that publishes change frames to a
// Redis channel. Frames are queued and published from a background
// goroutine so a slow Redis never blocks the store; when the queue is full
// frames are dropped and counted.
type RedisPublisher struct {
	pub     Publisher
	channel string
	store   *coords.Store[string, r2.Vec]
	logger  *log.Logger

	seq     atomic.Uint64
	dropped atomic.Int64

	mu     sync.Mutex
	queue  chan []byte
	closed bool
	done   chan struct{}
}

// NewRedisClient connects to the Redis server at addr and checks it
// responds.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisPublisher starts a publisher. An empty channel selects
// DefaultRedisChannel; a queueSize of zero selects DefaultQueueSize.
func NewRedisPublisher(pub Publisher, channel string, store *coords.Store[string, r2.Vec], queueSize int, logger *log.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	p := &RedisPublisher{
		pub:     pub,
		channel: channel,
		store:   store,
		logger:  logger,
		queue:   make(chan []byte, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// CoordinatesChanged encodes e and queues it for publishing.
func (p *RedisPublisher) CoordinatesChanged(e coords.Event[string]) {
	data, err := json.Marshal(eventFrame(p.seq.Add(1), e, p.store))
	if err != nil {
		p.logger.Error("encode frame", "error", err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- data:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns the number of frames dropped because the queue was full.
func (p *RedisPublisher) Dropped() int64 { return p.dropped.Load() }

func (p *RedisPublisher) run() {
	defer close(p.done)
	for data := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := p.pub.Publish(ctx, p.channel, data).Err()
		cancel()
		if err != nil {
			p.logger.Warn("redis publish failed", "channel", p.channel, "error", err)
		}
	}
}

// Close publishes the queued frames and stops the publisher. Later events
// are ignored.
func (p *RedisPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}
