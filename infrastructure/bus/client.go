// Package bus is the NATS JetStream side of the hub: it declares the event stream,
// publishes envelopes and hands deliveries to the bus consumer worker.
package bus

import (
	"chat-hub/contract"
	"chat-hub/domain/event"
	apperrors "chat-hub/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const SubjectPrefix = "hub.events"

var _ contract.ISubscriber = (*Client)(nil)

type Config struct {
	URL        string
	Stream     string
	Consumer   string
	MaxDeliver int
	AckWait    time.Duration
	MaxAge     time.Duration
}

type Client struct {
	cfg      Config
	log      *slog.Logger
	nc       *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	consumer jetstream.Consumer
}

func NewClient(log *slog.Logger, cfg Config) *Client {
	return &Client{cfg: cfg, log: log}
}

// Connect opens the connection and declares the stream. Publishers stop here,
// consumers also call EnsureConsumer.
func (c *Client) Connect(ctx context.Context) error {
	nc, err := nats.Connect(c.cfg.URL,
		nats.Name("chat-hub"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.log.Warn("Disconnected from NATS", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.log.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	c.nc = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	c.js = js

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        c.cfg.Stream,
		Description: "Events fanned out to live sessions",
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      c.cfg.MaxAge,
		Storage:     jetstream.FileStorage,
		Duplicates:  2 * time.Minute,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", c.cfg.Stream, err)
	}
	c.stream = stream
	c.log.Info("Connected to NATS", "url", c.cfg.URL, "stream", c.cfg.Stream)
	return nil
}

func (c *Client) EnsureConsumer(ctx context.Context) error {
	if c.stream == nil {
		return apperrors.ErrQueueUnavailable
	}
	consumer, err := c.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          c.cfg.Consumer,
		Durable:       c.cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.cfg.AckWait,
		MaxDeliver:    c.cfg.MaxDeliver,
		FilterSubject: SubjectPrefix + ".>",
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", c.cfg.Consumer, err)
	}
	c.consumer = consumer
	c.log.Info("Bus consumer ready", "consumer", c.cfg.Consumer, "max_deliver", c.cfg.MaxDeliver)
	return nil
}

// Publish sends an envelope on hub.events.{type}. The event id is the
// deduplication id of the stream, so a retried publish is stored once.
func (c *Client) Publish(ctx context.Context, e event.Event) error {
	if c.js == nil {
		return apperrors.ErrQueueUnavailable
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.ID, err)
	}
	ack, err := c.js.Publish(ctx, e.Type.Subject(SubjectPrefix), data, jetstream.WithMsgID(e.ID))
	if err != nil {
		return fmt.Errorf("publish event %s: %w", e.ID, err)
	}
	c.log.Debug("Published event", "event_id", e.ID, "type", e.Type, "sequence", ack.Sequence, "duplicate", ack.Duplicate)
	return nil
}

func (c *Client) Subscribe(_ context.Context) (contract.DeliveryIterator, error) {
	if c.consumer == nil {
		return nil, apperrors.ErrQueueUnavailable
	}
	it, err := c.consumer.Messages()
	if err != nil {
		return nil, fmt.Errorf("open message iterator: %w", err)
	}
	return &iterator{it: it}, nil
}

func (c *Client) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

type iterator struct {
	it jetstream.MessagesContext
}

func (i *iterator) Next() (contract.Delivery, error) {
	msg, err := i.it.Next()
	if err != nil {
		if errors.Is(err, jetstream.ErrMsgIteratorClosed) || errors.Is(err, nats.ErrConnectionClosed) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrQueueUnavailable, err)
		}
		return nil, err
	}
	return msg, nil
}

func (i *iterator) Stop() {
	i.it.Stop()
}
