// Package kafka ships audit events to a Kafka topic. Reads are delegated to
// an optional queryable store since a topic cannot be searched by subject.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	audit "sentencer/pkg/platform/audit"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrNotQueryable is returned by ListBySubject when no read store is set.
var ErrNotQueryable = errors.New("kafka audit store has no read store")

type Store struct {
	client *kgo.Client
	topic  string
	reads  audit.Store
}

type Option func(*Store)

// WithReadStore mirrors every appended event into reads and serves
// ListBySubject from it.
func WithReadStore(reads audit.Store) Option {
	return func(s *Store) {
		s.reads = reads
	}
}

// New connects to brokers. The client is owned by the store; call Close.
func New(brokers []string, topic string, opts ...Option) (*Store, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s := &Store{client: client, topic: topic}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureTopic creates the topic if it does not exist.
func (s *Store) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, s.topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	return nil
}

// Append produces the event synchronously, keyed by subject so all events
// of one computation land on the same partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	record, err := newRecord(event)
	if err != nil {
		return err
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	if s.reads != nil {
		if err := s.reads.Append(ctx, event); err != nil {
			return fmt.Errorf("mirror audit event: %w", err)
		}
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	if s.reads == nil {
		return nil, ErrNotQueryable
	}
	return s.reads.ListBySubject(ctx, subject)
}

// Close flushes pending records and closes the client.
func (s *Store) Close(ctx context.Context) error {
	err := s.client.Flush(ctx)
	s.client.Close()
	return err
}

func newRecord(event audit.Event) (*kgo.Record, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal audit event: %w", err)
	}
	return &kgo.Record{
		Key:   []byte(event.Subject),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}, nil
}
