package repository

import (
	"context"

	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
	pkgkafka "MarketSnap/pkg/kafka"
)

type snapshotProducer interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	Close() error
}

// KafkaSnapshotPublisher announces generated snapshots on a Kafka topic,
// keyed by snapshot id.
type KafkaSnapshotPublisher struct {
	producer snapshotProducer
}

var _ domrepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)

// NewKafkaSnapshotPublisher creates a Kafka publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, ev *models.SnapshotEvent) error {
	return p.producer.Publish(ctx, []byte(ev.ID), snapshotMessage(ev))
}

// snapshotMessage drops per-record history; consumers get the summary only.
func snapshotMessage(ev *models.SnapshotEvent) *models.SnapshotEvent {
	out := *ev
	out.Compliance = make([]models.ComplianceRecord, len(ev.Compliance))
	for i, r := range ev.Compliance {
		r.History = nil
		out.Compliance[i] = r
	}
	return &out
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
