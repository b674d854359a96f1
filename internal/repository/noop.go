package repository

import (
	"context"

	"MarketSnap/internal/domain/models"
)

// NoopSnapshotStore is used when no snapshot database is configured.
type NoopSnapshotStore struct{}

func (NoopSnapshotStore) StoreSnapshot(context.Context, *models.SnapshotEvent) error { return nil }
func (NoopSnapshotStore) Close() error                                               { return nil }

// NoopSnapshotPublisher is used when no broker is configured.
type NoopSnapshotPublisher struct{}

func (NoopSnapshotPublisher) PublishSnapshot(context.Context, *models.SnapshotEvent) error {
	return nil
}
func (NoopSnapshotPublisher) Close() error { return nil }
