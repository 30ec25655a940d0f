// Package repository defines the storage interfaces the coordinator talks
// to. Authoritative room state lives in memory; the only backing store is an
// optional mirror of broadcast snapshots for operational inspection.
package repository

import (
	"context"
	"encoding/json"
)

// RoomCache mirrors each room's latest broadcast state snapshot so live
// rooms can be inspected out of process. It is best-effort observability:
// the coordinator never reads game state back from it, and a Noop
// implementation is used when no Redis is configured.
type RoomCache interface {
	SetRoomState(ctx context.Context, roomCode string, state json.RawMessage) error
	GetRoomState(ctx context.Context, roomCode string) (json.RawMessage, error)
	DeleteRoom(ctx context.Context, roomCode string) error
	ListRooms(ctx context.Context) ([]string, error)
}

// NoopCache discards everything. Used when REDIS_URL is unset and in tests.
type NoopCache struct{}

func (NoopCache) SetRoomState(context.Context, string, json.RawMessage) error { return nil }
func (NoopCache) GetRoomState(context.Context, string) (json.RawMessage, error) {
	return nil, nil
}
func (NoopCache) DeleteRoom(context.Context, string) error    { return nil }
func (NoopCache) ListRooms(context.Context) ([]string, error) { return nil, nil }
