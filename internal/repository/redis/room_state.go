package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func stateKey(roomCode string) string { return "room:" + roomCode + ":state" }

// stateTTL bounds how long a dead room's snapshot lingers if the server
// dies before DeleteRoom runs. Every broadcast refreshes it.
const stateTTL = 24 * time.Hour

// SetRoomState stores the latest broadcast snapshot for a room.
func (c *Client) SetRoomState(ctx context.Context, roomCode string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(roomCode), []byte(state), stateTTL).Err()
}

// GetRoomState retrieves the latest snapshot, or nil if the room is unknown.
func (c *Client) GetRoomState(ctx context.Context, roomCode string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(roomCode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room state: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteRoom removes the snapshot when a room closes.
func (c *Client) DeleteRoom(ctx context.Context, roomCode string) error {
	return c.rdb.Del(ctx, stateKey(roomCode)).Err()
}

// ListRooms returns the codes of rooms with a live snapshot.
func (c *Client) ListRooms(ctx context.Context) ([]string, error) {
	var codes []string
	iter := c.rdb.Scan(ctx, 0, "room:*:state", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		code := strings.TrimSuffix(strings.TrimPrefix(key, "room:"), ":state")
		codes = append(codes, code)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan rooms: %w", err)
	}
	return codes, nil
}
