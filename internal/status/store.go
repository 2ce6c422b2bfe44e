package status

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
)

const lastSyncKey = "ddf:last_sync"

// Store keeps a snapshot of the most recent sync run in Redis so the admin
// console can show feed freshness without querying the audit table.
type Store struct {
	Client *redis.Client
}

func (s *Store) SetLastSync(ctx context.Context, run model.SyncRun) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, lastSyncKey, b, 0).Err()
}

func (s *Store) LastSync(ctx context.Context) (*model.SyncRun, error) {
	val, err := s.Client.Get(ctx, lastSyncKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var run model.SyncRun
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return nil, err
	}

	return &run, nil
}
