package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/marketplace-indexer/internal/adapter"
	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/store/schema"
)

// CheckpointStore defines the interface for storing and retrieving stream checkpoints
//
//go:generate mockgen -source=checkpoint_store.go -destination=../mocks/checkpoint_store.go -package=mocks -mock_names=CheckpointStore=MockCheckpointStore
type CheckpointStore interface {
	// GetCheckpoint retrieves the last fully processed block of a stream
	// found is false when the stream has never saved a checkpoint
	GetCheckpoint(ctx context.Context, key domain.StreamKey) (height uint64, found bool, err error)
	// SetCheckpoint stores the last fully processed block of a stream
	// A height lower than the stored one is ignored
	SetCheckpoint(ctx context.Context, key domain.StreamKey, height uint64) error
}

func checkpointKey(key domain.StreamKey) string {
	return fmt.Sprintf("checkpoint:%s", key)
}

type pgCheckpointStore struct {
	db *gorm.DB
}

// NewPGCheckpointStore creates a checkpoint store backed by the key_value_store table
func NewPGCheckpointStore(db *gorm.DB) CheckpointStore {
	return &pgCheckpointStore{db: db}
}

// GetCheckpoint retrieves the last fully processed block of a stream
func (s *pgCheckpointStore) GetCheckpoint(ctx context.Context, key domain.StreamKey) (uint64, bool, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", checkpointKey(key)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	height, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse checkpoint: %w", err)
	}

	return height, true, nil
}

// SetCheckpoint stores the last fully processed block of a stream
func (s *pgCheckpointStore) SetCheckpoint(ctx context.Context, key domain.StreamKey, height uint64) error {
	kv := schema.KeyValueStore{
		Key:   checkpointKey(key),
		Value: strconv.FormatUint(height, 10),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      gorm.Expr("EXCLUDED.value"),
				"updated_at": gorm.Expr("now()"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("key_value_store.value::numeric < EXCLUDED.value::numeric"),
			}},
		}).
		Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set checkpoint: %w", err)
	}

	return nil
}

// setMaxScript writes ARGV[1] only when it is greater than the stored value
const setMaxScript = `
local current = redis.call('GET', KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`

type redisCheckpointStore struct {
	client adapter.RedisClient
	prefix string
}

// NewRedisCheckpointStore creates a checkpoint store backed by redis
func NewRedisCheckpointStore(client adapter.RedisClient, prefix string) CheckpointStore {
	return &redisCheckpointStore{client: client, prefix: prefix}
}

func (s *redisCheckpointStore) key(key domain.StreamKey) string {
	return s.prefix + checkpointKey(key)
}

// GetCheckpoint retrieves the last fully processed block of a stream
func (s *redisCheckpointStore) GetCheckpoint(ctx context.Context, key domain.StreamKey) (uint64, bool, error) {
	value, err := s.client.Get(ctx, s.key(key))
	if err != nil {
		if adapter.IsRedisNil(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	height, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse checkpoint: %w", err)
	}

	return height, true, nil
}

// SetCheckpoint stores the last fully processed block of a stream
func (s *redisCheckpointStore) SetCheckpoint(ctx context.Context, key domain.StreamKey, height uint64) error {
	_, err := s.client.Eval(ctx, setMaxScript, []string{s.key(key)}, strconv.FormatUint(height, 10))
	if err != nil {
		return fmt.Errorf("failed to set checkpoint: %w", err)
	}
	return nil
}
