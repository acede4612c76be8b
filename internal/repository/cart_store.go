package repository

// cart_store.go — per-user shopping carts in redis.
// A cart is transient selection state (product/size/addon ids + quantity),
// never prices: lines are re-priced from the live catalog on every read.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartLine is the persisted shape of one cart selection.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	SizeID    *string   `json:"size_id,omitempty"`
	AddonIDs  []string  `json:"addon_ids,omitempty"`
	Quantity  int       `json:"quantity"`
}

type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) ([]CartLine, error)
	Set(ctx context.Context, userID uuid.UUID, lines []CartLine) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type redisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) CartStore {
	return &redisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID uuid.UUID) string { return "cart:" + userID.String() }

func (s *redisCartStore) Get(ctx context.Context, userID uuid.UUID) ([]CartLine, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return []CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// A corrupt cart is abandoned, not surfaced: the customer simply
		// starts over. Unlike the sale ledger, nothing financial is lost.
		return []CartLine{}, nil
	}
	return lines, nil
}

func (s *redisCartStore) Set(ctx context.Context, userID uuid.UUID, lines []CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart store: marshal: %w", err)
	}
	return s.rdb.Set(ctx, cartKey(userID), data, s.ttl).Err()
}

func (s *redisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
