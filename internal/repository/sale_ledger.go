package repository

// sale_ledger.go — the cashier sale ledger.
// Sales are kept as one JSON array under a single redis key, append-only:
// a sale has no lifecycle, it is final the moment it is recorded. The whole
// array is small enough to read at once for the in-process window filter
// that analytics applies.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storely/internal/model"

	"github.com/redis/go-redis/v9"
)

// LedgerKey is the single key holding the serialized sale array.
const LedgerKey = "ledger:sales"

// appendRetries bounds the optimistic-lock retry loop on concurrent appends.
const appendRetries = 5

// ErrCorruptLedger marks a ledger payload that failed to deserialize.
// Analytics treats this as "cashier source unavailable" rather than a hard
// failure, so the online half of a report can still be served.
var ErrCorruptLedger = errors.New("sale ledger: corrupt payload")

type SaleLedger interface {
	// Append adds one sale to the ledger atomically (WATCH/MULTI on the key).
	Append(ctx context.Context, s *model.Sale) error
	// List returns the full ledger history, oldest first. A corrupt ledger
	// returns an error — callers must not partially aggregate over it.
	List(ctx context.Context) ([]model.Sale, error)
}

type redisSaleLedger struct{ rdb *redis.Client }

func NewSaleLedger(rdb *redis.Client) SaleLedger { return &redisSaleLedger{rdb: rdb} }

func (l *redisSaleLedger) Append(ctx context.Context, s *model.Sale) error {
	txf := func(tx *redis.Tx) error {
		sales, err := readLedger(ctx, tx)
		if err != nil {
			return err
		}
		sales = append(sales, *s)
		data, err := json.Marshal(sales)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, LedgerKey, data, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < appendRetries; i++ {
		err = l.rdb.Watch(ctx, txf, LedgerKey)
		if err != redis.TxFailedErr {
			return err
		}
		// Another cashier appended concurrently — retry against the new array.
	}
	return fmt.Errorf("sale ledger: append contention after %d retries: %w", appendRetries, err)
}

func (l *redisSaleLedger) List(ctx context.Context) ([]model.Sale, error) {
	return readLedger(ctx, l.rdb)
}

func readLedger(ctx context.Context, c redis.Cmdable) ([]model.Sale, error) {
	raw, err := c.Get(ctx, LedgerKey).Result()
	if err == redis.Nil {
		return []model.Sale{}, nil
	}
	if err != nil {
		return nil, err
	}
	var sales []model.Sale
	if err := json.Unmarshal([]byte(raw), &sales); err != nil {
		return nil, fmt.Errorf("%w under %q: %v", ErrCorruptLedger, LedgerKey, err)
	}
	return sales, nil
}
