package worker

// retry_cron.go
// Failed jobs are parked in a sorted set scored by their next-attempt time
// (exponential backoff). A background goroutine ticks every 30s and moves
// due entries back onto their source queue, skipping whole ticks while the
// SMTP circuit breaker is open.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"storely/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryZSet = "jobs:retry"

	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	retryBaseDelay    = 2 * time.Minute
)

// scheduleRetry parks a failed job for a later attempt. Backoff doubles per
// attempt: 2m, 4m, 8m…
func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	delay := retryBaseDelay << (job.Attempts - 1)
	retryAt := time.Now().Add(delay)

	encoded, err := json.Marshal(retryEnvelope{Queue: queue, Job: job})
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to marshal retry envelope")
		return
	}
	if err := rdb.ZAdd(ctx, RetryZSet, redis.Z{Score: float64(retryAt.Unix()), Member: encoded}).Err(); err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to park job")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Dur("delay", delay).
		AnErr("cause", cause).
		Msg("retry_cron: job parked for retry")
}

// retryEnvelope records the source queue alongside the job itself.
type retryEnvelope struct {
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

// StartRetryCron launches the background goroutine that re-enqueues due
// jobs. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, cb)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// If the breaker is open, skip entirely — don't hammer a downed relay.
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := rdb.ZRangeByScore(ctx, RetryZSet, &redis.ZRangeBy{
		Min: "-inf", Max: now, Count: retryBatchSize,
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	for _, raw := range due {
		var env retryEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt retry envelope — dropping")
			rdb.ZRem(ctx, RetryZSet, raw)
			continue
		}

		encoded, err := json.Marshal(env.Job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, env.Queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", env.Queue).Msg("retry_cron: re-enqueue failed")
			continue
		}
		rdb.ZRem(ctx, RetryZSet, raw)
		log.Info().Str("queue", env.Queue).Str("type", env.Job.Type).Int("attempts", env.Job.Attempts).Msg("retry_cron: job re-enqueued")
	}
}
