package joblock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Locker impede que duas rodadas do mesmo job (disparadas por schedulers
// externos) se sobreponham. Sem Redis configurado ele vira no-op: os jobs
// continuam idempotentes por conta própria, a trava é só anti-sobreposição.
type Locker struct {
	rdb *redis.Client
}

func New(redisURL string) *Locker {
	if redisURL == "" {
		return &Locker{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, job locking disabled")
		return &Locker{}
	}

	return &Locker{rdb: redis.NewClient(opts)}
}

// TryAcquire tenta tomar a trava `key` por `ttl`. Retorna a função de
// liberação e se a trava foi obtida. Com Redis indisponível a trava é
// concedida — preferimos rodar em dobro a não rodar.
func (l *Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), bool) {
	if l.rdb == nil {
		return func() {}, true
	}

	ok, err := l.rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("job lock unavailable, proceeding without it")
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}

	release := func() {
		if err := l.rdb.Del(context.Background(), key).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to release job lock")
		}
	}
	return release, true
}
