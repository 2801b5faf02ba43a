package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"health-info-api/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	programCacheKeyPrefix   = "program:"
	programVersionKeySuffix = ":version"
)

var errStaleProgram = errors.New("program invalidated while loading")

// ProgramCache is a read-through cache for single catalog entries. A nil
// *ProgramCache is valid and caches nothing. Cache failures are logged and
// never surface to callers.
type ProgramCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewProgramCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *ProgramCache {
	return &ProgramCache{client: client, ttl: ttl, log: log}
}

func programKey(programID string) string {
	return programCacheKeyPrefix + programID
}

func programVersionKey(programID string) string {
	return programCacheKeyPrefix + programID + programVersionKeySuffix
}

func (c *ProgramCache) Get(ctx context.Context, programID string) (*entity.HealthProgram, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, programKey(programID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read program %s from cache: %+v", programID, err)
		}
		return nil, false
	}

	var program entity.HealthProgram
	if err := json.Unmarshal(raw, &program); err != nil {
		c.log.Warnf("Failed to decode cached program %s: %+v", programID, err)
		return nil, false
	}
	return &program, true
}

// Version returns the invalidation counter for programID. Read it before
// loading the row from the database and hand it to Set; ok is false when the
// counter cannot be read, and the caller should skip caching.
func (c *ProgramCache) Version(ctx context.Context, programID string) (int64, bool) {
	if c == nil {
		return 0, false
	}

	version, err := c.client.Get(ctx, programVersionKey(programID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warnf("Failed to read cache version of program %s: %+v", programID, err)
		return 0, false
	}
	return version, true
}

// Set stores program only if no Invalidate ran since version was read, so a
// row loaded before a write cannot overwrite the invalidation.
func (c *ProgramCache) Set(ctx context.Context, program *entity.HealthProgram, version int64) {
	if c == nil || program == nil {
		return
	}

	raw, err := json.Marshal(program)
	if err != nil {
		c.log.Warnf("Failed to encode program %s: %+v", program.ProgramID, err)
		return
	}

	versionKey := programVersionKey(program.ProgramID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleProgram
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, programKey(program.ProgramID), raw, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleProgram), errors.Is(err, redis.TxFailedErr):
		c.log.Debugf("Skipped caching program %s, invalidated while loading", program.ProgramID)
	default:
		c.log.Warnf("Failed to cache program %s: %+v", program.ProgramID, err)
	}
}

// Invalidate drops the cached entry and bumps the version so in-flight loads
// do not put the old row back.
func (c *ProgramCache) Invalidate(ctx context.Context, programID string) {
	if c == nil {
		return
	}

	versionKey := programVersionKey(programID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		if c.ttl > 0 {
			pipe.Expire(ctx, versionKey, 2*c.ttl)
		}
		pipe.Del(ctx, programKey(programID))
		return nil
	})
	if err != nil {
		c.log.Warnf("Failed to invalidate program %s: %+v", programID, err)
	}
}
