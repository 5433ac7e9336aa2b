package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrCounterMissing is returned when a clinic's sequence key is absent from
// Redis. Callers must seed the counter (or fall back to a DB read) instead
// of letting INCR restart the sequence at 1.
var ErrCounterMissing = errors.New("token counter not initialized for clinic")

// nextTokenScript increments the per-clinic sequence only when the key
// exists. Runs atomically inside Redis, so concurrent bookings against the
// same clinic can never observe the same number.
var nextTokenScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	return redis.call('INCR', KEYS[1])
`)

const (
	// Redis key prefix for per-clinic token sequences
	RedisTokenSeqPrefix = "clinic:token_seq:"

	// Batch size for startup sync
	seqSyncBatchSize = 500
)

// TokenCounterService owns the clinic-scoped token number sequences.
//
// Numbers are allocated by an atomic Redis INCR and re-synced from
// MAX(token_number) at startup, so sequences survive restarts and are
// strictly increasing. Cancellations never decrement a sequence — token
// numbers are not reused.
type TokenCounterService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger

	// Per-clinic mutex so concurrent seeds don't race each other
	clinicMu sync.Map // map[uuid.UUID]*sync.Mutex
}

func NewTokenCounterService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *TokenCounterService {
	return &TokenCounterService{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

// Next allocates the next token number for the clinic. Returns
// ErrCounterMissing when the sequence key has not been seeded.
func (s *TokenCounterService) Next(ctx context.Context, clinicID uuid.UUID) (int, error) {
	key := seqKey(clinicID)

	result, err := nextTokenScript.Run(ctx, s.redisClient, []string{key}).Int()
	if err != nil {
		return 0, fmt.Errorf("next token number for clinic %s: %w", clinicID, err)
	}
	if result == -1 {
		return 0, ErrCounterMissing
	}

	return result, nil
}

// SeedClinic initializes the clinic's sequence from MAX(token_number) in
// the database. SETNX keeps an already-running sequence untouched, so a
// stale seed can never move a counter backwards.
func (s *TokenCounterService) SeedClinic(ctx context.Context, clinicID uuid.UUID) error {
	mu := s.getClinicMutex(clinicID)
	mu.Lock()
	defer mu.Unlock()

	var max int
	err := s.db.WithContext(ctx).Model(&entity.QueueToken{}).
		Select("COALESCE(MAX(token_number), 0)").
		Where("clinic_id = ?", clinicID).
		Scan(&max).Error
	if err != nil {
		return fmt.Errorf("query max token number for clinic %s: %w", clinicID, err)
	}

	if err := s.redisClient.SetNX(ctx, seqKey(clinicID), max, 0).Err(); err != nil {
		return fmt.Errorf("seed token counter for clinic %s: %w", clinicID, err)
	}

	s.log.Debugf("Seeded token counter for clinic %s at %d", clinicID, max)
	return nil
}

// SyncOnStartup re-seeds every clinic sequence from the database. Should be
// called before accepting traffic (startup/disaster recovery).
func (s *TokenCounterService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Syncing clinic token counters from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping counter sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	type seqRow struct {
		ClinicID uuid.UUID
		MaxToken int
	}

	offset := 0
	totalSynced := 0

	for {
		var rows []seqRow

		err := s.db.Model(&entity.Clinic{}).
			Select(`clinics.id as clinic_id, COALESCE(MAX(queue_tokens.token_number), 0) as max_token`).
			Joins("LEFT JOIN queue_tokens ON queue_tokens.clinic_id = clinics.id").
			Group("clinics.id").
			Order("clinics.id").
			Limit(seqSyncBatchSize).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("query clinic sequences at offset %d: %w", offset, err)
		}

		if len(rows) == 0 {
			break
		}

		// New pipeline per batch so memory stays bounded
		pipe := s.redisClient.TxPipeline()
		for _, row := range rows {
			// Overwrite with the DB truth: every issued number, including
			// ones written by the read-max fallback, is reflected here.
			pipe.Set(ctx, seqKey(row.ClinicID), row.MaxToken, 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(rows)
		if len(rows) < seqSyncBatchSize {
			break
		}
		offset += seqSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Token counter sync completed: %d clinics in %v", totalSynced, time.Since(startTime))
	return nil
}

func (s *TokenCounterService) getClinicMutex(clinicID uuid.UUID) *sync.Mutex {
	mu, _ := s.clinicMu.LoadOrStore(clinicID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func seqKey(clinicID uuid.UUID) string {
	return RedisTokenSeqPrefix + clinicID.String()
}
