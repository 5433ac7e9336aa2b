package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounterUnderTest(t *testing.T) (*TokenCounterService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenCounterService(nil, client, testLogger()), mr
}

func TestNext_UnseededCounter(t *testing.T) {
	counter, _ := newCounterUnderTest(t)

	_, err := counter.Next(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCounterMissing)
}

func TestNext_IncrementsSeededCounter(t *testing.T) {
	counter, mr := newCounterUnderTest(t)
	clinicID := uuid.New()
	mr.Set(seqKey(clinicID), "41")

	for want := 42; want <= 44; want++ {
		got, err := counter.Next(context.Background(), clinicID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNext_ClinicScoped(t *testing.T) {
	counter, mr := newCounterUnderTest(t)
	first := uuid.New()
	second := uuid.New()
	mr.Set(seqKey(first), "10")
	mr.Set(seqKey(second), "0")

	got, err := counter.Next(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, 11, got)

	got, err = counter.Next(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "sequences are independent per clinic")
}

func TestNext_NeverReusesCancelledNumbers(t *testing.T) {
	counter, mr := newCounterUnderTest(t)
	clinicID := uuid.New()
	mr.Set(seqKey(clinicID), "0")

	first, err := counter.Next(context.Background(), clinicID)
	require.NoError(t, err)

	// A cancellation does not touch the sequence, so the next allocation
	// still moves forward.
	second, err := counter.Next(context.Background(), clinicID)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	stored, err := mr.Get(seqKey(clinicID))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(second), stored)
}
