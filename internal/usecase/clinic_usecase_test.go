package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmyclinic/internal/domain/entity"
)

func TestListClinics_DecoratesQueueDepth(t *testing.T) {
	busy := &entity.Clinic{ID: uuid.New(), Name: "Busy Clinic", Status: entity.ClinicStatusOpen}
	quiet := &entity.Clinic{ID: uuid.New(), Name: "Quiet Clinic", Status: entity.ClinicStatusOpen}
	clinics := newFakeClinicRepo(busy, quiet)

	tokens := newFakeQueueTokenRepo()
	for i := 0; i < 3; i++ {
		tokens.add(&entity.QueueToken{ClinicID: busy.ID, PatientID: uuid.New(), TokenNumber: i + 1, Status: entity.TokenStatusWaiting})
	}

	db := testDB()
	log := testLogger()
	usecase := NewClinicUsecase(db, log, clinics, tokens, NewWaitEstimator(db, log, tokens))

	result, err := usecase.ListClinics(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)

	byID := map[uuid.UUID]int{}
	waits := map[uuid.UUID]int{}
	for _, clinic := range result.Clinics {
		byID[clinic.ID] = clinic.QueueSize
		waits[clinic.ID] = clinic.CurrentWaitMinutes
	}
	assert.Equal(t, 3, byID[busy.ID])
	assert.Equal(t, 30, waits[busy.ID])
	assert.Equal(t, 0, byID[quiet.ID])
	assert.Equal(t, 5, waits[quiet.ID], "empty queue still reports the minimum wait")
}

func TestListClinics_DepthReadFailureLeavesZeroDepths(t *testing.T) {
	clinic := &entity.Clinic{ID: uuid.New(), Name: "City Care Clinic", Status: entity.ClinicStatusOpen}
	clinics := newFakeClinicRepo(clinic)
	tokens := newFakeQueueTokenRepo()
	tokens.countErr = errors.New("connection reset")

	db := testDB()
	log := testLogger()
	usecase := NewClinicUsecase(db, log, clinics, tokens, NewWaitEstimator(db, log, tokens))

	result, err := usecase.ListClinics(context.Background(), "")
	require.NoError(t, err, "a failed depth read must not fail the listing")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Clinics[0].QueueSize)
}

func TestGetClinic(t *testing.T) {
	clinic := &entity.Clinic{ID: uuid.New(), Name: "City Care Clinic", Status: entity.ClinicStatusOpen}
	clinics := newFakeClinicRepo(clinic)
	tokens := newFakeQueueTokenRepo()
	tokens.add(&entity.QueueToken{ClinicID: clinic.ID, PatientID: uuid.New(), TokenNumber: 1, Status: entity.TokenStatusWaiting})

	db := testDB()
	log := testLogger()
	usecase := NewClinicUsecase(db, log, clinics, tokens, NewWaitEstimator(db, log, tokens))

	result, err := usecase.GetClinic(context.Background(), clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.Name, result.Name)
	assert.Equal(t, 1, result.QueueSize)
	assert.Equal(t, 10, result.CurrentWaitMinutes)

	_, err = usecase.GetClinic(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestGetClinic_DepthReadFailureUsesFallbackWait(t *testing.T) {
	clinic := &entity.Clinic{ID: uuid.New(), Name: "City Care Clinic", Status: entity.ClinicStatusOpen}
	clinics := newFakeClinicRepo(clinic)
	tokens := newFakeQueueTokenRepo()
	tokens.countErr = errors.New("connection reset")

	db := testDB()
	log := testLogger()
	usecase := NewClinicUsecase(db, log, clinics, tokens, NewWaitEstimator(db, log, tokens))

	result, err := usecase.GetClinic(context.Background(), clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, FallbackWaitMinutes, result.CurrentWaitMinutes)
}
