package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmyclinic/internal/domain/entity"
)

func TestGetStatus_AuthenticatedSeesOwnTokens(t *testing.T) {
	tokens := newFakeQueueTokenRepo()
	patientID := uuid.New()
	clinicID := uuid.New()
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: patientID, TokenNumber: 1, Status: entity.TokenStatusCompleted})
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: patientID, TokenNumber: 4, Status: entity.TokenStatusWaiting})
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: patientID, TokenNumber: 2, Status: entity.TokenStatusCancelled})
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: uuid.New(), TokenNumber: 3, Status: entity.TokenStatusWaiting})

	usecase := NewQueueStatusUsecase(testDB(), testLogger(), tokens)
	result, err := usecase.GetStatus(context.Background(), entity.AuthenticatedActor(patientID))
	require.NoError(t, err)

	// Cancelled tokens and other patients' tokens are not visible.
	assert.Equal(t, 2, result.Total)
	numbers := []int{}
	for _, token := range result.Tokens {
		numbers = append(numbers, token.TokenNumber)
	}
	assert.ElementsMatch(t, []int{1, 4}, numbers)
}

func TestGetStatus_AnonymousByRefs(t *testing.T) {
	tokens := newFakeQueueTokenRepo()
	clinicID := uuid.New()
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: uuid.New(), TokenNumber: 7, Status: entity.TokenStatusWaiting})
	tokens.add(&entity.QueueToken{ClinicID: clinicID, PatientID: uuid.New(), TokenNumber: 8, Status: entity.TokenStatusWaiting})

	usecase := NewQueueStatusUsecase(testDB(), testLogger(), tokens)
	refs := []entity.TokenRef{{ClinicID: clinicID, TokenNumber: 7}}
	result, err := usecase.GetStatus(context.Background(), entity.AnonymousActor(refs))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 7, result.Tokens[0].TokenNumber)
}

func TestGetStatus_AnonymousWithoutRefsIsEmpty(t *testing.T) {
	usecase := NewQueueStatusUsecase(testDB(), testLogger(), newFakeQueueTokenRepo())
	result, err := usecase.GetStatus(context.Background(), entity.AnonymousActor(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Tokens, "empty slice, not null, for JSON clients")
}
