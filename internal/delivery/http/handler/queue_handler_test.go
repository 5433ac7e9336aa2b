package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/delivery/http/middleware"
	"findmyclinic/internal/domain/entity"
	"findmyclinic/pkg/validator"
)

type fakeQueueStatusUsecase struct {
	result   *dto.QueueStatusResponse
	err      error
	gotActor entity.Actor
}

func (f *fakeQueueStatusUsecase) GetStatus(_ context.Context, actor entity.Actor) (*dto.QueueStatusResponse, error) {
	f.gotActor = actor
	return f.result, f.err
}

func TestGetStatus_AnonymousRefsFromBody(t *testing.T) {
	fake := &fakeQueueStatusUsecase{result: &dto.QueueStatusResponse{Tokens: []dto.QueueTokenResponse{}, Total: 0}}
	h := NewQueueHandler(fake, validator.NewValidator())

	clinicID := uuid.New()
	body := fmt.Sprintf(`{"token_refs":[{"clinic_id":%q,"token_number":3}]}`, clinicID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue/status", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.GetStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, fake.gotActor.IsAuthenticated())
	require.Len(t, fake.gotActor.TokenRefs, 1)
	assert.Equal(t, clinicID, fake.gotActor.TokenRefs[0].ClinicID)
	assert.Equal(t, 3, fake.gotActor.TokenRefs[0].TokenNumber)
}

func TestGetStatus_AuthenticatedWithEmptyBody(t *testing.T) {
	fake := &fakeQueueStatusUsecase{result: &dto.QueueStatusResponse{Tokens: []dto.QueueTokenResponse{}, Total: 0}}
	h := NewQueueHandler(fake, validator.NewValidator())

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue/status", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	rec := httptest.NewRecorder()
	h.GetStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, fake.gotActor.IsAuthenticated())
	assert.Equal(t, userID, *fake.gotActor.UserID)
}

func TestGetStatus_MalformedBody(t *testing.T) {
	h := NewQueueHandler(&fakeQueueStatusUsecase{}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue/status", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	h.GetStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
