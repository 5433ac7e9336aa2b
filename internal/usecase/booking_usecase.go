package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
	"findmyclinic/internal/domain/repository"
	"findmyclinic/internal/service"
)

var (
	ErrClinicNotFound      = errors.New("clinic not found")
	ErrClinicClosed        = errors.New("clinic is currently closed")
	ErrDoctorNotFound      = errors.New("doctor not found at this clinic")
	ErrTokenNotFound       = errors.New("queue token not found")
	ErrTokenNotOwned       = errors.New("queue token does not belong to you")
	ErrTokenNotCancellable = errors.New("queue token can no longer be cancelled")
	ErrDuplicateRequest    = errors.New("an identical booking request is already in progress")
)

// TokenCounter issues clinic-scoped sequence numbers.
type TokenCounter interface {
	Next(ctx context.Context, clinicID uuid.UUID) (int, error)
	SeedClinic(ctx context.Context, clinicID uuid.UUID) error
}

// QueueEventPublisher broadcasts queue_tokens changes to live feeds.
type QueueEventPublisher interface {
	Publish(ctx context.Context, event service.QueueEvent)
}

type BookingUsecase interface {
	// CreateToken books a queue token. When the actor already holds an
	// active token and the request carries no resolution, the response
	// describes the conflict instead of issuing a new token.
	CreateToken(ctx context.Context, actor entity.Actor, req *dto.CreateTokenRequest) (*dto.CreateTokenResponse, error)

	// CancelToken cancels a token. Cancelling an already-cancelled token
	// succeeds without effect.
	CancelToken(ctx context.Context, actor entity.Actor, tokenID uuid.UUID, refs []entity.TokenRef) error
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	tokenRepo    repository.QueueTokenRepository
	patientRepo  repository.PatientRepository
	clinicRepo   repository.ClinicRepository
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	profileRepo  repository.UserProfileRepository
	counter      TokenCounter
	events       QueueEventPublisher
	estimator    *WaitEstimator
	auditService service.AuditService

	// inflight guards against double-submits of the same request key
	// while the first attempt is still running.
	inflight sync.Map
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	tokenRepo repository.QueueTokenRepository,
	patientRepo repository.PatientRepository,
	clinicRepo repository.ClinicRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	profileRepo repository.UserProfileRepository,
	counter TokenCounter,
	events QueueEventPublisher,
	estimator *WaitEstimator,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		tokenRepo:    tokenRepo,
		patientRepo:  patientRepo,
		clinicRepo:   clinicRepo,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		counter:      counter,
		events:       events,
		estimator:    estimator,
		auditService: auditService,
	}
}

// CreateToken books a queue token.
//
// Flow:
// 1. Validate clinic exists and is open (optional doctor belongs to it)
// 2. Conflict check against the actor's active token; lookup failures are
//    treated as "no conflict" so a degraded read path never blocks booking
// 3. Resolve or create the patient record
// 4. Allocate the clinic-scoped token number (Redis counter, DB fallback)
// 5. Insert the token with the current wait estimate
// 6. Publish a queue-change event and write the audit entry
func (u *bookingUsecase) CreateToken(ctx context.Context, actor entity.Actor, req *dto.CreateTokenRequest) (*dto.CreateTokenResponse, error) {
	if req.RequestKey != "" {
		if _, loaded := u.inflight.LoadOrStore(req.RequestKey, struct{}{}); loaded {
			return nil, ErrDuplicateRequest
		}
		defer u.inflight.Delete(req.RequestKey)
	}

	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), req.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}
	if !clinic.IsOpen() {
		return nil, ErrClinicClosed
	}

	if req.DoctorID != nil {
		doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", *req.DoctorID, err)
			return nil, err
		}
		if doctor == nil || doctor.ClinicID != req.ClinicID {
			return nil, ErrDoctorNotFound
		}
	}

	existing := u.findActiveToken(ctx, actor)
	if existing != nil {
		switch req.Resolution {
		case dto.ResolutionCancelPrevious:
			if err := u.cancelExisting(ctx, actor, existing); err != nil {
				return nil, err
			}
		case dto.ResolutionKeepPrevious:
			// Keep the prior booking; hand it back so the client can
			// refresh its local copy.
			return &dto.CreateTokenResponse{Token: converter.QueueTokenToResponse(existing)}, nil
		default:
			return &dto.CreateTokenResponse{
				Conflict: &dto.ConflictResponse{
					ExistingToken: *converter.QueueTokenToResponse(existing),
					Resolutions:   []string{dto.ResolutionCancelPrevious, dto.ResolutionKeepPrevious},
				},
			}, nil
		}
	}

	patient, err := u.resolvePatient(ctx, actor, req)
	if err != nil {
		u.log.Warnf("Failed to resolve patient record: %+v", err)
		return nil, err
	}

	tokenNumber, err := u.nextTokenNumber(ctx, req.ClinicID)
	if err != nil {
		u.log.Errorf("Failed to allocate token number for clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}

	token := &entity.QueueToken{
		ClinicID:          req.ClinicID,
		PatientID:         patient.ID,
		TokenNumber:       tokenNumber,
		Status:            entity.TokenStatusWaiting,
		EstimatedWaitTime: u.estimator.Estimate(ctx, req.ClinicID),
	}

	if err := u.tokenRepo.Create(u.db.WithContext(ctx), token); err != nil {
		u.log.Errorf("Failed to insert queue token for clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}

	u.events.Publish(ctx, service.QueueEvent{
		Type:     service.QueueEventInsert,
		TokenID:  token.ID,
		ClinicID: token.ClinicID,
	})

	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), actor.UserID, entity.AuditActionTokenIssue, "queue_token", token.ID.String(), token); err != nil {
		u.log.Warnf("Failed to write audit log for token %s: %+v", token.ID, err)
	}

	u.log.Infof("Queue token issued: clinic=%s, number=%d, patient=%s", token.ClinicID, token.TokenNumber, token.PatientID)

	response := converter.QueueTokenToResponse(token)
	response.DoctorID = req.DoctorID
	response.Clinic = converter.ClinicToResponse(clinic)
	return &dto.CreateTokenResponse{Token: response}, nil
}

// CancelToken cancels a token the actor owns.
//
// The conditional update only matches active statuses, so a token that
// completed between the read and the update is never flipped to cancelled.
func (u *bookingUsecase) CancelToken(ctx context.Context, actor entity.Actor, tokenID uuid.UUID, refs []entity.TokenRef) error {
	token, err := u.tokenRepo.FindByID(u.db.WithContext(ctx), tokenID)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", tokenID, err)
		return err
	}
	if token == nil {
		return ErrTokenNotFound
	}

	if !u.ownsToken(actor, token, refs) {
		return ErrTokenNotOwned
	}

	if token.IsCancelled() {
		return nil
	}
	if token.Status == entity.TokenStatusCompleted {
		return ErrTokenNotCancellable
	}

	affected, err := u.tokenRepo.Cancel(u.db.WithContext(ctx), tokenID)
	if err != nil {
		u.log.Warnf("Failed to cancel token %s: %+v", tokenID, err)
		return err
	}
	if affected == 0 {
		// Lost a race with another transition. Re-read to decide whether
		// the outcome is still a successful cancel.
		current, err := u.tokenRepo.FindByID(u.db.WithContext(ctx), tokenID)
		if err == nil && current != nil && !current.IsCancelled() {
			return ErrTokenNotCancellable
		}
		return nil
	}

	u.events.Publish(ctx, service.QueueEvent{
		Type:     service.QueueEventUpdate,
		TokenID:  token.ID,
		ClinicID: token.ClinicID,
	})

	if err := u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), actor.UserID, entity.AuditActionTokenCancel, "queue_token", token.ID.String(), token.Status, entity.TokenStatusCancelled); err != nil {
		u.log.Warnf("Failed to write audit log for token %s: %+v", token.ID, err)
	}

	u.log.Infof("Queue token cancelled: id=%s, clinic=%s, number=%d", token.ID, token.ClinicID, token.TokenNumber)
	return nil
}

// findActiveToken locates the actor's current active token, if any.
// Lookup errors are swallowed: an unreadable queue must not block a new
// booking, at worst the patient briefly holds two tokens.
func (u *bookingUsecase) findActiveToken(ctx context.Context, actor entity.Actor) *entity.QueueToken {
	if actor.IsAuthenticated() {
		token, err := u.tokenRepo.FindActiveByPatientID(u.db.WithContext(ctx), *actor.UserID)
		if err != nil {
			u.log.Warnf("Conflict check failed for patient %s, proceeding without: %+v", *actor.UserID, err)
			return nil
		}
		return token
	}

	for _, ref := range actor.TokenRefs {
		token, err := u.tokenRepo.FindActiveByRef(u.db.WithContext(ctx), ref)
		if err != nil {
			u.log.Warnf("Conflict check failed for ref %s/%d, proceeding without: %+v", ref.ClinicID, ref.TokenNumber, err)
			continue
		}
		if token != nil {
			return token
		}
	}
	return nil
}

func (u *bookingUsecase) cancelExisting(ctx context.Context, actor entity.Actor, existing *entity.QueueToken) error {
	affected, err := u.tokenRepo.Cancel(u.db.WithContext(ctx), existing.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel previous token %s: %+v", existing.ID, err)
		return err
	}
	if affected > 0 {
		u.events.Publish(ctx, service.QueueEvent{
			Type:     service.QueueEventUpdate,
			TokenID:  existing.ID,
			ClinicID: existing.ClinicID,
		})
		if err := u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), actor.UserID, entity.AuditActionTokenCancel, "queue_token", existing.ID.String(), existing.Status, entity.TokenStatusCancelled); err != nil {
			u.log.Warnf("Failed to write audit log for token %s: %+v", existing.ID, err)
		}
	}
	return nil
}

// resolvePatient returns the patient row the new token should reference.
// Authenticated actors upsert a row keyed by their user ID, backfilled from
// the stored profile; anonymous actors always get a fresh placeholder row.
func (u *bookingUsecase) resolvePatient(ctx context.Context, actor entity.Actor, req *dto.CreateTokenRequest) (*entity.Patient, error) {
	if !actor.IsAuthenticated() {
		patient := &entity.Patient{
			ID:    uuid.New(),
			Name:  req.PatientName,
			Phone: req.PatientPhone,
			Email: req.PatientEmail,
		}
		if patient.Name == "" {
			patient.Name = entity.AnonymousPatientName
		}
		if patient.Phone == "" {
			patient.Phone = entity.PlaceholderPhone
		}
		if err := u.patientRepo.Create(u.db.WithContext(ctx), patient); err != nil {
			return nil, err
		}
		return patient, nil
	}

	patient := &entity.Patient{
		ID:    *actor.UserID,
		Name:  req.PatientName,
		Phone: req.PatientPhone,
		Email: req.PatientEmail,
	}

	// Backfill missing fields from the account and profile. Profile reads
	// are best-effort: the sentinel values cover any gap.
	if patient.Name == "" || patient.Email == nil {
		user, err := u.userRepo.FindByID(u.db.WithContext(ctx), *actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to load user %s for patient backfill: %+v", *actor.UserID, err)
		} else if user != nil {
			if patient.Name == "" {
				patient.Name = user.FullName
			}
			if patient.Email == nil && user.Email != "" {
				email := user.Email
				patient.Email = &email
			}
		}
	}
	if patient.Phone == "" {
		profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), *actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to load profile %s for patient backfill: %+v", *actor.UserID, err)
		} else if profile != nil {
			patient.Phone = profile.Phone
		}
	}
	if patient.Name == "" {
		patient.Name = entity.AnonymousPatientName
	}
	if patient.Phone == "" {
		patient.Phone = entity.PlaceholderPhone
	}

	if err := u.patientRepo.Upsert(u.db.WithContext(ctx), patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// nextTokenNumber allocates the next clinic-scoped number. The Redis
// counter is authoritative; a missing key is seeded from the database and
// retried once. Any other Redis failure falls back to reading
// MAX(token_number) directly, accepting the small duplicate-number race in
// exchange for availability.
func (u *bookingUsecase) nextTokenNumber(ctx context.Context, clinicID uuid.UUID) (int, error) {
	number, err := u.counter.Next(ctx, clinicID)
	if err == nil {
		return number, nil
	}

	if errors.Is(err, service.ErrCounterMissing) {
		if seedErr := u.counter.SeedClinic(ctx, clinicID); seedErr == nil {
			if number, err = u.counter.Next(ctx, clinicID); err == nil {
				return number, nil
			}
		}
	}

	u.log.Warnf("Redis token counter unavailable for clinic %s, falling back to DB max: %+v", clinicID, err)

	max, dbErr := u.tokenRepo.MaxTokenNumber(u.db.WithContext(ctx), clinicID)
	if dbErr != nil {
		return 0, dbErr
	}
	return max + 1, nil
}

func (u *bookingUsecase) ownsToken(actor entity.Actor, token *entity.QueueToken, refs []entity.TokenRef) bool {
	if actor.IsAuthenticated() && token.PatientID == *actor.UserID {
		return true
	}
	for _, ref := range refs {
		if ref.ClinicID == token.ClinicID && ref.TokenNumber == token.TokenNumber {
			return true
		}
	}
	return false
}
