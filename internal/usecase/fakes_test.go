package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/domain/entity"
	"findmyclinic/internal/service"
)

// testDB satisfies the *gorm.DB plumbing the usecases thread through to
// repositories. A Statement is attached so WithContext can clone it; the
// fakes below never touch the handle otherwise.
func testDB() *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{DB: db, Context: context.Background()}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeQueueTokenRepo struct {
	mu        sync.Mutex
	tokens    map[uuid.UUID]*entity.QueueToken
	order     []uuid.UUID
	activeErr error
	countErr  error
	createErr error
	cancelErr error
}

func newFakeQueueTokenRepo() *fakeQueueTokenRepo {
	return &fakeQueueTokenRepo{tokens: map[uuid.UUID]*entity.QueueToken{}}
}

func (f *fakeQueueTokenRepo) add(token *entity.QueueToken) *entity.QueueToken {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	f.tokens[token.ID] = token
	f.order = append(f.order, token.ID)
	return token
}

func (f *fakeQueueTokenRepo) Create(_ *gorm.DB, token *entity.QueueToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.add(token)
	return nil
}

func (f *fakeQueueTokenRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[id]
	if !ok {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (f *fakeQueueTokenRepo) FindActiveByPatientID(_ *gorm.DB, patientID uuid.UUID) (*entity.QueueToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	for i := len(f.order) - 1; i >= 0; i-- {
		token := f.tokens[f.order[i]]
		if token.PatientID == patientID && token.IsActive() {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeQueueTokenRepo) FindActiveByRef(_ *gorm.DB, ref entity.TokenRef) (*entity.QueueToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	for i := len(f.order) - 1; i >= 0; i-- {
		token := f.tokens[f.order[i]]
		if token.ClinicID == ref.ClinicID && token.TokenNumber == ref.TokenNumber && token.IsActive() {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeQueueTokenRepo) FindVisibleByPatientID(_ *gorm.DB, patientID uuid.UUID) ([]entity.QueueToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.QueueToken
	for i := len(f.order) - 1; i >= 0; i-- {
		token := f.tokens[f.order[i]]
		if token.PatientID == patientID && !token.IsCancelled() {
			out = append(out, *token)
		}
	}
	return out, nil
}

func (f *fakeQueueTokenRepo) FindVisibleByRefs(_ *gorm.DB, refs []entity.TokenRef) ([]entity.QueueToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.QueueToken
	for i := len(f.order) - 1; i >= 0; i-- {
		token := f.tokens[f.order[i]]
		if token.IsCancelled() {
			continue
		}
		for _, ref := range refs {
			if token.ClinicID == ref.ClinicID && token.TokenNumber == ref.TokenNumber {
				out = append(out, *token)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeQueueTokenRepo) MaxTokenNumber(_ *gorm.DB, clinicID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, token := range f.tokens {
		if token.ClinicID == clinicID && token.TokenNumber > max {
			max = token.TokenNumber
		}
	}
	return max, nil
}

func (f *fakeQueueTokenRepo) CountWaiting(_ *gorm.DB, clinicID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var count int64
	for _, token := range f.tokens {
		if token.ClinicID == clinicID && token.Status == entity.TokenStatusWaiting {
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueTokenRepo) CountWaitingGrouped(_ *gorm.DB) (map[uuid.UUID]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	out := map[uuid.UUID]int64{}
	for _, token := range f.tokens {
		if token.Status == entity.TokenStatusWaiting {
			out[token.ClinicID]++
		}
	}
	return out, nil
}

func (f *fakeQueueTokenRepo) Cancel(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return 0, f.cancelErr
	}
	token, ok := f.tokens[id]
	if !ok || !token.IsActive() {
		return 0, nil
	}
	token.Status = entity.TokenStatusCancelled
	return 1, nil
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
	creates  int
	upserts  int
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}
}

func (f *fakePatientRepo) Create(_ *gorm.DB, patient *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	copied := *patient
	f.patients[patient.ID] = &copied
	f.creates++
	return nil
}

func (f *fakePatientRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	patient, ok := f.patients[id]
	if !ok {
		return nil, nil
	}
	copied := *patient
	return &copied, nil
}

func (f *fakePatientRepo) Upsert(_ *gorm.DB, patient *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *patient
	f.patients[patient.ID] = &copied
	f.upserts++
	return nil
}

type fakeClinicRepo struct {
	clinics map[uuid.UUID]*entity.Clinic
	err     error

	// gate, when set, blocks FindByID until closed; entered is signalled
	// first so the test knows the call is parked.
	gate    chan struct{}
	entered chan struct{}
	gated   sync.Once
}

func newFakeClinicRepo(clinics ...*entity.Clinic) *fakeClinicRepo {
	f := &fakeClinicRepo{clinics: map[uuid.UUID]*entity.Clinic{}}
	for _, clinic := range clinics {
		f.clinics[clinic.ID] = clinic
	}
	return f
}

func (f *fakeClinicRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	if f.gate != nil {
		f.gated.Do(func() {
			f.entered <- struct{}{}
			<-f.gate
		})
	}
	if f.err != nil {
		return nil, f.err
	}
	clinic, ok := f.clinics[id]
	if !ok {
		return nil, nil
	}
	copied := *clinic
	return &copied, nil
}

func (f *fakeClinicRepo) FindActive(_ *gorm.DB, search string) ([]entity.Clinic, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Clinic
	for _, clinic := range f.clinics {
		out = append(out, *clinic)
	}
	return out, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
}

func newFakeDoctorRepo(doctors ...*entity.Doctor) *fakeDoctorRepo {
	f := &fakeDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{}}
	for _, doctor := range doctors {
		f.doctors[doctor.ID] = doctor
	}
	return f
}

func (f *fakeDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, nil
	}
	copied := *doctor
	return &copied, nil
}

func (f *fakeDoctorRepo) FindActive(_ *gorm.DB, search, specialization string) ([]entity.Doctor, error) {
	var out []entity.Doctor
	for _, doctor := range f.doctors {
		if specialization != "" && doctor.Specialization != specialization {
			continue
		}
		out = append(out, *doctor)
	}
	return out, nil
}

func (f *fakeDoctorRepo) Specializations(_ *gorm.DB) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, doctor := range f.doctors {
		if !seen[doctor.Specialization] {
			seen[doctor.Specialization] = true
			out = append(out, doctor.Specialization)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
	err   error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, user := range users {
		f.users[user.ID] = user
	}
	return f
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*entity.UserProfile
	err      error
}

func newFakeProfileRepo(profiles ...*entity.UserProfile) *fakeProfileRepo {
	f := &fakeProfileRepo{profiles: map[uuid.UUID]*entity.UserProfile{}}
	for _, profile := range profiles {
		f.profiles[profile.UserID] = profile
	}
	return f
}

func (f *fakeProfileRepo) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) Upsert(_ *gorm.DB, profile *entity.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	copied := *profile
	f.profiles[profile.UserID] = &copied
	return nil
}

// fakeCounter hands out sequence numbers like the Redis counter, with an
// injectable failure.
type fakeCounter struct {
	mu      sync.Mutex
	current map[uuid.UUID]int
	err     error
	seeded  map[uuid.UUID]int
	seedErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{current: map[uuid.UUID]int{}, seeded: map[uuid.UUID]int{}}
}

func (f *fakeCounter) Next(_ context.Context, clinicID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.current[clinicID]++
	return f.current[clinicID], nil
}

func (f *fakeCounter) SeedClinic(_ context.Context, clinicID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seedErr != nil {
		return f.seedErr
	}
	if seed, ok := f.seeded[clinicID]; ok {
		f.current[clinicID] = seed
		f.err = nil
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []service.QueueEvent
}

func (f *fakePublisher) Publish(_ context.Context, event service.QueueEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) count(eventType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, event := range f.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditService) LogCreate(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action, _, _ string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) LogUpdate(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action, _, _ string, _, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}
