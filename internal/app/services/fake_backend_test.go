package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

type fakeAccount struct {
	identity models.Identity
	password string
}

// fakeBackend is an in-memory Backend that counts external calls
type fakeBackend struct {
	mu            sync.Mutex
	accounts      map[string]fakeAccount // by email
	tokens        map[string]string      // token -> user id
	students      map[string]models.Student
	consultations map[string]models.Consultation

	calls int

	failStudentInsert bool
	failDelete        bool
	failConsultations bool
	unavailable       bool
	deleted           []string
	signedOut         []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts:      map[string]fakeAccount{},
		tokens:        map[string]string{},
		students:      map[string]models.Student{},
		consultations: map[string]models.Consultation{},
	}
}

func (f *fakeBackend) Close() {}

func (f *fakeBackend) Ping(context.Context) error {
	if f.unavailable {
		return apperrors.ErrServiceUnavailable
	}
	return nil
}

func (f *fakeBackend) hit() error {
	f.calls++
	if f.unavailable {
		return apperrors.Unavailable(fmt.Errorf("dial tcp: connection refused"))
	}
	return nil
}

func (f *fakeBackend) issue(id models.Identity) *models.Session {
	token := uuid.NewString()
	f.tokens[token] = id.ID
	return &models.Session{AccessToken: token, TokenType: "bearer", ExpiresIn: 3600, User: &id}
}

func (f *fakeBackend) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return nil, err
	}
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid login credentials")
	}
	return f.issue(acc.identity), nil
}

func (f *fakeBackend) SignUp(_ context.Context, email, password string) (*models.Identity, *models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return nil, nil, err
	}
	if _, ok := f.accounts[email]; ok {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrIdentityRejected, "User already registered")
	}
	id := models.Identity{ID: uuid.NewString(), Email: email}
	f.accounts[email] = fakeAccount{identity: id, password: password}
	return &id, f.issue(id), nil
}

func (f *fakeBackend) SignOut(_ context.Context, caller *models.Caller) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return err
	}
	delete(f.tokens, caller.AccessToken)
	f.signedOut = append(f.signedOut, caller.UserID)
	return nil
}

func (f *fakeBackend) ResolveCaller(_ context.Context, token string) (*models.Caller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return &models.Caller{UserID: id, AccessToken: token}, nil
}

func (f *fakeBackend) DeleteIdentity(_ context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failDelete {
		return apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "admin key missing")
	}
	for email, acc := range f.accounts {
		if acc.identity.ID == identityID {
			delete(f.accounts, email)
		}
	}
	f.deleted = append(f.deleted, identityID)
	return nil
}

func (f *fakeBackend) CreateStudent(_ context.Context, _ *models.Caller, s models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return err
	}
	if f.failStudentInsert {
		return apperrors.NewCustomError(apperrors.ErrStorage, "new row violates row-level security policy")
	}
	if _, ok := f.students[s.ID]; ok {
		return apperrors.NewCustomError(apperrors.ErrConflict, "duplicate key value violates unique constraint \"students_pkey\"")
	}
	s.CreatedAt = time.Now().UTC()
	f.students[s.ID] = s
	return nil
}

func (f *fakeBackend) GetStudent(_ context.Context, caller *models.Caller) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return nil, err
	}
	s, ok := f.students[caller.UserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (f *fakeBackend) CreateConsultation(_ context.Context, caller *models.Caller, c models.NewConsultation) (*models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return nil, err
	}
	if f.failConsultations {
		return nil, apperrors.NewCustomError(apperrors.ErrStorage, "insert rejected")
	}
	now := time.Now().UTC()
	row := models.Consultation{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Reason:    c.Reason,
		Datetime:  c.Datetime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.consultations[row.ID] = row
	return &row, nil
}

func (f *fakeBackend) SetConsultationComplete(_ context.Context, caller *models.Caller, id string, complete bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return 0, err
	}
	if f.failConsultations {
		return 0, apperrors.NewCustomError(apperrors.ErrStorage, "update rejected")
	}
	row, ok := f.consultations[id]
	if !ok || row.UserID != caller.UserID {
		return 0, nil
	}
	row.IsComplete = complete
	row.UpdatedAt = time.Now().UTC()
	f.consultations[id] = row
	return 1, nil
}

func (f *fakeBackend) ListConsultations(_ context.Context, caller *models.Caller) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(); err != nil {
		return nil, err
	}
	var out []models.Consultation
	for _, c := range f.consultations {
		if c.UserID == caller.UserID {
			out = append(out, c)
		}
	}
	return out, nil
}

// snapshot copies every consultation row
func (f *fakeBackend) snapshot() map[string]models.Consultation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Consultation, len(f.consultations))
	for k, v := range f.consultations {
		out[k] = v
	}
	return out
}

var _ Backend = (*fakeBackend)(nil)
