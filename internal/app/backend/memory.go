package backend

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const memorySessionTTL = time.Hour

type memoryAccount struct {
	id           string
	email        string
	passwordHash string
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// Memory keeps everything in process. State is lost on restart; it serves
// local demos and tests.
type Memory struct {
	mu            sync.RWMutex
	accounts      map[string]memoryAccount // by email
	sessions      map[string]memorySession // by access token
	students      map[string]models.Student
	consultations map[string]models.Consultation
	hasher        *auth.PasswordHasher
	now           func() time.Time
}

// NewMemory returns an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{
		accounts:      map[string]memoryAccount{},
		sessions:      map[string]memorySession{},
		students:      map[string]models.Student{},
		consultations: map[string]models.Consultation{},
		hasher:        auth.NewPasswordHasher(bcrypt.MinCost),
		now:           time.Now,
	}
}

func (m *Memory) issue(acc memoryAccount) *models.Session {
	token := uuid.NewString()
	expiresAt := m.now().Add(memorySessionTTL)
	m.sessions[token] = memorySession{userID: acc.id, expiresAt: expiresAt}
	return &models.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(memorySessionTTL.Seconds()),
		ExpiresAt:   expiresAt,
		User:        &models.Identity{ID: acc.id, Email: acc.email},
	}
}

// SignIn implements services.IdentityProvider
func (m *Memory) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[strings.ToLower(email)]
	if !ok || !m.hasher.Check(acc.passwordHash, password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid login credentials")
	}
	return m.issue(acc), nil
}

// SignUp implements services.IdentityProvider
func (m *Memory) SignUp(_ context.Context, email, password string) (*models.Identity, *models.Session, error) {
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrIdentityRejected, err.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := m.accounts[key]; ok {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrIdentityRejected, "User already registered")
	}
	acc := memoryAccount{id: uuid.NewString(), email: key, passwordHash: hash}
	m.accounts[key] = acc

	session := m.issue(acc)
	return session.User, session, nil
}

// SignOut implements services.IdentityProvider
func (m *Memory) SignOut(_ context.Context, caller *models.Caller) error {
	m.mu.Lock()
	delete(m.sessions, caller.AccessToken)
	m.mu.Unlock()
	return nil
}

// ResolveCaller implements services.IdentityProvider
func (m *Memory) ResolveCaller(_ context.Context, accessToken string) (*models.Caller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[accessToken]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	if !m.now().Before(s.expiresAt) {
		return nil, apperrors.ErrTokenExpired
	}
	caller := &models.Caller{UserID: s.userID, AccessToken: accessToken}
	for _, acc := range m.accounts {
		if acc.id == s.userID {
			caller.Email = acc.email
			break
		}
	}
	return caller, nil
}

// DeleteIdentity implements services.IdentityProvider
func (m *Memory) DeleteIdentity(_ context.Context, identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, acc := range m.accounts {
		if acc.id == identityID {
			delete(m.accounts, key)
		}
	}
	for token, s := range m.sessions {
		if s.userID == identityID {
			delete(m.sessions, token)
		}
	}
	return nil
}

// CreateStudent implements services.StudentStore
func (m *Memory) CreateStudent(_ context.Context, caller *models.Caller, student models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Same rule the row-level policy enforces on the hosted service
	if caller == nil || student.ID != caller.UserID {
		return apperrors.NewCustomError(apperrors.ErrStorage, "new row violates row-level security policy for table \"students\"")
	}
	if _, ok := m.students[student.ID]; ok {
		return apperrors.NewCustomError(apperrors.ErrConflict, "duplicate key value violates unique constraint \"students_pkey\"")
	}
	student.CreatedAt = m.now().UTC()
	m.students[student.ID] = student
	return nil
}

// GetStudent implements services.StudentStore
func (m *Memory) GetStudent(_ context.Context, caller *models.Caller) (*models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[caller.UserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

// CreateConsultation implements services.ConsultationStore
func (m *Memory) CreateConsultation(_ context.Context, caller *models.Caller, c models.NewConsultation) (*models.Consultation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[caller.UserID]; !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrStorage, "insert or update on table \"consultations\" violates foreign key constraint")
	}
	now := m.now().UTC()
	row := models.Consultation{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Reason:    c.Reason,
		Datetime:  c.Datetime.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.consultations[row.ID] = row
	return &row, nil
}

// SetConsultationComplete implements services.ConsultationStore
func (m *Memory) SetConsultationComplete(_ context.Context, caller *models.Caller, id string, complete bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.consultations[id]
	if !ok || row.UserID != caller.UserID {
		return 0, nil
	}
	row.IsComplete = complete
	row.UpdatedAt = m.now().UTC()
	m.consultations[id] = row
	return 1, nil
}

// ListConsultations implements services.ConsultationStore
func (m *Memory) ListConsultations(_ context.Context, caller *models.Caller) ([]models.Consultation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Consultation{}
	for _, c := range m.consultations {
		if c.UserID == caller.UserID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Ping implements services.Backend
func (m *Memory) Ping(context.Context) error { return nil }

// Close implements services.Backend
func (m *Memory) Close() {}
