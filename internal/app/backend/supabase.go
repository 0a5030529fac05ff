package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/supabase"
)

const (
	tableStudents      = "students"
	tableConsultations = "consultations"
)

// Supabase is the hosted backend: GoTrue identities and PostgREST tables
// queried with the caller's token so row-level security applies.
type Supabase struct {
	client *supabase.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewSupabase wraps client
func NewSupabase(client *supabase.Client, logger zerolog.Logger) *Supabase {
	return &Supabase{client: client, logger: logger, now: time.Now}
}

type studentRow struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// SignIn implements services.IdentityProvider
func (b *Supabase) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := b.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, classify(err, apperrors.ErrInvalidCredentials)
	}
	return b.toSession(s), nil
}

// SignUp implements services.IdentityProvider
func (b *Supabase) SignUp(ctx context.Context, email, password string) (*models.Identity, *models.Session, error) {
	user, s, err := b.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, nil, classify(err, apperrors.ErrIdentityRejected)
	}
	if user == nil {
		return nil, nil, nil
	}

	identity := &models.Identity{ID: user.ID, Email: user.Email}
	if s == nil {
		return identity, nil, nil
	}
	return identity, b.toSession(s), nil
}

// SignOut implements services.IdentityProvider
func (b *Supabase) SignOut(ctx context.Context, caller *models.Caller) error {
	return classify(b.client.SignOut(ctx, caller.AccessToken), apperrors.ErrTokenInvalid)
}

// ResolveCaller verifies locally when the JWT secret is configured and asks
// GoTrue otherwise.
func (b *Supabase) ResolveCaller(ctx context.Context, accessToken string) (*models.Caller, error) {
	var (
		user *supabase.User
		err  error
	)
	if b.client.CanVerifyLocally() {
		user, err = b.client.VerifyToken(accessToken)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
		}
	} else {
		user, err = b.client.GetUser(ctx, accessToken)
		var apiErr *supabase.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return nil, apperrors.ErrTokenInvalid
		}
		if err != nil {
			return nil, classify(err, apperrors.ErrTokenInvalid)
		}
	}

	return &models.Caller{UserID: user.ID, Email: user.Email, AccessToken: accessToken}, nil
}

// DeleteIdentity needs the service-role key
func (b *Supabase) DeleteIdentity(ctx context.Context, identityID string) error {
	err := b.client.AdminDeleteUser(ctx, identityID)
	if errors.Is(err, supabase.ErrNoServiceKey) {
		return apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "service role key not configured")
	}
	return classify(err, apperrors.ErrStorage)
}

// CreateStudent implements services.StudentStore
func (b *Supabase) CreateStudent(ctx context.Context, caller *models.Caller, student models.Student) error {
	if caller == nil {
		return apperrors.ErrUnauthorized
	}
	row := studentRow{ID: caller.UserID, FirstName: student.FirstName, LastName: student.LastName, Phone: student.Phone}
	err := b.client.From(tableStudents).As(caller.AccessToken).Insert(ctx, row, nil)
	return classify(err, apperrors.ErrStorage)
}

// GetStudent implements services.StudentStore
func (b *Supabase) GetStudent(ctx context.Context, caller *models.Caller) (*models.Student, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}
	var s models.Student
	err := b.client.From(tableStudents).As(caller.AccessToken).
		Select("*").
		Eq("id", caller.UserID).
		Single(ctx, &s)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, classify(err, apperrors.ErrStorage)
	}
	return &s, nil
}

// CreateConsultation implements services.ConsultationStore
func (b *Supabase) CreateConsultation(ctx context.Context, caller *models.Caller, c models.NewConsultation) (*models.Consultation, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}
	c.UserID = caller.UserID

	var rows []models.Consultation
	if err := b.client.From(tableConsultations).As(caller.AccessToken).Insert(ctx, c, &rows); err != nil {
		return nil, classify(err, apperrors.ErrStorage)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrStorage, "insert returned no row")
	}
	return &rows[0], nil
}

// SetConsultationComplete implements services.ConsultationStore
func (b *Supabase) SetConsultationComplete(ctx context.Context, caller *models.Caller, id string, complete bool) (int64, error) {
	if caller == nil {
		return 0, apperrors.ErrUnauthorized
	}
	patch := map[string]interface{}{
		"is_complete": complete,
		"updated_at":  b.now().UTC().Format(time.RFC3339Nano),
	}
	n, err := b.client.From(tableConsultations).As(caller.AccessToken).
		Eq("id", id).
		Eq("user_id", caller.UserID).
		Update(ctx, patch)
	if err != nil {
		return 0, classify(err, apperrors.ErrStorage)
	}
	return n, nil
}

// ListConsultations implements services.ConsultationStore
func (b *Supabase) ListConsultations(ctx context.Context, caller *models.Caller) ([]models.Consultation, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}
	list := []models.Consultation{}
	err := b.client.From(tableConsultations).As(caller.AccessToken).
		Select("*").
		Eq("user_id", caller.UserID).
		Order("datetime", true).
		Execute(ctx, &list)
	if err != nil {
		return nil, classify(err, apperrors.ErrStorage)
	}
	return list, nil
}

// Ping checks GoTrue health
func (b *Supabase) Ping(ctx context.Context) error {
	return b.client.Health(ctx)
}

// Close is a no-op; the HTTP client holds no resources worth releasing
func (b *Supabase) Close() {}

func (b *Supabase) toSession(s *supabase.Session) *models.Session {
	return &models.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.Expiry(b.now()),
		User:         &models.Identity{ID: s.User.ID, Email: s.User.Email},
	}
}

// classify maps a service error onto class, keeping the service's message.
// Unavailability and other non-API errors pass through.
func classify(err error, class error) error {
	if err == nil {
		return nil
	}
	var apiErr *supabase.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Code == "23505" {
		class = apperrors.ErrConflict
	}
	return apperrors.NewCustomError(class, apiErr.Message).WithCode(apiErr.Code)
}
