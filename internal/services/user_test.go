package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/internal/domain"
)

// plainHasher stores codes as "hashed:<code>".
type plainHasher struct{}

func (plainHasher) Hash(code string) (string, error) { return "hashed:" + code, nil }

func (plainHasher) Compare(hash, code string) error {
	if hash != "hashed:"+code {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	userID string
	roles  []string
}

func (f *fakeIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.userID = userID
	f.roles = roles
	return "token-" + userID, nil
}

type fakeLoginCodeRepo struct {
	codes   []*domain.LoginCode
	deleted []string
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.codes = append(f.codes, &domain.LoginCode{ID: fmt.Sprintf("lc-%d", len(f.codes)+1), Email: email, CodeHash: codeHash, ExpiresAt: expiresAt})
	return nil
}

func (f *fakeLoginCodeRepo) ListActiveByEmail(ctx context.Context, email string) ([]*domain.LoginCode, error) {
	var out []*domain.LoginCode
	for _, lc := range f.codes {
		if lc.Email == email && lc.ExpiresAt.After(time.Now()) && !f.isDeleted(lc.ID) {
			out = append(out, lc)
		}
	}
	return out, nil
}

func (f *fakeLoginCodeRepo) isDeleted(id string) bool {
	for _, d := range f.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func (f *fakeLoginCodeRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type userFixture struct {
	users  *fakeUserRepo
	codes  *fakeLoginCodeRepo
	issuer *fakeIssuer
	emails *fakeEmailService
	svc    domain.UserService
}

func newUserFixture(adminEmails ...string) *userFixture {
	f := &userFixture{
		users:  newFakeUserRepo(),
		codes:  &fakeLoginCodeRepo{},
		issuer: &fakeIssuer{},
		emails: &fakeEmailService{},
	}
	f.svc = NewUserService(f.users, &fakeRoleRepo{users: f.users}, f.codes, plainHasher{}, f.issuer, f.emails, UserServiceConfig{
		TokenExpiry:    time.Hour,
		AdminEmails:    adminEmails,
		ContextTimeout: 5 * time.Second,
	})
	return f
}

func TestUserService_RequestLoginCode(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hashed code and mails plain code", func(t *testing.T) {
		f := newUserFixture()
		require.NoError(t, f.svc.RequestLoginCode(ctx, " Ann@Example.com "))

		require.Len(t, f.emails.loginCodes, 1)
		sent := f.emails.loginCodes[0]
		assert.Equal(t, "ann@example.com", sent.Email)
		assert.Len(t, sent.Code, 6)
		require.Len(t, f.codes.codes, 1)
		assert.Equal(t, "hashed:"+sent.Code, f.codes.codes[0].CodeHash)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newUserFixture()
		require.ErrorIs(t, f.svc.RequestLoginCode(ctx, "not-an-email"), domain.ErrInvalidEmail)
		assert.Empty(t, f.codes.codes)
	})
}

func TestUserService_VerifyLoginCode(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, f *userFixture, email string) (string, *domain.User) {
		t.Helper()
		require.NoError(t, f.svc.RequestLoginCode(ctx, email))
		code := f.emails.loginCodes[len(f.emails.loginCodes)-1].Code
		token, user, err := f.svc.VerifyLoginCode(ctx, email, code)
		require.NoError(t, err)
		return token, user
	}

	t.Run("first login creates user with user role", func(t *testing.T) {
		f := newUserFixture()
		token, user := login(t, f, "ann@example.com")

		assert.Equal(t, "token-"+user.ID, token)
		assert.Equal(t, "ann", user.Name)
		assert.Equal(t, []string{domain.RoleUser}, f.issuer.roles)
		assert.Equal(t, []string{"lc-1"}, f.codes.deleted)
	})

	t.Run("second login reuses user", func(t *testing.T) {
		f := newUserFixture()
		_, first := login(t, f, "ann@example.com")
		_, second := login(t, f, "ann@example.com")
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.users.byID, 1)
	})

	t.Run("configured admin gets admin role", func(t *testing.T) {
		f := newUserFixture("Boss@Example.com")
		login(t, f, "boss@example.com")
		assert.ElementsMatch(t, []string{domain.RoleUser, domain.RoleAdmin}, f.issuer.roles)
	})

	t.Run("code is single use", func(t *testing.T) {
		f := newUserFixture()
		require.NoError(t, f.svc.RequestLoginCode(ctx, "ann@example.com"))
		code := f.emails.loginCodes[0].Code

		_, _, err := f.svc.VerifyLoginCode(ctx, "ann@example.com", code)
		require.NoError(t, err)
		_, _, err = f.svc.VerifyLoginCode(ctx, "ann@example.com", code)
		require.ErrorIs(t, err, domain.ErrInvalidLoginCode)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newUserFixture()
		require.NoError(t, f.svc.RequestLoginCode(ctx, "ann@example.com"))
		code := f.emails.loginCodes[0].Code
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}

		_, _, err := f.svc.VerifyLoginCode(ctx, "ann@example.com", wrong)
		require.ErrorIs(t, err, domain.ErrInvalidLoginCode)
		assert.Empty(t, f.users.byID)
	})

	t.Run("malformed code", func(t *testing.T) {
		f := newUserFixture()
		_, _, err := f.svc.VerifyLoginCode(ctx, "ann@example.com", "12ab")
		require.ErrorIs(t, err, domain.ErrInvalidLoginCode)
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		userName string
		wantErr  error
	}{
		{name: "valid", email: "ann@example.com", userName: "Ann"},
		{name: "bad email", email: "ann", userName: "Ann", wantErr: domain.ErrInvalidEmail},
		{name: "blank name", email: "ann@example.com", userName: "  ", wantErr: domain.ErrValidation},
		{name: "long name", email: "ann@example.com", userName: strings.Repeat("a", 251), wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture()
			u, err := f.svc.Create(ctx, tt.email, tt.userName)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, u.Email)
			assert.Equal(t, []string{"role-" + domain.RoleUser}, f.users.roles[u.ID])
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Create(ctx, "ann@example.com", "Ann")
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, "ANN@example.com", "Ann again")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	u, err := f.svc.Create(ctx, "ann@example.com", "Ann")
	require.NoError(t, err)

	users, total, err := f.svc.List(ctx, nil, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, u.ID, users[0].ID)

	require.NoError(t, f.svc.Delete(ctx, u.ID))
	require.ErrorIs(t, f.svc.Delete(ctx, u.ID), domain.ErrUserNotFound)
}
