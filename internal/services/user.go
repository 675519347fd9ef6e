package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventmanager/internal/domain"
)

const (
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
	userNameMaxLength   = 250
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// UserServiceConfig carries the auth settings of the user service.
type UserServiceConfig struct {
	TokenExpiry    time.Duration
	AdminEmails    []string
	ContextTimeout time.Duration
}

type userService struct {
	userRepo      domain.UserRepository
	roleRepo      domain.RoleRepository
	loginCodeRepo domain.LoginCodeRepository
	codeHasher    domain.CodeHasher
	tokenIssuer   domain.TokenIssuer
	emailService  domain.EmailService
	adminEmails   map[string]struct{}
	cfg           UserServiceConfig
}

// NewUserService creates a UserService with the given repositories and auth ports.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, loginCodeRepo domain.LoginCodeRepository, codeHasher domain.CodeHasher, tokenIssuer domain.TokenIssuer, emailService domain.EmailService, cfg UserServiceConfig) domain.UserService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &userService{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		loginCodeRepo: loginCodeRepo,
		codeHasher:    codeHasher,
		tokenIssuer:   tokenIssuer,
		emailService:  emailService,
		adminEmails:   admins,
		cfg:           cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *userService) RequestLoginCode(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	codeHash, err := s.codeHasher.Hash(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("send login code email: %w", err)
		}
	}
	return nil
}

func (s *userService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return "", nil, domain.ErrInvalidEmail
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", nil, domain.ErrInvalidLoginCode
	}
	active, err := s.loginCodeRepo.ListActiveByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("list login codes: %w", err)
	}
	var matched *domain.LoginCode
	for _, lc := range active {
		if s.codeHasher.Compare(lc.CodeHash, code) == nil {
			matched = lc
			break
		}
	}
	if matched == nil {
		return "", nil, domain.ErrInvalidLoginCode
	}
	if err := s.loginCodeRepo.Delete(ctx, matched.ID); err != nil {
		return "", nil, fmt.Errorf("consume login code: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("get user: %w", err)
		}
		user = domain.NewUser(email, strings.Split(email, "@")[0], time.Now().UTC())
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("create user: %w", err)
		}
		if err := s.assignRole(ctx, user.ID, domain.RoleUser); err != nil {
			return "", nil, err
		}
	}
	if _, ok := s.adminEmails[email]; ok {
		if err := s.assignRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return "", nil, err
		}
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("load roles: %w", err)
	}
	roleCodes := make([]string, len(roles))
	for i, r := range roles {
		roleCodes[i] = r.Code
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, roleCodes, s.cfg.TokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *userService) assignRole(ctx context.Context, userID, code string) error {
	role, err := s.roleRepo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("get role %q: %w", code, err)
	}
	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		return fmt.Errorf("assign role %q: %w", code, err)
	}
	return nil
}

func generateLoginCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

// Create registers a user on behalf of an admin.
func (s *userService) Create(ctx context.Context, email, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > userNameMaxLength {
		return nil, domain.Validationf("name must be 1..%d characters", userNameMaxLength)
	}
	user := domain.NewUser(email, name, time.Now().UTC())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrapErr("create user", err)
	}
	if err := s.assignRole(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContextTimeout)
	defer cancel()

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return wrapErr("delete user", err)
	}
	return nil
}

func (s *userService) List(ctx context.Context, ids []string, params domain.PaginationParams) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContextTimeout)
	defer cancel()

	users, total, err := s.userRepo.List(ctx, ids, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}
