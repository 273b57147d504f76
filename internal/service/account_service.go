package service

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"habit-planner/internal/model"
	"habit-planner/internal/repository"
)

// AuthClient is the remote account backend.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*model.AuthResult, error)
	InsertProfile(ctx context.Context, session *model.Session, profile model.Profile) error
}

// SignUpInput is the registration form.
type SignUpInput struct {
	FirstName string
	LastName  string
	Age       string
	Gender    string
	Email     string
	Password  string
}

// AccountService signs users in against the backend and mirrors the
// account into local persistence.
type AccountService struct {
	auth AuthClient
	repo *repository.AccountRepository
	now  func() time.Time

	mu      sync.Mutex
	account model.LocalAccount
}

func NewAccountService(auth AuthClient, repo *repository.AccountRepository, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{auth: auth, repo: repo, now: now}
}

func (s *AccountService) Load(ctx context.Context) error {
	acc, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.account = acc
	s.mu.Unlock()
	return nil
}

func (s *AccountService) Current() model.LocalAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// EnsureRegistered returns the registration date, recording now on first use.
func (s *AccountService) EnsureRegistered(ctx context.Context) time.Time {
	s.mu.Lock()
	if !s.account.RegisteredAt.IsZero() {
		at := s.account.RegisteredAt
		s.mu.Unlock()
		return at
	}
	at := s.now().UTC()
	s.account.RegisteredAt = at
	s.mu.Unlock()

	if err := s.repo.SaveRegistrationDate(ctx, at); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyRegistrationDate, err)
	}
	return at
}

// SignUp creates the remote account and its profile row. A failed profile
// insert is logged and does not fail the sign-up. Backend errors are
// returned unchanged. Nothing is mirrored locally until SignIn.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*model.AuthResult, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" || strings.TrimSpace(in.Age) == "" || in.Gender == "" {
		return nil, ErrMissingProfile
	}
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}
	// An unreadable age is stored as null rather than blocking the sign-up.
	var age *int
	if n, err := strconv.Atoi(strings.TrimSpace(in.Age)); err == nil && n != 0 {
		age = &n
	}

	fullName := in.FirstName + " " + in.LastName
	res, err := s.auth.SignUp(ctx, in.Email, in.Password, map[string]any{
		"full_name":  fullName,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"age":        age,
		"gender":     in.Gender,
	})
	if err != nil {
		return nil, err
	}

	profile := model.Profile{
		ID:        res.User.ID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       age,
		Gender:    in.Gender,
	}
	if err := s.auth.InsertProfile(ctx, res.Session, profile); err != nil {
		log.Printf("[warn] create profile for %s: %v", in.Email, err)
	}

	return res, nil
}

// SignIn authenticates and mirrors name, e-mail and the logged-in flag.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (model.LocalAccount, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.LocalAccount{}, ErrMissingCredentials
	}
	res, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return model.LocalAccount{}, err
	}

	if res.User.Email != "" {
		email = res.User.Email
	}
	name := res.User.FullName()
	if name == "" {
		name = email
	}
	return s.remember(ctx, name, email), nil
}

// SignOut clears the local account mirror.
func (s *AccountService) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.account.Name = ""
	s.account.Email = ""
	s.account.LoggedIn = false
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyIsLoggedIn, err)
	}
}

func (s *AccountService) remember(ctx context.Context, name, email string) model.LocalAccount {
	s.mu.Lock()
	s.account.Name = name
	s.account.Email = email
	s.account.LoggedIn = true
	acc := s.account
	s.mu.Unlock()

	if err := s.repo.SaveSignIn(ctx, name, email); err != nil {
		log.Printf("[warn] persist %s: %v", model.KeyUserName, err)
	}
	return acc
}
