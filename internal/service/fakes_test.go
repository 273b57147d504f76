package service

import (
	"context"
	"errors"
	"sync"

	"habit-planner/internal/model"
)

var errStorage = errors.New("disk full")

type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errStorage
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errStorage
	}
	delete(m.data, key)
	return nil
}

type fakeAuth struct {
	signUpErr  error
	signInErr  error
	profileErr error
	session    bool
	user       model.AccountUser

	metadata map[string]any
	profiles []model.Profile
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string, metadata map[string]any) (*model.AuthResult, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	f.metadata = metadata
	res := &model.AuthResult{User: model.AccountUser{ID: "user-1", Email: email, Metadata: metadata}}
	if f.session {
		res.Session = &model.Session{AccessToken: "token", User: res.User}
	}
	return res, nil
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (*model.AuthResult, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	user := f.user
	if user.Email == "" {
		user.Email = email
	}
	return &model.AuthResult{User: user, Session: &model.Session{AccessToken: "token", User: user}}, nil
}

func (f *fakeAuth) InsertProfile(_ context.Context, _ *model.Session, profile model.Profile) error {
	f.profiles = append(f.profiles, profile)
	return f.profileErr
}
