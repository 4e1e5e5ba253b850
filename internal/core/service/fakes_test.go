package service

import (
	"context"
	"sync"

	"github.com/medcare/health-portal/internal/core/domain"
)

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.RoleKind(nil), u.Roles...)
	return &clone
}

// memUsers is an in-memory ports.UserRepository. Setting err makes every call fail.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
	calls int
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = cloneUser(u)
	}
	return m
}

func (m *memUsers) FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if !domain.ValidNationalID(nationalID) {
		return nil, domain.ErrInvalidNationalID
	}
	for _, u := range m.users {
		if u.NationalID == nationalID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.NationalID == user.NationalID || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *memUsers) AddRole(_ context.Context, id string, kind domain.RoleKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !u.HasRole(kind) {
		u.Roles = append(u.Roles, kind)
	}
	return nil
}

func (m *memUsers) RemoveRole(_ context.Context, id string, kind domain.RoleKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r != kind {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	return nil
}

func (m *memUsers) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// memAdmins is an in-memory ports.AdminRepository.
type memAdmins struct {
	ids   map[string]bool
	err   error
	calls int
}

func newMemAdmins(ids ...string) *memAdmins {
	m := &memAdmins{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func (m *memAdmins) FindByID(ctx context.Context, id string) (*domain.Admin, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if !m.ids[id] {
		return nil, domain.ErrAdminNotFound
	}
	return &domain.Admin{ID: id}, nil
}

// memRoles is an in-memory ports.RoleRepository for one kind.
type memRoles struct {
	mu      sync.Mutex
	kind    domain.RoleKind
	records map[string]*domain.RoleRecord
}

func newMemRoles(kind domain.RoleKind) *memRoles {
	return &memRoles{kind: kind, records: make(map[string]*domain.RoleRecord)}
}

func (m *memRoles) Kind() domain.RoleKind { return m.kind }

func (m *memRoles) Create(_ context.Context, rec *domain.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.UserID]; ok {
		return domain.ErrRoleExists
	}
	clone := *rec
	m.records[rec.UserID] = &clone
	return nil
}

func (m *memRoles) FindByUserID(_ context.Context, userID string) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *memRoles) ExistsByUserID(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[userID]
	return ok, nil
}

func (m *memRoles) DeleteByUserID(_ context.Context, userID string) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	delete(m.records, userID)
	return rec, nil
}

func (m *memRoles) UpdateStatus(_ context.Context, userID string, status domain.RoleStatus, active bool) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	rec.Status, rec.Active = status, active
	clone := *rec
	return &clone, nil
}

// memRevocation is an in-memory ports.RevocationStore.
type memRevocation struct {
	revoked map[string]bool
}

func (m *memRevocation) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return m.revoked[tokenID], nil
}

func (m *memRevocation) Revoke(_ context.Context, token *domain.IdentityToken) error {
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[token.TokenID] = true
	return nil
}
