package repotest

import (
	"context"
	"sync"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"
)

type UserRepo struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64
}

func NewUserRepo(users ...model.User) *UserRepo {
	r := &UserRepo{users: map[int64]model.User{}}
	for _, u := range users {
		u := u
		_ = r.Create(context.Background(), &u)
	}
	return r
}

func (r *UserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repo.ErrDuplicate
		}
	}
	r.nextID++
	if user.ID == 0 {
		user.ID = r.nextID
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, userID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

type AuditLogRepo struct {
	mu   sync.Mutex
	Logs []model.AuditLog
}

func (r *AuditLogRepo) Create(_ context.Context, log model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.Logs) + 1)
	r.Logs = append(r.Logs, log)
	return nil
}

// 新しい順。ActionとResourceIDだけ見る
func (r *AuditLogRepo) List(_ context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.AuditLog{}
	for i := len(r.Logs) - 1; i >= 0; i-- {
		l := r.Logs[i]
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
