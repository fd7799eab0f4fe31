package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

type userRepositoryInMemory struct {
	mu         sync.RWMutex
	items      map[int64]domain.User
	byUsername map[string]int64
	nextID     int64
	now        func() time.Time
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{
		items:      make(map[int64]domain.User),
		byUsername: make(map[string]int64),
		nextID:     1,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *userRepositoryInMemory) Save(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserRequired
	}
	if strings.TrimSpace(user.Username) == "" {
		return domain.ErrUsernameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ownerID, taken := r.byUsername[user.Username]; taken && ownerID != user.ID {
		return domain.ErrUsernameTaken
	}

	now := r.now()
	stored := *user
	if user.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
		stored.CreatedAt = now
		if stored.Authorities == nil {
			stored.Authorities = []domain.Authority{}
		}
	} else {
		current, ok := r.items[user.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		stored.CreatedAt = current.CreatedAt
		if stored.Authorities == nil {
			stored.Authorities = current.Authorities
		}
		if current.Username != stored.Username {
			delete(r.byUsername, current.Username)
		}
	}
	stored.UpdatedAt = now
	stored.Authorities = domain.NormalizeAuthorities(stored.Authorities)

	r.items[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID

	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepositoryInMemory) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	user.Authorities = nil
	return user, nil
}

func (r *userRepositoryInMemory) GetUserWithAuthoritiesByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	user, found, err := r.lookup(ctx, username)
	if err != nil || !found {
		return domain.User{}, found, err
	}
	user.Authorities = domain.CloneAuthorities(user.Authorities)
	if user.Authorities == nil {
		user.Authorities = []domain.Authority{}
	}
	return user, true, nil
}

func (r *userRepositoryInMemory) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	user, found, err := r.lookup(ctx, username)
	if err != nil || !found {
		return domain.User{}, found, err
	}
	user.Authorities = nil
	return user, true, nil
}

func (r *userRepositoryInMemory) lookup(ctx context.Context, username string) (domain.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, false, nil
	}
	return r.items[id], true, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
