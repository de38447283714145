package auth

import (
	"sync"

	"github.com/ethanx94/chatty/internal/models"
)

type UserLookup func(id uint) (*models.User, error)
type GroupLookup func(id uint) (*models.Group, error)

// Loaders memoizes user and group lookups for the lifetime of one request.
// Nothing is cached across requests; the backing store stays authoritative.
type Loaders struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	groups    map[uint]*models.Group
	loadUser  UserLookup
	loadGroup GroupLookup
}

func NewLoaders(loadUser UserLookup, loadGroup GroupLookup) *Loaders {
	return &Loaders{
		users:     make(map[uint]*models.User),
		groups:    make(map[uint]*models.Group),
		loadUser:  loadUser,
		loadGroup: loadGroup,
	}
}

func (l *Loaders) User(id uint) (*models.User, error) {
	l.mu.Lock()
	if u, ok := l.users[id]; ok {
		l.mu.Unlock()
		return u, nil
	}
	l.mu.Unlock()

	u, err := l.loadUser(id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.users[id] = u
	l.mu.Unlock()
	return u, nil
}

func (l *Loaders) Group(id uint) (*models.Group, error) {
	l.mu.Lock()
	if g, ok := l.groups[id]; ok {
		l.mu.Unlock()
		return g, nil
	}
	l.mu.Unlock()

	g, err := l.loadGroup(id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.groups[id] = g
	l.mu.Unlock()
	return g, nil
}
