// Package memory keeps users, posts and revoked tokens in process memory.
// Everything is lost on restart.
package memory

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/itchan-dev/bbs/shared/domain"
	"github.com/itchan-dev/bbs/shared/errors"
)

var (
	errUserExists   = &errors.ErrorWithStatusCode{Message: "id already taken", StatusCode: http.StatusConflict}
	errUserNotFound = &errors.ErrorWithStatusCode{Message: "user not found", StatusCode: http.StatusNotFound}
	errPostNotFound = &errors.ErrorWithStatusCode{Message: "post not found", StatusCode: http.StatusNotFound}
)

type Storage struct {
	mu      sync.RWMutex
	users   map[domain.UserId]domain.User
	posts   map[domain.BoardIdx]domain.BoardItem
	lastIdx domain.BoardIdx
	revoked map[string]time.Time // jti -> token expiry
	now     func() time.Time
}

func New() *Storage {
	return &Storage{
		users:   make(map[domain.UserId]domain.User),
		posts:   make(map[domain.BoardIdx]domain.BoardItem),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Users

func (s *Storage) SaveUser(user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Id]; ok {
		return errUserExists
	}
	s.users[user.Id] = user
	return nil
}

func (s *Storage) User(id domain.UserId) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, errUserNotFound
	}
	return user, nil
}

// Posts

// CreatePost assigns the next idx and timestamps.
func (s *Storage) CreatePost(item domain.BoardItem) (domain.BoardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastIdx++
	now := s.now()
	item.Idx = s.lastIdx
	item.CreatedAt = domain.NewTimestamp(now)
	item.UpdatedAt = domain.NewTimestamp(now)
	s.posts[item.Idx] = item
	return item, nil
}

func (s *Storage) Post(idx domain.BoardIdx) (domain.BoardItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.posts[idx]
	if !ok {
		return domain.BoardItem{}, errPostNotFound
	}
	return item, nil
}

func (s *Storage) UpdatePost(idx domain.BoardIdx, title domain.BoardTitle, content domain.BoardContent) (domain.BoardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.posts[idx]
	if !ok {
		return domain.BoardItem{}, errPostNotFound
	}
	item.Title = title
	item.Content = content
	item.UpdatedAt = domain.NewTimestamp(s.now())
	s.posts[idx] = item
	return item, nil
}

func (s *Storage) DeletePost(idx domain.BoardIdx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[idx]; !ok {
		return errPostNotFound
	}
	delete(s.posts, idx)
	return nil
}

// Posts returns page (1-based) of size posts, newest first, and the total
// number of posts.
func (s *Storage) Posts(page, size int) ([]domain.BoardItem, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.BoardItem, 0, len(s.posts))
	for _, item := range s.posts {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Idx > all[j].Idx })

	total := len(all)
	if page < 1 || size < 1 || page-1 >= domain.TotalPagesFor(total, size) {
		return []domain.BoardItem{}, total, nil
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return all[start:end], total, nil
}

// Revoked tokens

// RevokeToken marks jti unusable until expiresAt. Expired entries are pruned
// on every call.
func (s *Storage) RevokeToken(jti string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = expiresAt
}

func (s *Storage) IsRevoked(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.revoked[jti]
	return ok
}
