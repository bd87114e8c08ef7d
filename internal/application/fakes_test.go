package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
)

// In-memory repository fakes mirroring the Postgres implementations,
// including the compare-and-delete edge semantics.

type memUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	names map[string]string // user_name -> id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}, names: map[string]string{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[u.UserName]; ok {
		return repository.ErrDuplicateUser
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	r.names[u.UserName] = u.ID
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUserName(_ context.Context, name string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.names[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Email = u.Email
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.Gender = u.Gender
	cur.Age = u.Age
	cur.Address = u.Address
	cur.Presentation = u.Presentation
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) UpdatePhoto(_ context.Context, id, photoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Photo = photoURL
	return nil
}

func (r *memUserRepo) SearchByName(_ context.Context, query string, limit int) ([]entity.UserRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	refs := make([]entity.UserRef, 0)
	for name, id := range r.names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			refs = append(refs, entity.UserRef{ID: id, UserName: name})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].UserName < refs[j].UserName })
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

func (r *memUserRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

type edgeKey struct{ from, to string }

type memEdgeRepo struct {
	mu      sync.Mutex
	users   *memUserRepo
	pending map[edgeKey]int64
	friends map[edgeKey]int64
	seq     int64
}

func newMemEdgeRepo(users *memUserRepo) *memEdgeRepo {
	return &memEdgeRepo{users: users, pending: map[edgeKey]int64{}, friends: map[edgeKey]int64{}}
}

func (r *memEdgeRepo) next() int64 {
	r.seq++
	return r.seq
}

func (r *memEdgeRepo) CreateRequest(_ context.Context, requesterID, recipientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := entity.CanonicalPair(requesterID, recipientID)
	if _, ok := r.friends[edgeKey{a, b}]; ok {
		return false, repository.ErrDuplicateEdge
	}
	if _, ok := r.pending[edgeKey{recipientID, requesterID}]; ok {
		delete(r.pending, edgeKey{recipientID, requesterID})
		r.friends[edgeKey{a, b}] = r.next()
		return true, nil
	}
	if _, ok := r.pending[edgeKey{requesterID, recipientID}]; ok {
		return false, repository.ErrDuplicateEdge
	}
	r.pending[edgeKey{requesterID, recipientID}] = r.next()
	return false, nil
}

func (r *memEdgeRepo) Accept(_ context.Context, userID, requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[edgeKey{requesterID, userID}]; !ok {
		return repository.ErrEdgeNotFound
	}
	delete(r.pending, edgeKey{requesterID, userID})
	delete(r.pending, edgeKey{userID, requesterID})
	a, b := entity.CanonicalPair(userID, requesterID)
	r.friends[edgeKey{a, b}] = r.next()
	return nil
}

func (r *memEdgeRepo) Reject(_ context.Context, userID, requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[edgeKey{requesterID, userID}]; !ok {
		return repository.ErrEdgeNotFound
	}
	delete(r.pending, edgeKey{requesterID, userID})
	return nil
}

type refRow struct {
	id  string
	seq int64
}

func (r *memEdgeRepo) Pending(ctx context.Context, userID string) ([]entity.UserRef, error) {
	r.mu.Lock()
	rows := make([]refRow, 0)
	for k, seq := range r.pending {
		if k.to == userID {
			rows = append(rows, refRow{k.from, seq})
		}
	}
	r.mu.Unlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return r.resolve(ctx, rows)
}

func (r *memEdgeRepo) Friends(ctx context.Context, userID string) ([]entity.UserRef, error) {
	r.mu.Lock()
	rows := make([]refRow, 0)
	for k, seq := range r.friends {
		if k.from == userID {
			rows = append(rows, refRow{k.to, seq})
		} else if k.to == userID {
			rows = append(rows, refRow{k.from, seq})
		}
	}
	r.mu.Unlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return r.resolve(ctx, rows)
}

func (r *memEdgeRepo) resolve(ctx context.Context, rows []refRow) ([]entity.UserRef, error) {
	refs := make([]entity.UserRef, 0, len(rows))
	for _, row := range rows {
		u, err := r.users.GetByID(ctx, row.id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, entity.UserRef{ID: u.ID, UserName: u.UserName})
	}
	return refs, nil
}

func (r *memEdgeRepo) FriendIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0)
	for k := range r.friends {
		if k.from == userID {
			ids = append(ids, k.to)
		} else if k.to == userID {
			ids = append(ids, k.from)
		}
	}
	return ids, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts []entity.Post
	seq   int64
}

func newMemPostRepo() *memPostRepo { return &memPostRepo{} }

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = r.seq
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, *p)
	return nil
}

func (r *memPostRepo) ByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error) {
	return r.ByAuthors(ctx, []string{authorID}, limit)
}

func (r *memPostRepo) ByAuthors(_ context.Context, authorIDs []string, limit int) ([]entity.Post, error) {
	allowed := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	r.mu.Lock()
	out := make([]entity.Post, 0)
	for _, p := range r.posts {
		if allowed[p.AuthorID] {
			out = append(out, p)
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ repository.UserRepository         = (*memUserRepo)(nil)
	_ repository.RelationshipRepository = (*memEdgeRepo)(nil)
	_ repository.PostRepository         = (*memPostRepo)(nil)
)
