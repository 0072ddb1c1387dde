package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
	"github.com/sakif/yatube/internal/storage"
)

// =========================================================================
// FAKES
// =========================================================================
//
// memStore implements every repository interface in memory. It is enough
// to exercise the service rules; SQL behaviour is covered by the sqlite
// package and by integration_test.go.

type memStore struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*model.User
	groups   map[string]*model.Group
	posts    []*model.Post // insertion order
	comments []*model.Comment
	follows  map[[2]string]bool

	// failWith, when set, is returned by every write.
	failWith error
}

var (
	_ repository.UserRepository    = (*memStore)(nil)
	_ repository.GroupRepository   = (*memStore)(nil)
	_ repository.PostRepository    = (*memStore)(nil)
	_ repository.CommentRepository = (*memStore)(nil)
	_ repository.FollowRepository  = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*model.User{},
		groups:  map[string]*model.Group{},
		follows: map[[2]string]bool{},
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return apperror.Conflict("user", u.Username)
		}
	}
	u.ID = m.id("user")
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *memStore) UpsertGitHubUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	for _, existing := range m.users {
		if existing.GitHubID == u.GitHubID {
			*u = *existing
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	return m.CreateUser(ctx, u)
}

func (m *memStore) CreateGroup(_ context.Context, g *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.groups {
		if existing.Slug == g.Slug {
			return apperror.Conflict("group", g.Slug)
		}
	}
	g.ID = m.id("group")
	stored := *g
	m.groups[g.ID] = &stored
	return nil
}

func (m *memStore) GetGroupByID(_ context.Context, id string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, apperror.NotFound("group", id)
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) GetGroupBySlug(_ context.Context, slug string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("group", slug)
}

func (m *memStore) ListGroups(_ context.Context) ([]model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b model.Group) int {
		if a.Title < b.Title {
			return -1
		}
		if a.Title > b.Title {
			return 1
		}
		return 0
	})
	return out, nil
}

func (m *memStore) CreatePost(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p.ID = m.id("post")
	stored := *p
	m.posts = append(m.posts, &stored)
	return nil
}

func (m *memStore) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (m *memStore) UpdatePost(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.posts {
		if existing.ID == p.ID {
			existing.Text, existing.GroupID, existing.Image = p.Text, p.GroupID, p.Image
			return nil
		}
	}
	return apperror.NotFound("post", p.ID)
}

func (m *memStore) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = slices.Delete(m.posts, i, i+1)
			m.comments = slices.DeleteFunc(m.comments, func(c *model.Comment) bool { return c.PostID == id })
			return nil
		}
	}
	return apperror.NotFound("post", id)
}

func (m *memStore) matching(f repository.PostFilter) []model.Post {
	var out []model.Post
	for i := len(m.posts) - 1; i >= 0; i-- {
		p := m.posts[i]
		if f.GroupID != "" && p.GroupID != f.GroupID {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.FollowerID != "" && !m.follows[[2]string{f.FollowerID, p.AuthorID}] {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func (m *memStore) CountPosts(_ context.Context, f repository.PostFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

func (m *memStore) ListPosts(_ context.Context, f repository.PostFilter, opts repository.ListOptions) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(f)
	if opts.Offset >= len(all) {
		return []model.Post{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (m *memStore) CreateComment(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	c.ID = m.id("comment")
	stored := *c
	m.comments = append(m.comments, &stored)
	return nil
}

func (m *memStore) ListCommentsByPost(_ context.Context, postID string) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) Follow(_ context.Context, userID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	key := [2]string{userID, authorID}
	if m.follows[key] {
		return false, nil
	}
	m.follows[key] = true
	return true, nil
}

func (m *memStore) Unfollow(_ context.Context, userID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{userID, authorID}
	if !m.follows[key] {
		return false, nil
	}
	delete(m.follows, key)
	return true, nil
}

func (m *memStore) IsFollowing(_ context.Context, userID, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.follows[[2]string{userID, authorID}], nil
}

// fakeImages records saved and deleted keys.
type fakeImages struct {
	saved   []string
	deleted []string
	n       int
	saveErr error
}

var _ storage.ImageStore = (*fakeImages)(nil)

func (f *fakeImages) Save(_ context.Context, folder string, u storage.Upload) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.n++
	key := fmt.Sprintf("%s/img-%d%s", folder, f.n, u.Extension)
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) URL(key string) string { return "/media/" + key }

// =========================================================================
// HELPERS
// =========================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustUser(t interface{ Fatalf(string, ...any) }, m *memStore, username string) *model.User {
	u := &model.User{Username: username}
	if err := m.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

func mustGroup(t interface{ Fatalf(string, ...any) }, m *memStore, slug string) *model.Group {
	g := &model.Group{Title: "Group " + slug, Slug: slug}
	if err := m.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("creating group %s: %v", slug, err)
	}
	return g
}

func mustPost(t interface{ Fatalf(string, ...any) }, m *memStore, author *model.User, groupID, text string) *model.Post {
	p := &model.Post{AuthorID: author.ID, GroupID: groupID, Text: text}
	if err := m.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("creating post: %v", err)
	}
	return p
}

func gifUpload() *storage.Upload {
	return &storage.Upload{Filename: "small.gif", ContentType: "image/gif", Extension: ".gif", Data: []byte("GIF89a")}
}
