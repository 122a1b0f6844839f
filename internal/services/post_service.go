package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// PostService serves the read-only articles shown on the learn screen.
type PostService struct {
	store store.PostStore
}

func NewPostService(s store.PostStore) *PostService {
	return &PostService{store: s}
}

// EnsureSeeded stores the default posts when the store is empty and returns
// how many were added.
func (s *PostService) EnsureSeeded(ctx context.Context) (int, error) {
	existing, err := s.store.ListPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	defaults := store.DefaultPosts()
	for _, p := range defaults {
		if err := s.store.AddPost(ctx, p); err != nil {
			return 0, fmt.Errorf("seed post %q: %w", p.Title, err)
		}
	}
	slog.InfoContext(ctx, "Seeded default posts", "count", len(defaults))
	return len(defaults), nil
}

func (s *PostService) List(ctx context.Context) ([]core.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (core.Post, error) {
	return s.store.GetPost(ctx, id)
}
