// Package forum implements the community discussion board.
package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const (
	featureForum = "forum-posts"

	// communityScope pins posts to one shared collection; the forum is
	// portal-wide, not per-user.
	communityScope = "community"
)

var (
	errMissingStore   = errors.New("store is required")
	errMissingTitle   = errors.New("title is required")
	errMissingContent = errors.New("content is required")
	errReplyNotFound  = errors.New("reply not found")

	noOpLogger = zap.NewNop()
)

const (
	opServiceNew = "forum.service.new"
	opCreate     = "forum.create_post"
	opReply      = "forum.add_reply"
)

// ServiceConfig describes the dependencies of the forum service.
type ServiceConfig struct {
	Store      *store.Store
	Notifier   *notify.Service
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns the shared post collection and its like/reply counters.
type Service struct {
	posts    *store.Collection[Post]
	notifier *notify.Service
	clock    func() time.Time
	ids      store.IDProvider
	logger   *zap.Logger
}

// NewService constructs the forum service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ids := cfg.IDProvider
	if ids == nil {
		ids = store.NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	posts, err := store.NewCollection(store.CollectionConfig[Post]{
		Store:       cfg.Store,
		Feature:     featureForum,
		SharedOwner: communityScope,
		Clock:       clock,
		IDProvider:  ids,
		Logger:      logger,
		Stamp: func(entity *Post, id string, now time.Time) {
			entity.ID = id
			entity.CreatedAt = now
			entity.UpdatedAt = now
			entity.Likes = 0
			entity.Replies = []Reply{}
		},
		ID: func(entity Post) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		posts:    posts,
		notifier: cfg.Notifier,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.posts.List(ctx, communityScope)
}

// Get returns a single post.
func (s *Service) Get(ctx context.Context, postID string) (Post, error) {
	return s.posts.Get(ctx, communityScope, postID)
}

// CreateRequest carries the author-supplied post fields.
type CreateRequest struct {
	UserID   string
	UserName string
	Title    string
	Content  string
	Language string
	Tags     []string
}

// Create publishes a new post with zero likes and no replies.
func (s *Service) Create(ctx context.Context, request CreateRequest) (Post, error) {
	if strings.TrimSpace(request.Title) == "" {
		return Post{}, svcerr.New(opCreate, "missing_title", errMissingTitle)
	}
	if strings.TrimSpace(request.Content) == "" {
		return Post{}, svcerr.New(opCreate, "missing_content", errMissingContent)
	}
	tags := request.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.posts.Add(ctx, communityScope, Post{
		UserID:   request.UserID,
		UserName: request.UserName,
		Title:    strings.TrimSpace(request.Title),
		Content:  request.Content,
		Language: request.Language,
		Tags:     tags,
	})
}

// ReplyRequest carries the fields of a threaded answer.
type ReplyRequest struct {
	UserID   string
	UserName string
	Content  string
}

// AddReply appends a reply, bumps the post's update time, and notifies the
// post author unless they replied to themselves.
func (s *Service) AddReply(ctx context.Context, postID string, request ReplyRequest) (Post, error) {
	if strings.TrimSpace(request.Content) == "" {
		return Post{}, svcerr.New(opReply, "missing_content", errMissingContent)
	}
	replyID, err := s.ids.NewID()
	if err != nil {
		return Post{}, svcerr.New(opReply, "id_generation_failed", err)
	}

	now := s.clock().UTC()
	updated, err := s.posts.Update(ctx, communityScope, postID, func(post *Post) error {
		post.Replies = append(post.Replies, Reply{
			ID:        replyID,
			UserID:    request.UserID,
			UserName:  request.UserName,
			Content:   request.Content,
			CreatedAt: now,
		})
		post.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Post{}, err
	}

	if s.notifier != nil && updated.UserID != request.UserID {
		_, err := s.notifier.Publish(ctx, updated.UserID, notify.Notification{
			Type:     notify.TypeForum,
			Title:    "New Reply",
			Message:  fmt.Sprintf("Someone replied to your post: %q", updated.Title),
			Priority: notify.PriorityLow,
			Icon:     "💬",
		})
		if err != nil {
			s.logger.Warn("forum reply notification failed",
				zap.String("post_id", postID),
				zap.Error(err))
		}
	}
	return updated, nil
}

// LikePost increments the post's like counter. Likes only ever grow.
func (s *Service) LikePost(ctx context.Context, postID string) (Post, error) {
	return s.posts.Update(ctx, communityScope, postID, func(post *Post) error {
		post.Likes++
		return nil
	})
}

// LikeReply increments one reply's like counter.
func (s *Service) LikeReply(ctx context.Context, postID, replyID string) (Post, error) {
	return s.posts.Update(ctx, communityScope, postID, func(post *Post) error {
		for i := range post.Replies {
			if post.Replies[i].ID == replyID {
				post.Replies[i].Likes++
				return nil
			}
		}
		return errReplyNotFound
	})
}
