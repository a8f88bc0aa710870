package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/mq"
	"github.com/prometheusfi/prometheus/pkg/objectstore"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

type PostService struct {
	Store     store.Store
	Media     objectstore.Store
	Publisher mq.Publisher
}

// NewPost is what an author submits. Media names a file previously
// uploaded to the author's staging area; empty means no media.
type NewPost struct {
	Body       string
	CompanyID  string
	Media      string
	Audience   domain.Audience
	Categories []domain.PostCategory
	MentionIDs []string
}

// PostCreatedEvent is published after a post is stored and its media
// attached.
type PostCreatedEvent struct {
	PostID     string   `json:"postId"`
	AuthorID   string   `json:"authorId"`
	Audience   string   `json:"audience"`
	MentionIDs []string `json:"mentionIds,omitempty"`
}

// Feed returns the posts the viewer may read, newest first.
func (s *PostService) Feed(ctx context.Context, viewer domain.User, categories []domain.PostCategory, roleFilter domain.PostRoleFilter) ([]domain.Post, error) {
	if roleFilter == "" {
		roleFilter = domain.RoleFilterEveryone
	}
	return s.Store.Posts().FindPosts(ctx, domain.NewPostFilter(viewer, categories, roleFilter))
}

func (s *PostService) Get(ctx context.Context, viewer domain.User, postID string) (domain.Post, error) {
	p, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	if !p.Audience.VisibleTo(viewer.Accreditation.ForAudience()) {
		return domain.Post{}, ErrPostNotVisible
	}
	return p, nil
}

// Create stores a post with its mention notifications in one transaction,
// then moves the staged media under the post. A failed move removes the
// post again.
func (s *PostService) Create(ctx context.Context, viewer domain.User, in NewPost) (domain.Post, error) {
	log := slogx.FromContext(ctx)

	audience := in.Audience.Normalize()
	if !audience.VisibleTo(viewer.Accreditation.ForAudience()) {
		return domain.Post{}, ErrAudienceTooHigh
	}
	if in.CompanyID != "" {
		if _, err := s.Store.Companies().GetCompanyByID(ctx, in.CompanyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Post{}, ErrCompanyNotFound
			}
			return domain.Post{}, err
		}
	}

	mentions, err := s.mentionable(ctx, viewer, in.MentionIDs)
	if err != nil {
		return domain.Post{}, err
	}

	p := domain.Post{
		ID:         idx.New().String(),
		UserID:     viewer.ID,
		CompanyID:  in.CompanyID,
		Body:       in.Body,
		Audience:   audience,
		Categories: slices.Compact(slices.Sorted(slices.Values(in.Categories))),
		MentionIDs: mentions,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Posts().CreatePost(ctx, p); err != nil {
			return err
		}
		for _, uid := range mentions {
			if err := tx.Notifications().CreateNotification(ctx, domain.Notification{
				ID:           idx.New().String(),
				UserID:       uid,
				Type:         domain.NotificationMentioned,
				SourceUserID: viewer.ID,
				PostID:       p.ID,
				IsNew:        true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create post", slog.Any("error", err))
		return domain.Post{}, err
	}

	if in.Media != "" {
		if err := s.attachMedia(ctx, viewer.ID, p.ID, in.Media); err != nil {
			return domain.Post{}, err
		}
	}

	if err := s.Publisher.Publish(ctx, mq.PostCreated, PostCreatedEvent{
		PostID:     p.ID,
		AuthorID:   viewer.ID,
		Audience:   string(p.Audience),
		MentionIDs: mentions,
	}); err != nil {
		log.Warn("failed to publish post", slog.String("post_id", p.ID), slog.Any("error", err))
	}

	log.Info("post created",
		slog.String("post_id", p.ID),
		slog.String("audience", string(p.Audience)),
		slog.Int("mentions", len(mentions)),
	)
	return s.Store.Posts().GetPostByID(ctx, p.ID)
}

func (s *PostService) attachMedia(ctx context.Context, userID, postID, filename string) error {
	log := slogx.FromContext(ctx)

	res, err := s.Media.MovePostMedia(ctx, userID, postID, filename)
	if err == nil && !res.Success {
		err = errors.New("media move reported failure")
	}
	if err != nil {
		if derr := s.Store.Posts().DeletePost(ctx, postID); derr != nil {
			log.Error("failed to remove post after media failure", slog.String("post_id", postID), slog.Any("error", derr))
		}
		return err
	}

	_, to := objectstore.PostMediaKeys(userID, postID, filename)
	if err := s.Store.Posts().SetMedia(ctx, postID, to, res.MediaReady); err != nil {
		log.Error("failed to record post media", slog.String("post_id", postID), slog.Any("error", err))
		return err
	}
	return nil
}

// mentionable keeps registered users other than the author, once each, in
// the order given.
func (s *PostService) mentionable(ctx context.Context, author domain.User, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	refs, err := s.Store.Users().GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	registered := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if u, ok := ref.Full(); ok {
			registered[u.ID] = true
		}
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != author.ID && registered[id] && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Delete removes a post the viewer wrote. Its notifications, mentions and
// categories go with it.
func (s *PostService) Delete(ctx context.Context, viewer domain.User, postID string) error {
	p, err := s.Store.Posts().GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if p.UserID != viewer.ID {
		return ErrNotPostAuthor
	}
	if err := s.Store.Posts().DeletePost(ctx, postID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("post deleted", slog.String("post_id", postID))
	return nil
}
