package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
)

// TreeHoleService manages anonymous posts. Authorship is stored but never
// exposed; the model's JSON tags enforce that.
type TreeHoleService struct {
	posts repository.TreeHoleRepository
	users repository.UserRepository
}

func NewTreeHoleService(posts repository.TreeHoleRepository, users repository.UserRepository) *TreeHoleService {
	return &TreeHoleService{posts: posts, users: users}
}

func (s *TreeHoleService) Create(ctx context.Context, authorID uuid.UUID, content string) (*models.TreeHolePost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("content is required")
	}
	if len([]rune(content)) > models.TreeHolePostMaxLength {
		return nil, invalidInput("content is too long")
	}

	post := &models.TreeHolePost{Content: content, AuthorID: authorID}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *TreeHoleService) List(ctx context.Context, limit, offset int) ([]models.TreeHolePost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.FindAll(ctx, limit, offset)
}

// ToggleLike likes the post on behalf of the user, or removes the like if it
// is already present.
func (s *TreeHoleService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.TreeHolePost, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.LikedBy(userID) {
		likes := post.Likes[:0]
		for _, id := range post.Likes {
			if id != userID {
				likes = append(likes, id)
			}
		}
		post.Likes = likes
	} else {
		post.Likes = append(post.Likes, userID)
	}
	post.LikeCount = len(post.Likes)

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Only its author or an admin may do so.
func (s *TreeHoleService) Delete(ctx context.Context, postID, actorID uuid.UUID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != actorID {
		actor, err := s.users.FindByID(ctx, actorID)
		if err != nil || actor.Role != models.RoleAdmin {
			return ErrForbidden
		}
	}

	_, err = s.posts.Delete(ctx, postID)
	return err
}
