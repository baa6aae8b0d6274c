package usecase

import (
	"context"
	"fmt"
	"time"

	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StoryUseCase = (*storyUC)(nil)

type StoryUseCase interface {
	Create(ctx context.Context, in StoryInput) (*model.Story, error)
	ListActive(ctx context.Context) ([]*model.Story, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Story, error)
	Delete(ctx context.Context, id string) error
	// SweepExpired deletes every story whose expiry is at or before now.
	SweepExpired(ctx context.Context) (int64, error)
}

type StoryInput struct {
	UserID  string
	Caption string
	TTL     time.Duration // zero selects model.DefaultStoryTTL
	Image   *adapter.Upload
	Video   *adapter.Upload
}

type storyUC struct {
	stories repository.StoryRepository
	users   repository.UserRepository
	files   adapter.FileStorage
	log     *zerolog.Logger
}

func NewStoryUseCase(stories repository.StoryRepository, users repository.UserRepository, files adapter.FileStorage, logger *zerolog.Logger) *storyUC {
	return &storyUC{stories: stories, users: users, files: files, log: logger}
}

func (uc *storyUC) Create(ctx context.Context, in StoryInput) (*model.Story, error) {
	if _, err := uc.users.FindByID(ctx, repository.NoTX, in.UserID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	st, err := model.NewStory(in.UserID, in.Caption, "", "", in.TTL, time.Now())
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		if st.Image, err = uc.files.Put(ctx, "stories", *in.Image); err != nil {
			return nil, err
		}
	}
	if in.Video != nil {
		if st.Video, err = uc.files.Put(ctx, "stories", *in.Video); err != nil {
			uc.drop(ctx, st)
			return nil, err
		}
	}
	if err := uc.stories.Save(ctx, repository.NoTX, st); err != nil {
		uc.drop(ctx, st)
		return nil, err
	}
	return st, nil
}

func (uc *storyUC) drop(ctx context.Context, st *model.Story) {
	for _, u := range []string{st.Image, st.Video} {
		if u == "" {
			continue
		}
		if err := uc.files.Delete(ctx, u); err != nil {
			uc.log.Warn().Err(err).Str("url", u).Msg("failed to remove story media")
		}
	}
}

func (uc *storyUC) ListActive(ctx context.Context) ([]*model.Story, error) {
	return uc.stories.ListActive(ctx, repository.NoTX, time.Now())
}

func (uc *storyUC) ListByUser(ctx context.Context, userID string) ([]*model.Story, error) {
	return uc.stories.ListByUser(ctx, repository.NoTX, userID, time.Now())
}

func (uc *storyUC) Delete(ctx context.Context, id string) error {
	st, err := uc.stories.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := uc.stories.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	uc.drop(ctx, st)
	return nil
}

func (uc *storyUC) SweepExpired(ctx context.Context) (int64, error) {
	gone, err := uc.stories.DeleteExpired(ctx, repository.NoTX, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired stories: %w", err)
	}
	for _, st := range gone {
		uc.drop(ctx, st)
	}
	return int64(len(gone)), nil
}
