//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/usecase"
)

func TestStoryCreate(t *testing.T) {
	ctx := context.Background()
	stories, users, files := newMemStoryRepo(), newMemUserRepo(), NewMockFiles()
	uc := usecase.NewStoryUseCase(stories, users, files, newLogger())
	u, _ := model.NewUser("", "9700", "S", "")
	users.put(u)

	before := time.Now()
	st, err := uc.Create(ctx, usecase.StoryInput{
		UserID:  u.ID,
		Caption: "new arrivals",
		Image:   &adapter.Upload{Filename: "a.png", Body: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.ExpiredAt.Before(before.Add(model.DefaultStoryTTL)) {
		t.Fatalf("default ttl not applied: %v", st.ExpiredAt)
	}
	if !strings.HasPrefix(st.Image, "/uploads/stories/") {
		t.Fatalf("image url %q", st.Image)
	}

	if _, err := uc.Create(ctx, usecase.StoryInput{UserID: "ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}

	if err := uc.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(files.Deleted) != 1 || files.Deleted[0] != st.Image {
		t.Fatalf("media not removed: %v", files.Deleted)
	}
}

func TestStoryCreate_UploadFailure(t *testing.T) {
	stories, users, files := newMemStoryRepo(), newMemUserRepo(), NewMockFiles()
	uc := usecase.NewStoryUseCase(stories, users, files, newLogger())
	u, _ := model.NewUser("", "9701", "S", "")
	users.put(u)
	files.Err = errors.New("disk full")

	_, err := uc.Create(context.Background(), usecase.StoryInput{
		UserID: u.ID,
		Video:  &adapter.Upload{Filename: "v.mp4", Body: strings.NewReader("x")},
	})
	if err == nil {
		t.Fatal("expected upload error")
	}
	if len(stories.byID) != 0 {
		t.Fatal("story persisted despite failed upload")
	}
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	stories, files := newMemStoryRepo(), NewMockFiles()
	uc := usecase.NewStoryUseCase(stories, newMemUserRepo(), files, newLogger())

	now := time.Now()
	stories.byID["old"] = &model.Story{ID: "old", UserID: "u", Image: "/uploads/stories/1-a.png", Video: "/uploads/stories/2-a.mp4", ExpiredAt: now.Add(-time.Second)}
	stories.byID["fresh"] = &model.Story{ID: "fresh", UserID: "u", Image: "/uploads/stories/3-b.png", ExpiredAt: now.Add(time.Minute)}

	n, err := uc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 deleted, got %d", n)
	}
	if _, ok := stories.byID["fresh"]; !ok {
		t.Fatal("unexpired story removed")
	}
	if len(files.Deleted) != 2 || files.Deleted[0] != "/uploads/stories/1-a.png" || files.Deleted[1] != "/uploads/stories/2-a.mp4" {
		t.Fatalf("expired media not removed: %v", files.Deleted)
	}

	active, _ := uc.ListActive(ctx)
	if len(active) != 1 || active[0].ID != "fresh" {
		t.Fatalf("ListActive: %v", active)
	}
	mine, _ := uc.ListByUser(ctx, "u")
	if len(mine) != 1 {
		t.Fatalf("ListByUser: %v", mine)
	}
}
