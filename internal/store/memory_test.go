package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/user/vidhost-go/internal/model"
)

func TestMemoryStore_VideoLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	video := &model.Video{Title: "T", Description: "D", VideoPath: "videos/a.mp4", ThumbnailPath: "thumbnails/a.jpg", Duration: "00:42", UserID: 1}
	if err := s.CreateVideo(ctx, video); err != nil {
		t.Fatalf("CreateVideo() error = %v", err)
	}
	if video.ID == 0 {
		t.Error("expected assigned id")
	}
	if video.CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}

	got, err := s.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo() error = %v", err)
	}
	if got.Title != "T" || got.Views != 0 {
		t.Errorf("GetVideo() = %+v", got)
	}

	if err := s.DeleteVideo(ctx, video.ID); err != nil {
		t.Fatalf("DeleteVideo() error = %v", err)
	}
	if err := s.DeleteVideo(ctx, video.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second DeleteVideo() error = %v, want not found", err)
	}
	if _, err := s.GetVideo(ctx, video.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetVideo() after delete error = %v, want not found", err)
	}
}

func TestMemoryStore_IncrementViewsConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	video := &model.Video{Title: "T", Description: "D"}
	if err := s.CreateVideo(ctx, video); err != nil {
		t.Fatal(err)
	}

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.IncrementViews(ctx, video.ID); err != nil {
				t.Errorf("IncrementViews() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != n {
		t.Errorf("Views = %d, want %d (no lost updates)", got.Views, n)
	}
}

func TestMemoryStore_ListOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.CreateVideo(ctx, &model.Video{Title: "T"}); err != nil {
			t.Fatal(err)
		}
	}

	videos, err := s.ListVideos(ctx)
	if err != nil {
		t.Fatalf("ListVideos() error = %v", err)
	}
	if len(videos) != 5 {
		t.Fatalf("ListVideos() len = %d, want 5", len(videos))
	}
	for i := 1; i < len(videos); i++ {
		if videos[i].CreatedAt.After(videos[i-1].CreatedAt) {
			t.Errorf("creation order violated at %d", i)
		}
		if videos[i].CreatedAt.Equal(videos[i-1].CreatedAt) && videos[i].ID > videos[i-1].ID {
			t.Errorf("tie-break order violated at %d", i)
		}
	}
}

func TestMemoryStore_Users(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	dup := &model.User{Name: "Clone", Email: "ALICE@example.com", Password: "hash"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, model.ErrValidation) {
		t.Errorf("CreateUser() duplicate email error = %v, want validation", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail() id = %d, want %d", byEmail.ID, user.ID)
	}

	if _, err := s.GetUserByID(ctx, 999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetUserByID(999) error = %v, want not found", err)
	}
}
