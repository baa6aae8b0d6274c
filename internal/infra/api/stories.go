package api

import (
	"net/http"
	"time"

	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
)

func (s *Server) storyRoutes(r chi.Router) {
	r.Get("/", s.activeStories)
	r.Get("/user/{userId}", s.userStories)
	r.Post("/", s.createStory)
	r.Delete("/{id}", s.deleteStory)
}

type storyRequest struct {
	UserID   string `json:"userId" form:"userId" validate:"required"`
	Caption  string `json:"caption" form:"caption" validate:"max=500"`
	TTLHours int    `json:"ttlHours" form:"ttlHours" validate:"gte=0,lte=168"`
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	img, err := files.one("image")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	video, err := files.one("video")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.stories.Create(r.Context(), usecase.StoryInput{
		UserID:  req.UserID,
		Caption: req.Caption,
		TTL:     time.Duration(req.TTLHours) * time.Hour,
		Image:   img,
		Video:   video,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Story created successfully", "story": st})
}

func (s *Server) activeStories(w http.ResponseWriter, r *http.Request) {
	sts, err := s.stories.ListActive(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stories": sts})
}

func (s *Server) userStories(w http.ResponseWriter, r *http.Request) {
	sts, err := s.stories.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stories": sts})
}

func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	if err := s.stories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Story deleted successfully"})
}
