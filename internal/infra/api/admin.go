package api

import (
	"net/http"

	"poster-commerce/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) adminRoutes(r chi.Router) {
	r.Get("/getpolicy", s.getPage(model.PagePrivacyPolicy))
	r.Get("/getaboutus", s.getPage(model.PageAboutUs))
	r.Post("/contact", s.submitContact)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/getallusers", s.allUsers)
		r.Get("/usersplans", s.usersWithPlans)
		r.Post("/privacy-policy", s.setPage(model.PagePrivacyPolicy))
		r.Post("/aboutus", s.setPage(model.PageAboutUs))
		r.Get("/getcontactus", s.listContacts)
		r.Get("/dashboard", s.dashboard)
		r.Patch("/orders/{orderId}/status", s.updateOrderStatus)
	})
}

func (s *Server) allUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"users": users})
}

func (s *Server) usersWithPlans(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListWithPlans(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"users": users})
}

type pageRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"required,max=100000"`
}

func (s *Server) setPage(kind model.PageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pageRequest
		if err := s.bind(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		p, err := s.content.SetPage(r.Context(), kind, req.Title, req.Content)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"message": "Page saved successfully", "page": p})
	}
}

func (s *Server) getPage(kind model.PageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.content.GetPage(r.Context(), kind)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"page": p})
	}
}

type contactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"omitempty,email"`
	Mobile  string `json:"mobile" form:"mobile" validate:"omitempty,mobile"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.content.SubmitContact(r.Context(), req.Name, req.Email, req.Mobile, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Message received", "contact": c})
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	cs, err := s.content.ListContacts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"contacts": cs})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.stats.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
