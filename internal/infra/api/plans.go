package api

import (
	"net/http"

	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (s *Server) planRoutes(r chi.Router) {
	r.Get("/getallplan", s.listPlans)
	r.Get("/singleplan/{id}", s.getPlan)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/subscribe", s.subscribe)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/create-plan", s.createPlan)
		r.Put("/update/{id}", s.updatePlan)
		r.Delete("/delete/{id}", s.deletePlan)
		r.Post("/add-feature/{id}", s.addFeature)
		r.Post("/remove-feature/{id}", s.removeFeature)
	})
}

type planRequest struct {
	Name               string          `json:"name" validate:"required,max=100"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	OfferPrice         decimal.Decimal `json:"offerPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Duration           string          `json:"duration" validate:"required,plan_duration"`
	Features           []string        `json:"features" validate:"dive,required,max=200"`
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.plans.Create(r.Context(), usecase.PlanInput{
		Name:               req.Name,
		OriginalPrice:      req.OriginalPrice,
		OfferPrice:         req.OfferPrice,
		DiscountPercentage: req.DiscountPercentage,
		Duration:           req.Duration,
		Features:           req.Features,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Plan created successfully", "plan": p})
}

type planPatchRequest struct {
	Name               *string          `json:"name" validate:"omitempty,max=100"`
	OriginalPrice      *decimal.Decimal `json:"originalPrice"`
	OfferPrice         *decimal.Decimal `json:"offerPrice"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	Duration           *string          `json:"duration" validate:"omitempty,plan_duration"`
	Features           []string         `json:"features" validate:"omitempty,dive,required,max=200"`
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var req planPatchRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.plans.Update(r.Context(), chi.URLParam(r, "id"), usecase.PlanPatch{
		Name:               req.Name,
		OriginalPrice:      req.OriginalPrice,
		OfferPrice:         req.OfferPrice,
		DiscountPercentage: req.DiscountPercentage,
		Duration:           req.Duration,
		Features:           req.Features,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Plan updated successfully", "plan": p})
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Plan deleted successfully"})
}

type featureRequest struct {
	Feature string `json:"feature" validate:"required,max=200"`
}

func (s *Server) addFeature(w http.ResponseWriter, r *http.Request) {
	var req featureRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.plans.AddFeature(r.Context(), chi.URLParam(r, "id"), req.Feature)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Feature added successfully", "plan": p})
}

func (s *Server) removeFeature(w http.ResponseWriter, r *http.Request) {
	var req featureRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.plans.RemoveFeature(r.Context(), chi.URLParam(r, "id"), req.Feature)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Feature removed successfully", "plan": p})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"plans": plans})
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.plans.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"plan": p})
}

type subscribeRequest struct {
	UserID string `json:"userId" validate:"required"`
	PlanID string `json:"planId" validate:"required"`
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.actingAs(r, req.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	sp, err := s.plans.Subscribe(r.Context(), req.UserID, req.PlanID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Subscribed successfully", "subscribedPlan": sp})
}
