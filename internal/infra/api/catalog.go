package api

import (
	"net/http"
	"time"

	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// legacyCategories maps the fixed poster endpoints to their category names.
var legacyCategories = map[string]string{
	"/beautyposter":   "Beauty Products",
	"/chemicalposter": "Chemical",
	"/clothingposter": "Clothing",
	"/ugadiposter":    "Ugadi",
}

func (s *Server) posterRoutes(r chi.Router) {
	r.Get("/getallposter", s.listPosters)
	r.Get("/single-poster/{id}", s.getPoster)
	r.Get("/festival", s.postersByFestival)
	r.Get("/category/{name}", s.postersByCategory)
	for path, name := range legacyCategories {
		r.Get(path, s.postersIn(name))
	}
	r.With(s.requireAdmin).Post("/create-poster", s.createPoster)
}

type posterRequest struct {
	Name         string          `json:"name" form:"name" validate:"required,max=200"`
	CategoryName string          `json:"categoryName" form:"categoryName" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price" form:"price"`
	Description  string          `json:"description" form:"description" validate:"max=5000"`
	Size         string          `json:"size" form:"size" validate:"omitempty,poster_size"`
	FestivalDate *Date           `json:"festivalDate" form:"festivalDate"`
	InStock      *bool           `json:"inStock" form:"inStock"`
	Tags         []string        `json:"tags" form:"tags"`
}

func (s *Server) createPoster(w http.ResponseWriter, r *http.Request) {
	var req posterRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	imgs, err := files.many("images", "image")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.catalog.CreatePoster(r.Context(), usecase.PosterInput{
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Price:        req.Price,
		Description:  req.Description,
		Size:         req.Size,
		FestivalDate: req.FestivalDate.Time(),
		InStock:      req.InStock,
		Tags:         req.Tags,
		Images:       imgs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Poster created successfully", "poster": p})
}

func (s *Server) listPosters(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.ListPosters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"posters": ps})
}

func (s *Server) getPoster(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetPoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"poster": p})
}

func (s *Server) postersByCategory(w http.ResponseWriter, r *http.Request) {
	s.postersIn(chi.URLParam(r, "name"))(w, r)
}

func (s *Server) postersIn(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, err := s.catalog.PostersByCategory(r.Context(), category)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"posters": ps})
	}
}

func (s *Server) postersByFestival(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("festivalDate")
	if raw == "" {
		s.fail(w, r, &ValidationError{Errors: map[string]string{"festivalDate": "This field is required"}})
		return
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		s.fail(w, r, &ValidationError{Errors: map[string]string{"festivalDate": "Must be a date formatted YYYY-MM-DD"}})
		return
	}
	ps, err := s.catalog.PostersByFestivalDate(r.Context(), day)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"posters": ps})
}

func (s *Server) businessPosterRoutes(r chi.Router) {
	r.Get("/businessposters", s.listBusinessPosters)
	r.Get("/category/{name}", s.businessPostersByCategory)
	r.Get("/singlebusinessposter/{id}", s.getBusinessPoster)
	r.Get("/singlebusienssposter/{id}", s.getBusinessPoster) // misspelt path kept for old clients
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/create-businessposter", s.createBusinessPoster)
		r.Put("/{id}", s.updateBusinessPoster)
	})
}

type businessPosterRequest struct {
	Name         string          `json:"name" form:"name" validate:"required,max=200"`
	CategoryName string          `json:"categoryName" form:"categoryName" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price" form:"price"`
	OfferPrice   decimal.Decimal `json:"offerPrice" form:"offerPrice"`
	Description  string          `json:"description" form:"description" validate:"max=5000"`
	Size         string          `json:"size" form:"size" validate:"omitempty,poster_size"`
	InStock      *bool           `json:"inStock" form:"inStock"`
	Tags         []string        `json:"tags" form:"tags"`
}

func (s *Server) createBusinessPoster(w http.ResponseWriter, r *http.Request) {
	var req businessPosterRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	imgs, err := files.many("images", "image")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.catalog.CreateBusinessPoster(r.Context(), usecase.BusinessPosterInput{
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Price:        req.Price,
		OfferPrice:   req.OfferPrice,
		Description:  req.Description,
		Size:         req.Size,
		InStock:      req.InStock,
		Tags:         req.Tags,
		Images:       imgs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Business poster created successfully", "businessPoster": p})
}

type businessPosterPatchRequest struct {
	Name         *string          `json:"name" form:"name" validate:"omitempty,max=200"`
	CategoryName *string          `json:"categoryName" form:"categoryName" validate:"omitempty,max=100"`
	Price        *decimal.Decimal `json:"price" form:"price"`
	OfferPrice   *decimal.Decimal `json:"offerPrice" form:"offerPrice"`
	Description  *string          `json:"description" form:"description" validate:"omitempty,max=5000"`
	Size         *string          `json:"size" form:"size" validate:"omitempty,poster_size"`
	InStock      *bool            `json:"inStock" form:"inStock"`
	Tags         []string         `json:"tags" form:"tags"`
}

func (s *Server) updateBusinessPoster(w http.ResponseWriter, r *http.Request) {
	var req businessPosterPatchRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	imgs, err := files.many("images", "image")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.catalog.UpdateBusinessPoster(r.Context(), chi.URLParam(r, "id"), usecase.BusinessPosterPatch{
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Price:        req.Price,
		OfferPrice:   req.OfferPrice,
		Description:  req.Description,
		Size:         req.Size,
		InStock:      req.InStock,
		Tags:         req.Tags,
		Images:       imgs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Business poster updated successfully", "businessPoster": p})
}

func (s *Server) listBusinessPosters(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.ListBusinessPosters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"businessPosters": ps})
}

func (s *Server) businessPostersByCategory(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.BusinessPostersByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"businessPosters": ps})
}

func (s *Server) getBusinessPoster(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetBusinessPoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"businessPoster": p})
}
