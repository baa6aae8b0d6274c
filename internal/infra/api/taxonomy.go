package api

import (
	"net/http"

	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (s *Server) categoryRoutes(r chi.Router) {
	r.Get("/getall-category", s.listCategories)
	r.Get("/getall-cateogry", s.listCategories)
	r.Get("/{id}", s.getCategory)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/create-category", s.createCategory)
		r.Post("/create-cateogry", s.createCategory)
		r.Put("/update/{id}", s.updateCategory)
		r.Delete("/delete/{id}", s.deleteCategory)
	})
}

type categoryRequest struct {
	CategoryName    string `json:"categoryName" form:"categoryName" validate:"required,max=100"`
	SubCategoryName string `json:"subCategoryName" form:"subCategoryName" validate:"max=100"`
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
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
	c, err := s.catalog.CreateCategory(r.Context(), usecase.CategoryInput{
		CategoryName:    req.CategoryName,
		SubCategoryName: req.SubCategoryName,
		Image:           img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Category created successfully", "category": c})
}

type categoryPatchRequest struct {
	CategoryName    *string `json:"categoryName" form:"categoryName" validate:"omitempty,max=100"`
	SubCategoryName *string `json:"subCategoryName" form:"subCategoryName" validate:"omitempty,max=100"`
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryPatchRequest
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
	c, err := s.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), usecase.CategoryPatch{
		CategoryName:    req.CategoryName,
		SubCategoryName: req.SubCategoryName,
		Image:           img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Category updated successfully", "category": c})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Category deleted successfully"})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"categories": cs})
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"category": c})
}

func (s *Server) businessCategoryRoutes(r chi.Router) {
	r.Get("/getall", s.listBusinessCategories)
	r.Get("/single/{id}", s.getBusinessCategory)
	// paths published by the mobile clients
	r.Get("/getallbusiness-category", s.listBusinessCategories)
	r.Get("/singlebusinesscategory/{id}", s.getBusinessCategory)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/create", s.createBusinessCategory)
		r.Post("/business-category", s.createBusinessCategory)
		r.Put("/{id}", s.updateBusinessCategory)
	})
}

type businessCategoryRequest struct {
	CategoryName  string   `json:"categoryName" form:"categoryName" validate:"required,max=100"`
	SubCategories []string `json:"subcategories" form:"subcategories" validate:"dive,required,max=100"`
}

func (s *Server) createBusinessCategory(w http.ResponseWriter, r *http.Request) {
	var req businessCategoryRequest
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
	c, err := s.catalog.CreateBusinessCategory(r.Context(), usecase.BusinessCategoryInput{
		CategoryName:  req.CategoryName,
		SubCategories: req.SubCategories,
		Image:         img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Business category created successfully", "category": c})
}

type businessCategoryPatchRequest struct {
	CategoryName  *string  `json:"categoryName" form:"categoryName" validate:"omitempty,max=100"`
	SubCategories []string `json:"subcategories" form:"subcategories" validate:"omitempty,dive,required,max=100"`
}

func (s *Server) updateBusinessCategory(w http.ResponseWriter, r *http.Request) {
	var req businessCategoryPatchRequest
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
	c, err := s.catalog.UpdateBusinessCategory(r.Context(), chi.URLParam(r, "id"), usecase.BusinessCategoryPatch{
		CategoryName:  req.CategoryName,
		SubCategories: req.SubCategories,
		Image:         img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Business category updated successfully", "category": c})
}

func (s *Server) listBusinessCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := s.catalog.ListBusinessCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"categories": cs})
}

func (s *Server) getBusinessCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.GetBusinessCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"category": c})
}

func (s *Server) logoRoutes(r chi.Router) {
	r.Get("/", s.listLogos)
	r.Get("/{id}", s.getLogo)
	r.With(s.requireAdmin).Post("/", s.createLogo)
}

type logoRequest struct {
	Name        string          `json:"name" form:"name" validate:"required,max=200"`
	Description string          `json:"description" form:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" form:"price"`
}

func (s *Server) createLogo(w http.ResponseWriter, r *http.Request) {
	var req logoRequest
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
	l, err := s.catalog.CreateLogo(r.Context(), usecase.LogoInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Logo created successfully", "logo": l})
}

func (s *Server) listLogos(w http.ResponseWriter, r *http.Request) {
	ls, err := s.catalog.ListLogos(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"logos": ls})
}

func (s *Server) getLogo(w http.ResponseWriter, r *http.Request) {
	l, err := s.catalog.GetLogo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"logo": l})
}

func (s *Server) businessCardRoutes(r chi.Router) {
	r.Get("/", s.listBusinessCards)
	r.Get("/{id}", s.getBusinessCard)
	r.With(s.requireAdmin).Post("/", s.createBusinessCard)
}

type businessCardRequest struct {
	Name        string          `json:"name" form:"name" validate:"required,max=200"`
	Category    string          `json:"category" form:"category" validate:"max=100"`
	Price       decimal.Decimal `json:"price" form:"price"`
	OfferPrice  decimal.Decimal `json:"offerPrice" form:"offerPrice"`
	Description string          `json:"description" form:"description" validate:"max=5000"`
	Size        string          `json:"size" form:"size" validate:"omitempty,poster_size"`
	Tags        []string        `json:"tags" form:"tags"`
	InStock     *bool           `json:"inStock" form:"inStock"`
}

func (s *Server) createBusinessCard(w http.ResponseWriter, r *http.Request) {
	var req businessCardRequest
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
	c, err := s.catalog.CreateBusinessCard(r.Context(), usecase.BusinessCardInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Description: req.Description,
		Size:        req.Size,
		Tags:        req.Tags,
		InStock:     req.InStock,
		Images:      imgs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Business card created successfully", "businessCard": c})
}

func (s *Server) listBusinessCards(w http.ResponseWriter, r *http.Request) {
	cs, err := s.catalog.ListBusinessCards(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"businessCards": cs})
}

func (s *Server) getBusinessCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.GetBusinessCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"businessCard": c})
}
