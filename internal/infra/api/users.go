package api

import (
	"fmt"
	"net/http"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/infra/logging"
	red "poster-commerce/internal/infra/redis"
	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
)

func (s *Server) userRoutes(r chi.Router) {
	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Get("/get-user/{userId}", s.getUser)
	r.Get("/get-profile/{userId}", s.getUser)
	r.Put("/update-user/{userId}", s.updateUser)
	r.Post("/create-profile/{userId}", s.setProfileImage)
	r.Put("/edit-profile/{userId}", s.setProfileImage)
	r.Get("/check-birthday/{userId}", s.checkBirthday)
	r.Post("/{userId}/customers", s.addCustomer)
	r.Get("/{userId}/customers", s.listCustomers)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/buy", s.buy)
		r.Post("/checkout", s.checkout)
		r.Get("/userorders/{userId}", s.userOrders)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/allorders", s.allOrders)
		r.Post("/send-sms", s.sendSMS)
		r.Get("/send-birthday-wishes", s.sendBirthdayWishes)
		r.Post("/send-birthday-wishes", s.sendBirthdayWishes)
	})
}

type registerRequest struct {
	Name   string `json:"name" form:"name" validate:"max=100"`
	Email  string `json:"email" form:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile" form:"mobile" validate:"required,mobile"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), req.Name, req.Email, req.Mobile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.auth.Mint(u.ID)
	if err != nil {
		s.fail(w, r, fmt.Errorf("mint token: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Registration successful", "token": token, "user": u})
}

type loginRequest struct {
	Mobile string `json:"mobile" form:"mobile" validate:"required,mobile"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if !s.allow(r, "login", red.LoginKey(req.Mobile), s.loginLimit, s.loginWindow) {
		s.fail(w, r, domain.ErrRateLimited)
		return
	}
	u, created, err := s.users.Login(r.Context(), req.Mobile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.auth.Mint(u.ID)
	if err != nil {
		s.fail(w, r, fmt.Errorf("mint token: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Login successful", "token": token, "user": u, "created": created})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "User details retrieved successfully!", "user": u})
}

type updateUserRequest struct {
	Name                    *string `json:"name" form:"name" validate:"omitempty,max=100"`
	Email                   *string `json:"email" form:"email" validate:"omitempty,email"`
	Mobile                  *string `json:"mobile" form:"mobile" validate:"omitempty,mobile"`
	DOB                     *Date   `json:"dob" form:"dob"`
	MarriageAnniversaryDate *Date   `json:"marriageAnniversaryDate" form:"marriageAnniversaryDate"`
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	img, err := files.one("profileImage")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.users.Update(r.Context(), chi.URLParam(r, "userId"), usecase.UserPatch{
		Name:                    req.Name,
		Email:                   req.Email,
		Mobile:                  req.Mobile,
		DOB:                     req.DOB.Time(),
		MarriageAnniversaryDate: req.MarriageAnniversaryDate.Time(),
		ProfileImage:            img,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "User updated successfully", "user": u})
}

func (s *Server) setProfileImage(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	files := newUploads(r)
	defer files.Close()
	img, err := files.one("profileImage")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if img == nil {
		s.fail(w, r, &ValidationError{Errors: map[string]string{"profileImage": "This field is required"}})
		return
	}
	u, err := s.users.SetProfileImage(r.Context(), chi.URLParam(r, "userId"), *img)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Profile image updated successfully!", "user": u})
}

func (s *Server) checkBirthday(w http.ResponseWriter, r *http.Request) {
	ok, u, err := s.users.IsBirthday(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := envelope{"success": true, "isBirthday": ok}
	if ok {
		out["message"] = fmt.Sprintf("🎉 Happy Birthday %s! Have a fantastic day! 🎂", u.DisplayName())
	}
	writeJSON(w, http.StatusOK, out)
}

type customerRequest struct {
	Name            string `json:"name" form:"name" validate:"required,max=100"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	Mobile          string `json:"mobile" form:"mobile" validate:"required,mobile"`
	DOB             *Date  `json:"dob" form:"dob"`
	AnniversaryDate *Date  `json:"anniversaryDate" form:"anniversaryDate"`
	Address         string `json:"address" form:"address" validate:"max=500"`
	Gender          string `json:"gender" form:"gender" validate:"omitempty,oneof=male female other Male Female Other"`
}

func (s *Server) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.users.AddCustomer(r.Context(), chi.URLParam(r, "userId"), usecase.CustomerInput{
		Name:            req.Name,
		Email:           req.Email,
		Mobile:          req.Mobile,
		DOB:             req.DOB.Time(),
		AnniversaryDate: req.AnniversaryDate.Time(),
		Address:         req.Address,
		Gender:          req.Gender,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Customer added", "customer": c})
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := s.users.ListCustomers(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"customers": cs})
}

type smsRequest struct {
	Mobile  string `json:"mobile" form:"mobile" validate:"required,mobile"`
	Message string `json:"message" form:"message" validate:"required,max=1600"`
}

func (s *Server) sendSMS(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if !s.allow(r, "sms", red.SMSKey(req.Mobile), smsLimit, smsWindow) {
		s.fail(w, r, domain.ErrRateLimited)
		return
	}
	res, err := s.notify.SendSMS(r.Context(), req.Mobile, req.Message)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Str("to", logging.Redact(req.Mobile, false)).Msg("send sms failed")
		writeJSON(w, http.StatusBadGateway, envelope{"success": false, "error": "Failed to send SMS"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "SMS sent successfully!", "sid": res.SID, "status": res.Status})
}

func (s *Server) sendBirthdayWishes(w http.ResponseWriter, r *http.Request) {
	sum, err := s.notify.RunOccasions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"message":     "Birthday wishes sent to users.",
		"totalWished": sum.Sent,
		"matched":     sum.Matched,
		"failed":      sum.Failed,
	})
}
