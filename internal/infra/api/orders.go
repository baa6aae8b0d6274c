package api

import (
	"net/http"

	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/infra/logging"
	"poster-commerce/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
)

type buyRequest struct {
	UserID           string `json:"userId" validate:"required"`
	PosterID         string `json:"posterId" validate:"required_without=BusinessPosterID"`
	BusinessPosterID string `json:"businessPosterId"`
	Quantity         int    `json:"quantity" validate:"required,min=1,max=1000"`
}

func (s *Server) buy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.actingAs(r, req.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := model.NewItemRef(req.PosterID, req.BusinessPosterID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.orders.CreateOrder(r.Context(), req.UserID, item, req.Quantity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncOrderCreated(string(item.Kind()), res.Free)
	msg := "Order created. Proceed to payment."
	if res.Free {
		msg = "Order placed free of charge with your active subscription."
	}
	writeJSON(w, http.StatusCreated, envelope{"message": msg, "order": res.Order})
}

type checkoutRequest struct {
	UserID        string `json:"userId" validate:"required"`
	OrderID       string `json:"orderId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"max=32"`
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.actingAs(r, req.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	r = r.WithContext(logging.WithOrderID(r.Context(), req.OrderID))
	res, err := s.orders.Checkout(r.Context(), req.UserID, req.OrderID, req.PaymentMethod)
	if err != nil {
		metrics.IncCheckout("rejected")
		s.fail(w, r, err)
		return
	}
	if p := res.Payment; p != nil {
		metrics.IncCheckout("payment_instruction")
		writeJSON(w, http.StatusOK, envelope{
			"message": "Proceed to payment using your UPI app.",
			"upiApp":  p.UPIApp,
			"upiId":   p.UPIID,
			"amount":  p.Amount,
			"upiLink": p.UPILink,
			"note":    p.Note,
		})
		return
	}
	metrics.IncCheckout("settled_free")
	writeJSON(w, http.StatusOK, envelope{"message": "Order completed with your subscription.", "order": res.Order})
}

func (s *Server) userOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := s.actingAs(r, userID); err != nil {
		s.fail(w, r, err)
		return
	}
	orders, err := s.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"orders": orders})
}

func (s *Server) allOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListAllOrders(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
	Method string `json:"paymentMethod" validate:"max=32"`
	UPIID  string `json:"upiId" validate:"max=100"`
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := s.bind(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	orderID := chi.URLParam(r, "orderId")
	r = r.WithContext(logging.WithOrderID(r.Context(), orderID))
	o, err := s.orders.UpdateStatus(r.Context(), orderID, to, req.Method, req.UPIID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncOrderTransition(string(to))
	writeJSON(w, http.StatusOK, envelope{"message": "Order status updated", "order": o})
}
