package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookme/internal/application"
	"github.com/example/bookme/internal/booking"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, error)
	GetBooking(ctx context.Context, principal application.Principal, bookingID string) (application.Booking, error)
	ListBookings(ctx context.Context, principal application.Principal) ([]application.Booking, error)
	DeleteBooking(ctx context.Context, principal application.Principal, bookingID string) error
}

type BookingHandler struct {
	service   bookingService
	responder responder
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, responder: newResponder(logger)}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	created, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(created))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	updated, err := h.service.UpdateBooking(r.Context(), application.UpdateBookingParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(updated))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	found, err := h.service.GetBooking(r.Context(), principal, bookingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(found))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	bookings, err := h.service.ListBookings(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTOs(bookings))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteBooking(r.Context(), principal, bookingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingRequest struct {
	Room          *string `json:"room"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Participants  *int    `json:"participants"`
	RepeatPattern *string `json:"repeat_pattern"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	input := application.BookingInput{
		Title:         r.Title,
		Description:   r.Description,
		Participants:  r.Participants,
		RepeatPattern: r.RepeatPattern,
	}
	if r.Room != nil {
		input.RoomName = strings.TrimSpace(*r.Room)
	}

	var err error
	if input.StartDate, err = parseDatePtr(r.StartDate); err != nil {
		return application.BookingInput{}, errBadRequestBody
	}
	if input.EndDate, err = parseDatePtr(r.EndDate); err != nil {
		return application.BookingInput{}, errBadRequestBody
	}
	if input.StartTime, err = parseTimePtr(r.StartTime); err != nil {
		return application.BookingInput{}, errBadRequestBody
	}
	if input.EndTime, err = parseTimePtr(r.EndTime); err != nil {
		return application.BookingInput{}, errBadRequestBody
	}

	return input, nil
}

func parseDatePtr(value *string) (*booking.Date, error) {
	if value == nil {
		return nil, nil
	}
	d, err := booking.ParseDate(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseTimePtr(value *string) (*booking.TimeOfDay, error) {
	if value == nil {
		return nil, nil
	}
	tod, err := booking.ParseTimeOfDay(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &tod, nil
}

type bookingDTO struct {
	ID            string  `json:"id"`
	Room          string  `json:"room"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Participants  int     `json:"participants"`
	RepeatPattern *string `json:"repeat_pattern"`
	Creator       string  `json:"creator"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toBookingDTO(b application.Booking) bookingDTO {
	return bookingDTO{
		ID:            b.ID,
		Room:          b.RoomName,
		Title:         b.Title,
		Description:   b.Description,
		StartDate:     b.StartDate.String(),
		EndDate:       b.EndDate.String(),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		Participants:  b.Participants,
		RepeatPattern: b.RepeatPattern,
		Creator:       b.Creator,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookingDTOs(bookings []application.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	return out
}
