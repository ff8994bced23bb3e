package server

import (
	"net/http"
	"strconv"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/database"
)

const qrSize = 256

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	limit := database.DefaultBookingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := s.assistant.ListBookings(limit)
	if err != nil {
		s.logger.Error("failed to list bookings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	record, err := s.assistant.GetBooking(id)
	if err != nil {
		s.logger.Error("failed to get booking", zap.Int64("booking_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// handleBookingQR renders the booking's share link as a PNG QR code
func (s *Server) handleBookingQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	record, err := s.assistant.GetBooking(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}
	if record == nil || record.ShareLink == "" {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}

	png, err := qrcode.Encode(record.ShareLink, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("failed to encode QR code", zap.Int64("booking_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
