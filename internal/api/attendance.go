package api

import (
	"fmt"
	"net/http"
)

// ─── POST /api/attendance/quick ───────────────────────────────────────────────

type quickAttendanceRequest struct {
	Date    string   `json:"date"`
	Records []string `json:"records"`
}

// handleQuickAttendance accepts one day's marks for the whole roster, in
// roster order. The submission is validated against the roster size and
// logged — nothing is persisted, so it is not retrievable afterwards.
func (s *Server) handleQuickAttendance(w http.ResponseWriter, r *http.Request) {
	var req quickAttendanceRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Date == "" {
		respondErr(w, http.StatusBadRequest, "date is required")
		return
	}
	if len(req.Records) != len(s.employees) {
		respondErr(w, http.StatusBadRequest, fmt.Sprintf(
			"expected %d attendance records, got %d", len(s.employees), len(req.Records),
		))
		return
	}

	s.logger.Info("attendance recorded",
		"date", req.Date,
		"records", req.Records,
		logField(r),
	)
	respond(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Attendance recorded for " + req.Date,
	})
}
