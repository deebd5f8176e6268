package api

import (
	"fmt"
	"net/http"
	"time"

	"reservas/internal/metrics"
)

// handleAuditExport streams the booking audit log as an xlsx workbook.
// GET /api/audit/export[?restaurant=slug]
func (s *HTTPServer) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("audit_export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.audit == nil {
		writeError(w, http.StatusNotFound, "audit log is disabled")
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.audit.ExportExcel(r.Context(), r.URL.Query().Get("restaurant"), w); err != nil {
		s.logger.Error().Err(err).Msg("audit export failed")
	}
}
