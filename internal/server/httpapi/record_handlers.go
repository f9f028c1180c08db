package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/qrregistry/internal/qrpayload"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type scanRequest struct {
	Payload string `json:"payload"`
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	list, err := h.records.ListByOwner(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var in models.RecordInput
	if !decode(w, r, &in) {
		return
	}

	rec, err := h.records.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "record created", "record_id", rec.ID, "owner_id", rec.OwnerID)
	w.Header().Set("Location", "/api/records/"+rec.ID)
	writeJSON(w, r, http.StatusCreated, rec)
}

func (h *Handler) existsRecord(w http.ResponseWriter, r *http.Request) {
	nid := r.URL.Query().Get("national_id")
	if nid == "" {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "national_id is required")
		return
	}

	ok, err := h.records.ExistsByNationalID(r.Context(), nid)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"exists": ok})
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	var patch models.RecordPatch
	if !decode(w, r, &patch) {
		return
	}

	rec, err := h.records.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.records.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "record deleted", "record_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAllRecords(w http.ResponseWriter, r *http.Request) {
	list, err := h.records.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) recordQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.qr.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) shareRecord(w http.ResponseWriter, r *http.Request) {
	url, err := h.qr.Share(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"url": url})
}

// scan resolves a raw decoded QR payload to its record.
func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decode(w, r, &req) {
		return
	}

	id := qrpayload.ExtractID(req.Payload)
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "payload is empty")
		return
	}

	rec, err := h.records.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}
