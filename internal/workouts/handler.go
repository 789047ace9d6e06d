package workouts

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxImportSize = 10 << 20

type Handler struct {
	repo *Repo
	now  func() time.Time

	maxImport int64
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{
		repo:      repo,
		now:       time.Now,
		maxImport: maxImportSize,
	}
}

// SetupRoutes registers the history routes. authCheck guards delete and
// import, importLimit throttles import; either may be nil.
func (h *Handler) SetupRoutes(router *mux.Router, authCheck, importLimit mux.MiddlewareFunc) {
	router.HandleFunc("/workouts", h.HandleList).Methods("GET").Name("workouts-list")
	router.HandleFunc("/workouts/export", h.HandleExport).Methods("GET").Name("workouts-export")
	router.HandleFunc("/workouts/{id}", h.HandleGet).Methods("GET").Name("workouts-get")

	var deleteHandler http.Handler = http.HandlerFunc(h.HandleDelete)
	var importHandler http.Handler = http.HandlerFunc(h.HandleImport)
	if importLimit != nil {
		importHandler = importLimit(importHandler)
	}
	if authCheck != nil {
		deleteHandler = authCheck(deleteHandler)
		importHandler = authCheck(importHandler)
	}
	router.Handle("/workouts/import", importHandler).Methods("POST", "OPTIONS").Name("workouts-import")
	router.Handle("/workouts/{id}", deleteHandler).Methods("DELETE", "OPTIONS").Name("workouts-delete")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	pkg.WriteJSON(w, h.repo.List(ctx), http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	workout, err := h.repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

// HandleDelete removes a record. The caller must confirm with ?confirm=true;
// there is no undo.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, workout id empty", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "delete must be confirmed", http.StatusPreconditionRequired)
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout %s: %s", id, err)
		http.Error(w, "delete workout failed", http.StatusInternalServerError)
		return
	}

	log.Printf("workout %s deleted", id)
	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", id))
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	now := h.now()
	payload, err := MarshalExport(h.repo.Export(ctx, now))
	if err != nil {
		log.Errorf("export workouts: %s", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFileName(now)))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

type ImportResponse struct {
	Added int `json:"added"`
}

// HandleImport merges the request body, an export document or a bare array
// of workouts, into the history. An invalid document changes nothing.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.import")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxImport+1))
	if err != nil {
		log.Errorf("import workouts, read body: %s", err)
		http.Error(w, "failed to read import document", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > h.maxImport {
		log.Warnf("import workouts rejected: body over %d bytes", h.maxImport)
		http.Error(w, "import document too large", http.StatusRequestEntityTooLarge)
		return
	}

	var doc ValidDocument
	switch parsed := ParseImportDocument(body).(type) {
	case InvalidDocument:
		log.Warnf("import workouts rejected: %s", parsed.Reason)
		http.Error(w, "invalid file: "+parsed.Reason, http.StatusBadRequest)
		return
	case ValidDocument:
		doc = parsed
	}

	added, err := h.repo.Import(ctx, doc)
	if err != nil {
		log.Errorf("import workouts: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ImportResponse{Added: added}, http.StatusOK)
}
