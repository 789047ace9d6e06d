package tracker

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/session"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/2beens/gymtracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxNoteSize = 1 << 10

type Handler struct {
	tracker *Tracker
	now     func() time.Time
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{
		tracker: tracker,
		now:     time.Now,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/catalogue", h.HandleCatalogue).Methods("GET").Name("catalogue")
	router.HandleFunc("/state", h.HandleState).Methods("GET").Name("state")
	router.HandleFunc("/home", h.HandleHome).Methods("POST", "OPTIONS").Name("home")
	router.HandleFunc("/last", h.HandleLastWorkout).Methods("GET").Name("last-workout")
	router.HandleFunc("/nav/dashboard", h.HandleOpenDashboard).Methods("POST", "OPTIONS").Name("open-dashboard")

	router.HandleFunc("/sessions/{id:[0-9]+}", h.HandleSelectSession).Methods("POST", "OPTIONS").Name("select-session")

	s := router.PathPrefix("/session").Subrouter()
	s.HandleFunc("", h.HandleDiscardSession).Methods("DELETE", "OPTIONS").Name("discard-session")
	s.HandleFunc("/finish", h.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")
	s.HandleFunc("/stopwatch/{action}", h.HandleStopwatch).Methods("POST", "OPTIONS").Name("stopwatch")
	s.HandleFunc("/sets/{group}/{exercise}/{set}", h.HandleToggleSet).Methods("POST", "OPTIONS").Name("toggle-set")
	s.HandleFunc("/notes/{group}/{exercise}/{set}", h.HandleSetNote).Methods("PUT", "OPTIONS").Name("set-note")
	s.HandleFunc("/rest/{group}/{exercise}", h.HandleOpenRest).Methods("POST", "OPTIONS").Name("open-rest")
	s.HandleFunc("/rest/{action}", h.HandleRest).Methods("POST", "OPTIONS").Name("rest")
	s.HandleFunc("/rest", h.HandleCloseRest).Methods("DELETE", "OPTIONS").Name("close-rest")
	s.HandleFunc("/timers/{group}/{exercise}/{action}", h.HandleExerciseTimer).Methods("POST", "OPTIONS").Name("exercise-timer")
	s.HandleFunc("/activities/{idx}", h.HandleSelectActivity).Methods("POST", "OPTIONS").Name("select-activity")
	s.HandleFunc("/activity", h.HandleActivityBack).Methods("DELETE", "OPTIONS").Name("activity-back")
}

// errorStatus maps tracker and runner errors to a status code.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrIndexOutOfRange),
		errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, session.ErrNoRestTimer),
		errors.Is(err, session.ErrNotTimed):
		return http.StatusBadRequest
	case errors.Is(err, catalogue.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoActiveSession),
		errors.Is(err, ErrWrongSessionType),
		errors.Is(err, session.ErrNoActivitySelected),
		errors.Is(err, session.ErrNoRestOpen),
		errors.Is(err, session.ErrRunnerClosed):
		return http.StatusConflict
	case errors.Is(err, workouts.ErrNotPersisted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("tracker %s: %s", op, err)
	} else {
		log.Debugf("tracker %s: %s", op, err)
	}
	http.Error(w, err.Error(), status)
}

func (h *Handler) writeState(w http.ResponseWriter) {
	pkg.WriteJSON(w, h.tracker.State(), http.StatusOK)
}

func intVar(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return v, true
}

func exerciseVars(r *http.Request) (g, e int, ok bool) {
	g, okG := intVar(r, "group")
	e, okE := intVar(r, "exercise")
	return g, e, okG && okE
}

func (h *Handler) HandleCatalogue(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.tracker.Catalogue().Sessions, http.StatusOK)
}

func (h *Handler) HandleState(w http.ResponseWriter, _ *http.Request) {
	h.writeState(w)
}

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.home")
	defer span.End()

	h.tracker.Home()
	pkg.WriteJSON(w, h.tracker.HomeSummary(ctx), http.StatusOK)
}

func (h *Handler) HandleOpenDashboard(w http.ResponseWriter, _ *http.Request) {
	h.tracker.OpenDashboard()
	h.writeState(w)
}

func (h *Handler) HandleSelectSession(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(r, "id")
	if !ok {
		http.Error(w, "error, invalid session id", http.StatusBadRequest)
		return
	}
	if _, err := h.tracker.SelectSession(id); err != nil {
		h.fail(w, "select session", err)
		return
	}
	h.writeState(w)
}

// HandleDiscardSession abandons the active session without saving it.
func (h *Handler) HandleDiscardSession(w http.ResponseWriter, _ *http.Request) {
	h.tracker.Home()
	h.writeState(w)
}

func (h *Handler) HandleToggleSet(w http.ResponseWriter, r *http.Request) {
	g, e, ok := exerciseVars(r)
	s, okS := intVar(r, "set")
	if !ok || !okS {
		http.Error(w, "error, invalid set path", http.StatusBadRequest)
		return
	}

	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "toggle set", err)
		return
	}
	if _, err := wr.ToggleSet(g, e, s); err != nil {
		h.fail(w, "toggle set", err)
		return
	}
	h.writeState(w)
}

// HandleSetNote stores the plain text body as the note of one set.
func (h *Handler) HandleSetNote(w http.ResponseWriter, r *http.Request) {
	g, e, ok := exerciseVars(r)
	s, okS := intVar(r, "set")
	if !ok || !okS {
		http.Error(w, "error, invalid set path", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNoteSize+1))
	if err != nil {
		http.Error(w, "failed to read note", http.StatusBadRequest)
		return
	}
	if len(body) > maxNoteSize {
		http.Error(w, fmt.Sprintf("note too long, max %d bytes", maxNoteSize), http.StatusRequestEntityTooLarge)
		return
	}

	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "set note", err)
		return
	}
	if err := wr.SetNote(g, e, s, string(body)); err != nil {
		h.fail(w, "set note", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleStopwatch(w http.ResponseWriter, r *http.Request) {
	action := session.TimerAction(mux.Vars(r)["action"])

	runner, err := h.tracker.Runner()
	if err != nil {
		h.fail(w, "stopwatch", err)
		return
	}

	switch rr := runner.(type) {
	case *session.WorkoutRunner:
		err = rr.ControlStopwatch(action)
	case *session.ExtraRunner:
		err = rr.ControlStopwatch(action)
	default:
		err = ErrWrongSessionType
	}
	if err != nil {
		h.fail(w, "stopwatch", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleOpenRest(w http.ResponseWriter, r *http.Request) {
	g, e, ok := exerciseVars(r)
	if !ok {
		http.Error(w, "error, invalid exercise path", http.StatusBadRequest)
		return
	}

	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "open rest", err)
		return
	}
	if _, err := wr.OpenRest(g, e); err != nil {
		h.fail(w, "open rest", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleRest(w http.ResponseWriter, r *http.Request) {
	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "rest", err)
		return
	}
	if err := wr.ControlRest(session.TimerAction(mux.Vars(r)["action"])); err != nil {
		h.fail(w, "rest", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleCloseRest(w http.ResponseWriter, _ *http.Request) {
	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "close rest", err)
		return
	}
	wr.CloseRest()
	h.writeState(w)
}

func (h *Handler) HandleExerciseTimer(w http.ResponseWriter, r *http.Request) {
	g, e, ok := exerciseVars(r)
	if !ok {
		http.Error(w, "error, invalid exercise path", http.StatusBadRequest)
		return
	}

	wr, err := h.tracker.WorkoutRunner()
	if err != nil {
		h.fail(w, "exercise timer", err)
		return
	}
	if err := wr.ControlExerciseTimer(g, e, session.TimerAction(mux.Vars(r)["action"])); err != nil {
		h.fail(w, "exercise timer", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleSelectActivity(w http.ResponseWriter, r *http.Request) {
	idx, ok := intVar(r, "idx")
	if !ok {
		http.Error(w, "error, invalid activity index", http.StatusBadRequest)
		return
	}

	er, err := h.tracker.ExtraRunner()
	if err != nil {
		h.fail(w, "select activity", err)
		return
	}
	if _, err := er.Select(idx); err != nil {
		h.fail(w, "select activity", err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleActivityBack(w http.ResponseWriter, _ *http.Request) {
	er, err := h.tracker.ExtraRunner()
	if err != nil {
		h.fail(w, "activity back", err)
		return
	}
	er.Back()
	h.writeState(w)
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.finish")
	defer span.End()

	record, err := h.tracker.FinishSession(ctx, h.now())
	if err != nil {
		h.fail(w, "finish", err)
		return
	}
	pkg.WriteJSON(w, record, http.StatusCreated)
}

func (h *Handler) HandleLastWorkout(w http.ResponseWriter, r *http.Request) {
	last, ok := h.tracker.LastWorkout(r.Context())
	if !ok {
		http.Error(w, "no workouts yet", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, last, http.StatusOK)
}
