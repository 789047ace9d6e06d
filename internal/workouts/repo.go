package workouts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultHistoryKey = "wh"

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrNotPersisted means the store rejected the write; the history is unchanged.
	ErrNotPersisted = errors.New("history not persisted")
)

// Repo owns the workout history. It is the single writer of the history key:
// every mutation works on a copy of the cached history and only replaces the
// cache once the store confirmed the write.
type Repo struct {
	mutex          sync.Mutex
	store          *storage.JSONStore
	key            string
	history        []Workout
	loaded         bool
	loadedAt       time.Time
	refreshEvery   time.Duration
	now            func() time.Time
	metricsManager *metrics.Manager
}

func NewRepo(store *storage.JSONStore, key string, metricsManager *metrics.Manager) *Repo {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &Repo{
		store:          store,
		key:            key,
		now:            time.Now,
		metricsManager: metricsManager,
	}
}

// RefreshEvery makes reads re-fetch the history from the store once the
// cached copy is older than d, so writes by other processes (cmd/backup
// imports) show up. Zero disables it.
func (r *Repo) RefreshEvery(d time.Duration) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.refreshEvery = d
}

// Load reads the history from the store, replacing the cached copy.
// A failed or empty read leaves an empty history. Returns the record count.
func (r *Repo) Load(ctx context.Context) int {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.load")
	defer span.End()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loadLocked(ctx)
	span.SetAttributes(attribute.Int("history.size", len(r.history)))
	return len(r.history)
}

func (r *Repo) loadLocked(ctx context.Context) {
	var history []Workout
	if !r.store.Get(ctx, r.key, &history) || history == nil {
		history = []Workout{}
	}
	for i := range history {
		history[i].normalize()
	}

	r.history = history
	r.loaded = true
	r.loadedAt = r.now()
	r.reportSize()
}

// refreshLocked re-reads the history but, unlike a load, keeps the cached
// copy when the read fails.
func (r *Repo) refreshLocked(ctx context.Context) {
	r.loadedAt = r.now()

	var history []Workout
	if !r.store.Get(ctx, r.key, &history) || history == nil {
		log.Debugf("workouts: refresh of [%s] returned nothing, keeping %d cached records", r.key, len(r.history))
		return
	}
	for i := range history {
		history[i].normalize()
	}
	r.history = history
	r.reportSize()
}

func (r *Repo) ensureLoaded(ctx context.Context) {
	switch {
	case !r.loaded:
		r.loadLocked(ctx)
	case r.refreshEvery > 0 && r.now().Sub(r.loadedAt) >= r.refreshEvery:
		r.refreshLocked(ctx)
	}
}

// List returns a copy of the history in storage order.
func (r *Repo) List(ctx context.Context) []Workout {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)
	return slices.Clone(r.history)
}

// Last returns the most recently appended record.
func (r *Repo) Last(ctx context.Context) (Workout, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)
	if len(r.history) == 0 {
		return Workout{}, false
	}
	return r.history[len(r.history)-1], true
}

func (r *Repo) Get(ctx context.Context, id string) (Workout, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)
	idx := r.indexOf(id)
	if idx < 0 {
		return Workout{}, ErrWorkoutNotFound
	}
	return r.history[idx], nil
}

// Append adds a finished workout at the end of the history. The history is
// not re-sorted. When the id is already taken it is bumped until unique.
func (r *Repo) Append(ctx context.Context, w Workout) (_ Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)
	if w.ID == "" {
		w.ID = NewWorkoutID(w.Date)
	}
	w.ID = r.uniqueID(w.ID)
	w.normalize()

	next := make([]Workout, 0, len(r.history)+1)
	next = append(next, r.history...)
	next = append(next, w)
	if err := r.persist(ctx, next); err != nil {
		return Workout{}, err
	}

	if r.metricsManager != nil {
		kind := string(w.Kind())
		r.metricsManager.CounterWorkoutsFinished.WithLabelValues(kind).Inc()
		r.metricsManager.HistWorkoutDuration.WithLabelValues(kind).Observe(float64(w.Duration))
	}
	span.SetAttributes(attribute.String("workout.id", w.ID))
	log.Debugf("workouts: appended %s [%s]", w.ID, w.SessionName)

	return w, nil
}

// Delete removes one record by id.
func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)
	idx := r.indexOf(id)
	if idx < 0 {
		return ErrWorkoutNotFound
	}

	next := slices.Delete(slices.Clone(r.history), idx, idx+1)
	if err := r.persist(ctx, next); err != nil {
		return err
	}

	if r.metricsManager != nil {
		r.metricsManager.CounterWorkoutsDeleted.Inc()
	}
	return nil
}

// Import merges the document into the history by id, skipping ids already
// present (in the history or earlier in the document), then sorts the whole
// history by date, oldest first. Returns the number of added records.
// Importing the same document again adds nothing.
func (r *Repo) Import(ctx context.Context, doc ValidDocument) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.ensureLoaded(ctx)

	seen := make(map[string]struct{}, len(r.history)+len(doc.Workouts))
	for _, w := range r.history {
		seen[w.ID] = struct{}{}
	}

	merged := slices.Clone(r.history)
	added := 0
	for _, w := range doc.Workouts {
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}
		w.normalize()
		merged = append(merged, w)
		added++
	}
	span.SetAttributes(attribute.Int("import.added", added))

	if added == 0 {
		return 0, nil
	}

	slices.SortStableFunc(merged, func(a, b Workout) int {
		return a.Date.Compare(b.Date)
	})
	if err := r.persist(ctx, merged); err != nil {
		return 0, err
	}

	if r.metricsManager != nil {
		r.metricsManager.CounterWorkoutsImported.Add(float64(added))
	}
	log.Infof("workouts: imported %d new records", added)

	return added, nil
}

// Export snapshots the full history.
func (r *Repo) Export(ctx context.Context, now time.Time) ExportDocument {
	return ExportDocument{
		ExportDate: now.UTC(),
		Workouts:   r.List(ctx),
	}
}

func (r *Repo) persist(ctx context.Context, next []Workout) error {
	if !r.store.Set(ctx, r.key, next) {
		return fmt.Errorf("%w: key %s", ErrNotPersisted, r.key)
	}
	r.history = next
	r.loadedAt = r.now()
	r.reportSize()
	return nil
}

func (r *Repo) indexOf(id string) int {
	return slices.IndexFunc(r.history, func(w Workout) bool {
		return w.ID == id
	})
}

func (r *Repo) uniqueID(id string) string {
	for r.indexOf(id) >= 0 {
		id = bumpID(id)
	}
	return id
}

func bumpID(id string) string {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n+1, 10)
	}
	return id + "-1"
}

func (r *Repo) reportSize() {
	if r.metricsManager != nil {
		r.metricsManager.GaugeHistorySize.Set(float64(len(r.history)))
	}
}
