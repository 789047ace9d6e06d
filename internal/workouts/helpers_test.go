package workouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/storage"
	"github.com/brianvoe/gofakeit/v6"
)

var errStoreDown = errors.New("store down")

// flakyStore is a MemoryStore whose reads and writes can be switched to
// fail. It counts the reads that reach it.
type flakyStore struct {
	*storage.MemoryStore
	mutex      sync.Mutex
	failWrites bool
	failReads  bool
	gets       int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (fs *flakyStore) setFailWrites(fail bool) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.failWrites = fail
}

func (fs *flakyStore) setFailReads(fail bool) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.failReads = fail
}

func (fs *flakyStore) reads() int {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return fs.gets
}

func (fs *flakyStore) Get(ctx context.Context, key string) (string, error) {
	fs.mutex.Lock()
	fs.gets++
	fail := fs.failReads
	fs.mutex.Unlock()
	if fail {
		return "", errStoreDown
	}
	return fs.MemoryStore.Get(ctx, key)
}

func (fs *flakyStore) Set(ctx context.Context, key, value string) error {
	fs.mutex.Lock()
	fail := fs.failWrites
	fs.mutex.Unlock()
	if fail {
		return errStoreDown
	}
	return fs.MemoryStore.Set(ctx, key, value)
}

func fakeWorkout(faker *gofakeit.Faker, date time.Time) Workout {
	sets := faker.Number(1, 5)
	done := faker.Number(0, sets)
	return Workout{
		ID:          NewWorkoutID(date),
		Date:        date.UTC().Truncate(time.Millisecond),
		SessionID:   faker.Number(1, 3),
		SessionName: faker.Word(),
		Duration:    faker.Number(60, 5400),
		Completed:   true,
		Exercises: []ExerciseSummary{
			{
				Name:          faker.Word(),
				SetsCompleted: done,
				SetsTotal:     sets,
				Reps:          "10",
				Notes:         []string{faker.Sentence(3)},
			},
		},
		TotalSets:     sets,
		CompletedSets: done,
	}
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 18, 30, 0, 0, time.UTC)
}

func ids(history []Workout) []string {
	out := make([]string, 0, len(history))
	for _, w := range history {
		out = append(out, w.ID)
	}
	return out
}
