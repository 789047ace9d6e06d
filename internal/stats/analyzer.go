package stats

import (
	"context"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/workouts"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

type historyRepo interface {
	List(ctx context.Context) []workouts.Workout
}

type Analyzer struct {
	repo      historyRepo
	catalogue *catalogue.Catalogue
}

func NewAnalyzer(repo historyRepo, c *catalogue.Catalogue) *Analyzer {
	return &Analyzer{
		repo:      repo,
		catalogue: c,
	}
}

// Dashboard holds everything derived from the history. Streak, Weekly and
// Heatmap look at the full history; the rest only at the filtered workouts.
type Dashboard struct {
	Filter       Filter             `json:"filter"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Summary      Summary            `json:"summary"`
	Streak       int                `json:"streak"`
	Weekly       []WeekBucket       `json:"weekly"`
	Distribution []SessionShare     `json:"distribution"`
	TopExercises []ExerciseTotal    `json:"topExercises"`
	Heatmap      []HeatmapDay       `json:"heatmap"`
	Recent       []workouts.Workout `json:"recent"`
}

func (a *Analyzer) Dashboard(ctx context.Context, filter Filter, now time.Time) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	history := a.repo.List(ctx)
	filtered := filter.Apply(history, now)
	span.SetAttributes(
		attribute.String("filter", string(filter)),
		attribute.Int("history.size", len(history)),
		attribute.Int("history.filtered", len(filtered)),
	)

	return &Dashboard{
		Filter:       filter,
		GeneratedAt:  now,
		Summary:      Summarize(filtered),
		Streak:       Streak(history, now),
		Weekly:       Weekly(history, now),
		Distribution: Distribution(filtered, a.catalogue),
		TopExercises: TopExercises(filtered, TopExerciseLimit),
		Heatmap:      Heatmap(history, now),
		Recent:       newestFirst(history),
	}, nil
}

func newestFirst(history []workouts.Workout) []workouts.Workout {
	reversed := make([]workouts.Workout, len(history))
	for i, w := range history {
		reversed[len(history)-1-i] = w
	}
	return reversed
}
