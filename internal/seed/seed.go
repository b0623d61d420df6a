package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"expensetracker/internal/core"
	"expensetracker/internal/tracker"
)

// Profile describes what seeded data should look like.
type Profile struct {
	Categories []CategoryProfile `yaml:"categories"`
	DaysBack   int               `yaml:"days_back"`
}

type CategoryProfile struct {
	Name         string   `yaml:"name"`
	MinAmount    float64  `yaml:"min_amount"`
	MaxAmount    float64  `yaml:"max_amount"`
	Descriptions []string `yaml:"descriptions"`
}

// DefaultProfile covers everyday spending when no profile file is given.
func DefaultProfile() Profile {
	return Profile{
		DaysBack: 90,
		Categories: []CategoryProfile{
			{Name: "Food", MinAmount: 5, MaxAmount: 80, Descriptions: []string{"groceries", "lunch", "dinner out", "coffee"}},
			{Name: "Transport", MinAmount: 2, MaxAmount: 60, Descriptions: []string{"bus ticket", "fuel", "train", "parking"}},
			{Name: "Entertainment", MinAmount: 10, MaxAmount: 120, Descriptions: []string{"cinema", "concert", "streaming", "books"}},
			{Name: "Utilities", MinAmount: 20, MaxAmount: 200, Descriptions: []string{"electricity", "internet", "water", "phone"}},
		},
	}
}

// LoadProfile reads a YAML profile from disk.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read seed profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse seed profile: %w", err)
	}
	if len(p.Categories) == 0 {
		return Profile{}, fmt.Errorf("seed profile %s has no categories", path)
	}
	if p.DaysBack <= 0 {
		p.DaysBack = 90
	}
	return p, nil
}

// Seeder generates random expenses and inserts them concurrently.
type Seeder struct {
	tracker *tracker.Tracker
	profile Profile
	workers int
	rng     *rand.Rand
}

func New(tr *tracker.Tracker, profile Profile, workers int, randSeed int64) *Seeder {
	if workers < 1 {
		workers = 1
	}
	return &Seeder{
		tracker: tr,
		profile: profile,
		workers: workers,
		rng:     rand.New(rand.NewSource(randSeed)),
	}
}

type expenseSpec struct {
	amount      float64
	category    string
	description string
	date        core.Date
}

// Run inserts count expenses using the configured number of workers. Specs
// are generated up front from the seeded source, so the data set only
// depends on the seed, not on worker scheduling.
func (s *Seeder) Run(ctx context.Context, count int) (int, error) {
	specs := make([]expenseSpec, count)
	for i := range specs {
		specs[i] = s.randomSpec()
	}

	jobs := make(chan expenseSpec)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for spec := range jobs {
				_, err := s.tracker.AddExpense(ctx, spec.amount, spec.category, spec.description, spec.date, "")
				if err != nil {
					return fmt.Errorf("seed expense (%s, %.2f): %w", spec.category, spec.amount, err)
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, spec := range specs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- spec:
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Seeding completed",
		"count", count,
		"workers", s.workers)
	return count, nil
}

func (s *Seeder) randomSpec() expenseSpec {
	cat := s.profile.Categories[s.rng.Intn(len(s.profile.Categories))]

	amount := cat.MinAmount
	if cat.MaxAmount > cat.MinAmount {
		amount += s.rng.Float64() * (cat.MaxAmount - cat.MinAmount)
	}
	// Keep two decimal places like real receipts.
	amount = float64(int(amount*100)) / 100

	description := ""
	if len(cat.Descriptions) > 0 {
		description = cat.Descriptions[s.rng.Intn(len(cat.Descriptions))]
	}

	day := time.Now().AddDate(0, 0, -s.rng.Intn(s.profile.DaysBack))

	return expenseSpec{
		amount:      amount,
		category:    cat.Name,
		description: description,
		date:        core.DateOf(day),
	}
}
