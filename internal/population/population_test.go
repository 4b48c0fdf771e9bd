package population

import (
	"errors"
	"math"
	"slices"
	"testing"

	"hivsim/pkg/core"
)

func mustFromAgents(t *testing.T, agents []Agent) *Population {
	t.Helper()
	pop, err := FromAgents(agents)
	if err != nil {
		t.Fatalf("FromAgents: %v", err)
	}
	return pop
}

func TestCreateRejectsNonPositiveSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := Create(n, DefaultOptions(), core.NewRNG(1))
		if !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Create(%d) err = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestCreateRejectsInvalidOptions(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Options)
	}{
		{"negative ages", func(o *Options) { o.AgeMin, o.AgeMax = -10, -5 }},
		{"inverted ages", func(o *Options) { o.AgeMax = o.AgeMin }},
		{"infinite age", func(o *Options) { o.AgeMax = math.Inf(1) }},
		{"nan male fraction", func(o *Options) { o.MaleFraction = math.NaN() }},
		{"male fraction above one", func(o *Options) { o.MaleFraction = 1.5 }},
		{"zero severity success", func(o *Options) { o.SeveritySuccess = 0 }},
		{"severity success above one", func(o *Options) { o.SeveritySuccess = 1.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mut(&opts)
			if _, err := Create(5, opts, core.NewRNG(1)); !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("err = %v, want ErrInvalidOptions", err)
			}
		})
	}

	if _, err := Create(5, Options{}, core.NewRNG(1)); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("zero Options err = %v, want ErrInvalidOptions", err)
	}
}

func TestFromAgentsRejectsNegativeAge(t *testing.T) {
	for _, age := range []float64{-3, math.NaN(), math.Inf(1)} {
		if _, err := FromAgents([]Agent{{ID: 0, Age: 16}, {ID: 1, Age: age}}); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("age %v: err = %v, want ErrInvalidOptions", age, err)
		}
	}
}

func TestCreateDrawsWithinBounds(t *testing.T) {
	pop, err := Create(5000, DefaultOptions(), core.NewRNG(23))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pop.Len() != 5000 {
		t.Fatalf("Len = %d, want 5000", pop.Len())
	}
	for i, id := range pop.IDs() {
		if id != i {
			t.Fatalf("id at %d = %d", i, id)
		}
	}
	for i, a := range pop.Ages() {
		if a < 15 || a >= 20 {
			t.Fatalf("agent %d age %f outside [15,20)", i, a)
		}
	}
	for i, s := range pop.Severity() {
		if s > MaxSeverity {
			t.Fatalf("agent %d severity %d above max", i, s)
		}
	}

	st := pop.Summary()
	if frac := float64(st.BySeverity[0]) / float64(st.Size); frac < 0.87 || frac > 0.93 {
		t.Fatalf("expected ~90%% susceptible, got %.3f", frac)
	}
	if frac := float64(st.Males) / float64(st.Size); frac < 0.45 || frac > 0.55 {
		t.Fatalf("expected ~50%% males, got %.3f", frac)
	}
}

func TestCreateDeterministic(t *testing.T) {
	a, _ := Create(200, DefaultOptions(), core.NewRNG(99))
	b, _ := Create(200, DefaultOptions(), core.NewRNG(99))
	if !slices.Equal(a.Ages(), b.Ages()) || !slices.Equal(a.Severity(), b.Severity()) || !slices.Equal(a.Sexes(), b.Sexes()) {
		t.Fatal("same seed produced different populations")
	}
}

func TestCreateAllSusceptible(t *testing.T) {
	opts := DefaultOptions()
	opts.SeveritySuccess = 1
	pop, err := Create(1000, opts, core.NewRNG(5))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := pop.Infected(); got != 0 {
		t.Fatalf("Infected = %d, want 0", got)
	}
	if got := pop.Prevalence(); got != 0 {
		t.Fatalf("Prevalence = %f, want 0", got)
	}
}

func TestPrevalence(t *testing.T) {
	pop := mustFromAgents(t, []Agent{
		{ID: 0, Severity: 1},
		{ID: 1, Severity: 0},
		{ID: 2, Severity: 4},
		{ID: 3, Severity: 0},
	})
	if got := pop.Prevalence(); got != 0.5 {
		t.Fatalf("Prevalence = %f, want 0.5", got)
	}
}

func TestEmptyPopulationIsDefined(t *testing.T) {
	empty := mustFromAgents(t, nil)
	if got := empty.Prevalence(); got != 0 {
		t.Fatalf("empty Prevalence = %f", got)
	}
	if st := empty.Summary(); st != (Stats{}) {
		t.Fatalf("empty Summary = %+v", st)
	}
	var nilPop *Population
	if nilPop.Len() != 0 || nilPop.Prevalence() != 0 {
		t.Fatal("nil population should report zero")
	}
}

func TestSummary(t *testing.T) {
	pop := mustFromAgents(t, []Agent{
		{ID: 0, Sex: Male, Age: 16, Severity: 0},
		{ID: 1, Sex: Female, Age: 18, Severity: 1},
		{ID: 2, Sex: Male, Age: 20, Severity: 9},
	})
	st := pop.Summary()
	if st.Size != 3 || st.Males != 2 || st.Females != 1 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if st.Youngest != 16 || st.Oldest != 20 || math.Abs(st.MeanAge-18) > 1e-9 {
		t.Fatalf("unexpected ages: %+v", st)
	}
	want := [MaxSeverity + 1]int{1, 1, 0, 0, 0, 1}
	if st.BySeverity != want {
		t.Fatalf("BySeverity = %v, want %v", st.BySeverity, want)
	}
	if st.Infected != 2 {
		t.Fatalf("Infected = %d, want 2", st.Infected)
	}
}

func TestPermuteKeepsRowsTogether(t *testing.T) {
	pop, _ := Create(100, DefaultOptions(), core.NewRNG(8))
	before := pop.Snapshot()
	pop.Permute(core.NewRNG(9))
	after := pop.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("permute changed size: %d -> %d", len(before), len(after))
	}
	for id, a := range before {
		if after[id] != a {
			t.Fatalf("agent %d changed: %+v -> %+v", id, a, after[id])
		}
	}
}
