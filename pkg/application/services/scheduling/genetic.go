package scheduling

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

// Options tunes the genetic search and carries the scheduler's optional
// event sink. Rand must be provided: injecting the source keeps test
// runs reproducible under a fixed seed.
type Options struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	Rand           *rand.Rand
	// Parallel evaluates each generation's fitness across cores.
	// Individuals share no mutable state, so no synchronization is
	// needed beyond the final ranking step.
	Parallel bool

	// Events receives a schedule.produced event per scheduling run
	// when set.
	Events events.Store
}

// DefaultOptions returns the standard search configuration
func DefaultOptions(rng *rand.Rand) Options {
	return Options{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.10,
		Rand:           rng,
		Parallel:       true,
	}
}

// individual is one candidate job ordering with its cached score
type individual struct {
	perm    []int
	fitness float64
}

// scheduleGenetic searches job orderings to minimize makespan. Each
// chromosome is a permutation of job indices decoded through the same
// greedy constructor the dispatch rules use.
func (s *Scheduler) scheduleGenetic(
	ctx context.Context, jobs []*entities.Job,
) (*entities.Schedule, error) {
	opts := s.genetic
	if opts.Rand == nil {
		return nil, fmt.Errorf("genetic search needs a random source: %w", planning.ErrInvalidInput)
	}
	if opts.PopulationSize <= 0 {
		opts.PopulationSize = 50
	}
	if opts.Generations <= 0 {
		opts.Generations = 100
	}
	if opts.MutationRate <= 0 {
		opts.MutationRate = 0.10
	}

	population := make([]individual, opts.PopulationSize)
	for i := range population {
		population[i] = individual{perm: opts.Rand.Perm(len(jobs))}
	}

	best := individual{fitness: -1}
	for gen := 0; gen < opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			// Deadline imposed by the caller: hand back the best
			// ordering found so far rather than nothing.
			if best.fitness >= 0 {
				return construct(applyPermutation(jobs, best.perm)), nil
			}
			return nil, err
		}

		if err := evaluate(ctx, population, jobs, opts.Parallel); err != nil {
			return nil, err
		}

		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})
		if population[0].fitness > best.fitness {
			best = individual{
				perm:    append([]int(nil), population[0].perm...),
				fitness: population[0].fitness,
			}
		}

		// Truncation selection: top half survives and breeds
		survivors := population[:opts.PopulationSize/2]
		next := make([]individual, 0, opts.PopulationSize)
		for _, p := range survivors {
			next = append(next, individual{perm: append([]int(nil), p.perm...)})
		}
		for len(next) < opts.PopulationSize {
			p1 := survivors[opts.Rand.Intn(len(survivors))]
			p2 := survivors[opts.Rand.Intn(len(survivors))]
			child := orderCrossover(p1.perm, p2.perm, opts.Rand)
			if opts.Rand.Float64() < opts.MutationRate {
				swapMutate(child, opts.Rand)
			}
			next = append(next, individual{perm: child})
		}
		population = next
	}

	if err := evaluate(ctx, population, jobs, opts.Parallel); err != nil {
		return nil, err
	}
	for _, ind := range population {
		if ind.fitness > best.fitness {
			best = ind
		}
	}

	return construct(applyPermutation(jobs, best.perm)), nil
}

// evaluate scores every individual; fitness rises as makespan falls
func evaluate(ctx context.Context, population []individual, jobs []*entities.Job, parallel bool) error {
	score := func(i int) {
		schedule := construct(applyPermutation(jobs, population[i].perm))
		population[i].fitness = 10000 / (schedule.MaxEnd() + 1)
	}

	if !parallel {
		for i := range population {
			score(i)
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range population {
		i := i
		g.Go(func() error {
			score(i)
			return nil
		})
	}
	return g.Wait()
}

// applyPermutation reorders jobs by chromosome gene order
func applyPermutation(jobs []*entities.Job, perm []int) []*entities.Job {
	ordered := make([]*entities.Job, len(perm))
	for i, gene := range perm {
		ordered[i] = jobs[gene]
	}
	return ordered
}

// orderCrossover copies a random slice of p1 verbatim, then fills the
// remaining positions left to right with p2's genes skipping any
// already present. The child is always a valid permutation.
func orderCrossover(p1, p2 []int, rng *rand.Rand) []int {
	n := len(p1)
	child := make([]int, n)
	for i := range child {
		child[i] = -1
	}

	lo := rng.Intn(n)
	hi := rng.Intn(n)
	if lo > hi {
		lo, hi = hi, lo
	}

	used := make(map[int]bool, hi-lo+1)
	for i := lo; i <= hi; i++ {
		child[i] = p1[i]
		used[p1[i]] = true
	}

	pos := 0
	for _, gene := range p2 {
		if used[gene] {
			continue
		}
		for child[pos] != -1 {
			pos++
		}
		child[pos] = gene
	}
	return child
}

// swapMutate exchanges two randomly chosen positions
func swapMutate(perm []int, rng *rand.Rand) {
	i := rng.Intn(len(perm))
	j := rng.Intn(len(perm))
	perm[i], perm[j] = perm[j], perm[i]
}
