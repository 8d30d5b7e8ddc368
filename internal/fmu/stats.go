package fmu

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/osi-field-checker/internal/report"
)

// runStats collects per-step figures for the run summary.
type runStats struct {
	steps   int
	objects []float64
}

func (s *runStats) step() { s.steps++ }

// checked records a step whose input was checked and forwarded.
func (s *runStats) checked(movingObjects int) {
	s.objects = append(s.objects, float64(movingObjects))
}

func (s *runStats) reset() {
	s.steps = 0
	s.objects = s.objects[:0]
}

func (s *runStats) summary() report.Summary {
	sum := report.Summary{Steps: s.steps, CheckedSteps: len(s.objects)}
	if len(s.objects) == 0 {
		return sum
	}
	sum.MeanObjects = stat.Mean(s.objects, nil)
	sum.MaxObjects = int(floats.Max(s.objects))
	return sum
}
