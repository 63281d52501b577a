package solver

import "time"

// Sample is one coarse evaluation of a scalar function.
type Sample struct {
	Time  time.Time
	Value float64
}

// DiscreteSample is one coarse evaluation of an integer-state function.
type DiscreteSample struct {
	Time  time.Time
	State int
}

// SampleGrid evaluates f on a fixed grid from start to end (inclusive
// of the final point) with the given step. Evaluation errors skip the
// point: a sparse grid degrades bracketing, it does not abort the scan.
//
// The default grid for slow bodies is one sample per day; fast movers
// like the Moon need a finer step so the bracket never spans more than
// half a cycle of the metric.
func SampleGrid(f Func, start, end time.Time, step time.Duration) []Sample {
	if step <= 0 || !start.Before(end) {
		return nil
	}

	n := int(end.Sub(start)/step) + 2
	samples := make([]Sample, 0, n)

	for t := start; !t.After(end); t = t.Add(step) {
		v, err := f(t)
		if err != nil {
			continue
		}
		samples = append(samples, Sample{Time: t, Value: v})
	}
	return samples
}

// SampleDiscrete is SampleGrid for integer-state functions.
func SampleDiscrete(f DiscreteFunc, start, end time.Time, step time.Duration) []DiscreteSample {
	if step <= 0 || !start.Before(end) {
		return nil
	}

	n := int(end.Sub(start)/step) + 2
	samples := make([]DiscreteSample, 0, n)

	for t := start; !t.After(end); t = t.Add(step) {
		s, err := f(t)
		if err != nil {
			continue
		}
		samples = append(samples, DiscreteSample{Time: t, State: s})
	}
	return samples
}
