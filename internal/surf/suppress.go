package surf

import "math"

// Suppress runs the cross-scale pass and then the spatial-cluster pass over
// the candidates of det, returning the surviving candidates in detection
// order.
func Suppress(det *Detection, cfg Config) []Candidate {
	crossed := SuppressCrossScale(det.Maps, det.Candidates, cfg.CrossScaleMargin)
	return SuppressClusters(crossed, cfg.ClusterRadiusFactor)
}

// SuppressCrossScale drops every candidate for which some finer level (a
// smaller filter size) responds more than margin times as strongly at the
// same location. Such a candidate is the coarse echo of a small blob rather
// than a blob of its own size. Coarser levels never veto.
//
// maps must be indexed by level, as Detection.Maps is. The input slice is
// not modified.
func SuppressCrossScale(maps []*ResponseMap, candidates []Candidate, margin float64) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !vetoedByFinerLevel(maps, c, margin) {
			out = append(out, c)
		}
	}
	return out
}

func vetoedByFinerLevel(maps []*ResponseMap, c Candidate, margin float64) bool {
	for _, m := range maps {
		if m.Level.FilterSize >= c.Level.FilterSize {
			continue
		}
		if m.At(c.X, c.Y) > margin*c.Response {
			return true
		}
	}
	return false
}

// SuppressClusters removes duplicate detections of the same blob. For every
// pair of candidates closer than radiusFactor times the filter size of the
// weaker one, the weaker candidate is dropped; with equal responses the one
// later in detection order is dropped.
//
// Every pair is judged against the full input, so a candidate dropped by a
// stronger neighbour still suppresses its own weaker neighbours. The
// relative order of the survivors is preserved.
func SuppressClusters(candidates []Candidate, radiusFactor float64) []Candidate {
	dropped := make([]bool, len(candidates))
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			weak := j
			if candidates[j].Response > candidates[i].Response {
				weak = i
			}
			radius := radiusFactor * float64(candidates[weak].Level.FilterSize)
			dx := float64(candidates[i].X - candidates[j].X)
			dy := float64(candidates[i].Y - candidates[j].Y)
			if math.Hypot(dx, dy) <= radius {
				dropped[weak] = true
			}
		}
	}

	out := make([]Candidate, 0, len(candidates))
	for i, c := range candidates {
		if !dropped[i] {
			out = append(out, c)
		}
	}
	return out
}
