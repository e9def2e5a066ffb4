package rotation

import (
	"context"
	"math"

	"craftsim.ai/internal/protocol"
)

// MonteCarlo runs the request runs times with consecutive seeds and
// summarises the outcomes. Without a request seed the first seed is drawn
// fresh. runs <= 0 uses the tuning default.
func (s *Service) MonteCarlo(ctx context.Context, req protocol.RotationRequest, runs int) (protocol.SummaryMsg, error) {
	if runs <= 0 {
		runs = max(s.tuning.Evaluation.MonteCarloRuns, 1)
	}
	p, err := s.Resolve(req)
	if err != nil {
		return protocol.SummaryMsg{}, err
	}
	base, err := requestSeed(req)
	if err != nil {
		return protocol.SummaryMsg{}, err
	}
	if req.Mode.Seed == nil && req.Mode.Linear {
		// Linear runs never roll; one is as good as many.
		runs = 1
	}

	sum := protocol.SummaryMsg{
		Type:            protocol.TypeSummary,
		ProtocolVersion: protocol.Version,
		RequestID:       req.ID,
		RecipeID:        p.RecipeID,
		CrafterID:       p.CrafterID,
		MinQuality:      math.MaxUint32,
	}
	var hq, quality float64
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return protocol.SummaryMsg{}, err
		}
		sim, err := s.Build(p, base+int64(i))
		if err != nil {
			return protocol.SummaryMsg{}, err
		}
		res := sim.RunWithFlags(req.Mode.Linear, p.MaxSteps, req.Mode.Safe)
		sum.Runs++
		if res.Success {
			sum.Successes++
		} else if res.FailCause != "" {
			if sum.FailCauses == nil {
				sum.FailCauses = map[string]int{}
			}
			sum.FailCauses[string(res.FailCause)]++
		}
		hq += float64(res.HQPercent)
		quality += float64(sim.Quality)
		sum.MinQuality = min(sum.MinQuality, sim.Quality)
		sum.MaxQuality = max(sum.MaxQuality, sim.Quality)
	}
	sum.SuccessRate = float64(sum.Successes) / float64(sum.Runs)
	sum.MeanHQPercent = hq / float64(sum.Runs)
	sum.MeanQuality = quality / float64(sum.Runs)
	return sum, nil
}
