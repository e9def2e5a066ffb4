// Package rotation turns ROTATION requests into simulations and their
// results into REPORT and SUMMARY messages.
package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"craftsim.ai/internal/protocol"
	"craftsim.ai/internal/sim/catalogs"
	"craftsim.ai/internal/sim/craft"
	"craftsim.ai/internal/sim/craft/actions"
	"craftsim.ai/internal/sim/tuning"
)

type Service struct {
	catalogs *catalogs.Catalogs
	tuning   tuning.Tuning
}

// New returns a service. cats may be nil, in which case only requests with
// an inline recipe and inline stats resolve.
func New(cats *catalogs.Catalogs, t tuning.Tuning) *Service {
	return &Service{catalogs: cats, tuning: t}
}

func (s *Service) Tuning() tuning.Tuning { return s.tuning }

// Plan is a request with every name resolved.
type Plan struct {
	Request    protocol.RotationRequest
	RecipeID   string
	CrafterID  string
	Recipe     craft.Craft
	Stats      craft.CrafterStats
	Actions    []craft.Action
	StepStates []craft.StepState
	MaxSteps   int
}

func (s *Service) Resolve(req protocol.RotationRequest) (*Plan, error) {
	p := &Plan{Request: req, RecipeID: req.RecipeID, CrafterID: req.CrafterID}

	switch {
	case req.Recipe != nil:
		if err := catalogs.ValidateRecipe(*req.Recipe); err != nil {
			return nil, protocol.Wrap(protocol.ErrBadRequest, err, "recipe")
		}
		p.Recipe = *req.Recipe
		if p.RecipeID == "" {
			p.RecipeID = p.Recipe.ID
		}
	case s.catalogs != nil:
		r, ok := s.catalogs.Recipe(req.RecipeID)
		if !ok {
			return nil, protocol.Errorf(protocol.ErrUnknownRecipe, "recipe %q", req.RecipeID)
		}
		p.Recipe = r
	default:
		return nil, protocol.Errorf(protocol.ErrUnknownRecipe, "recipe %q: no catalog loaded", req.RecipeID)
	}

	switch {
	case req.Stats != nil:
		st := catalogs.NormalizeStats(*req.Stats)
		if err := catalogs.ValidateStats(st); err != nil {
			return nil, protocol.Wrap(protocol.ErrBadRequest, err, "stats")
		}
		p.Stats = st
	case s.catalogs != nil:
		d, ok := s.catalogs.Crafter(req.CrafterID)
		if !ok {
			return nil, protocol.Errorf(protocol.ErrUnknownCrafter, "crafter %q", req.CrafterID)
		}
		p.Stats = d.Stats
	default:
		return nil, protocol.Errorf(protocol.ErrUnknownCrafter, "crafter %q: no catalog loaded", req.CrafterID)
	}

	list, err := actions.ParseAll(req.Actions)
	if err != nil {
		return nil, protocol.Wrap(protocol.ErrUnknownAction, err, "actions")
	}
	p.Actions = list

	for i, name := range req.StepStates {
		st, err := craft.ParseStepState(name)
		if err != nil {
			return nil, protocol.Wrap(protocol.ErrInvalidState, err, fmt.Sprintf("step_states[%d]", i))
		}
		p.StepStates = append(p.StepStates, st)
	}
	for i, f := range req.Fails {
		if f < 0 {
			return nil, protocol.Errorf(protocol.ErrBadRequest, "fails[%d]: negative step index %d", i, f)
		}
	}

	p.MaxSteps = s.tuning.Evaluation.StepBudget()
	if req.Mode.MaxSteps > 0 {
		p.MaxSteps = req.Mode.MaxSteps
	}
	return p, nil
}

// Build returns a fresh simulation for the plan, seeded with seed.
func (s *Service) Build(p *Plan, seed int64) (*craft.Simulation, error) {
	sim, err := craft.NewBuilder().
		Recipe(p.Recipe).
		Stats(p.Stats).
		Actions(p.Actions...).
		StepStates(p.StepStates...).
		Fails(p.Request.Fails...).
		ConditionRates(s.tuning.Conditions).
		Seed(seed).
		Build()
	if err != nil {
		var fe *craft.FieldError
		if errors.As(err, &fe) {
			return nil, protocol.Wrap(protocol.ErrBadRequest, err, fe.Field)
		}
		return nil, protocol.Wrap(protocol.ErrInternal, err, "build")
	}
	return sim, nil
}

// Evaluate runs the request once. A request without a seed gets a fresh
// one, recorded on the report so the run can be replayed.
func (s *Service) Evaluate(ctx context.Context, req protocol.RotationRequest) (protocol.ReportMsg, error) {
	if err := ctx.Err(); err != nil {
		return protocol.ReportMsg{}, err
	}
	p, err := s.Resolve(req)
	if err != nil {
		return protocol.ReportMsg{}, err
	}
	seed, err := requestSeed(req)
	if err != nil {
		return protocol.ReportMsg{}, err
	}
	sim, err := s.Build(p, seed)
	if err != nil {
		return protocol.ReportMsg{}, err
	}
	res := sim.RunWithFlags(req.Mode.Linear, p.MaxSteps, req.Mode.Safe)
	rep := Report(p, res)
	if !req.Mode.Linear {
		rep.Seed = &seed
	}
	return rep, nil
}

func requestSeed(req protocol.RotationRequest) (int64, error) {
	if req.Mode.Seed != nil {
		return *req.Mode.Seed, nil
	}
	if req.Mode.Linear {
		return 0, nil
	}
	seed, err := craft.NewSeed()
	if err != nil {
		return 0, protocol.Wrap(protocol.ErrInternal, err, "seed")
	}
	return seed, nil
}

// Pin returns a copy of req that replays rep without the catalogs: recipe
// and stats are inlined, the step budget is fixed and a randomized run
// carries the seed it ran with.
func (s *Service) Pin(req protocol.RotationRequest, rep protocol.ReportMsg) (protocol.RotationRequest, error) {
	p, err := s.Resolve(req)
	if err != nil {
		return req, err
	}
	out := req
	recipe := p.Recipe
	stats := p.Stats
	out.Recipe = &recipe
	out.Stats = &stats
	out.RecipeID = p.RecipeID
	out.CrafterID = p.CrafterID
	out.Actions = append([]string(nil), req.Actions...)
	out.StepStates = append([]string(nil), req.StepStates...)
	out.Fails = append([]int(nil), req.Fails...)
	if out.Mode.MaxSteps <= 0 {
		out.Mode.MaxSteps = s.tuning.Evaluation.MaxSteps
	}
	if !req.Mode.Linear && rep.Seed != nil {
		seed := *rep.Seed
		out.Mode.Seed = &seed
	}
	return out, nil
}

// Report converts a finished run into a REPORT message.
func Report(p *Plan, res craft.SimulationResult) protocol.ReportMsg {
	rep := protocol.ReportMsg{
		Type:            protocol.TypeReport,
		ProtocolVersion: protocol.Version,
		RequestID:       p.Request.ID,
		RecipeID:        p.RecipeID,
		CrafterID:       p.CrafterID,
		Steps:           make([]protocol.StepRecord, 0, len(res.Steps)),
		Success:         res.Success,
		FailCause:       string(res.FailCause),
		HQPercent:       res.HQPercent,
		Digest:          res.Digest(),
	}
	for i, st := range res.Steps {
		rep.Steps = append(rep.Steps, protocol.StepRecord{
			Index:                i,
			Action:               st.ActionID().String(),
			Outcome:              st.Success.String(),
			FailCause:            string(st.FailCause),
			Skipped:              st.Skipped,
			State:                st.State.String(),
			Combo:                st.Combo,
			AddedProgress:        st.AddedProgress,
			AddedQuality:         st.AddedQuality,
			CPDifference:         st.CPDifference,
			DurabilityDifference: st.DurabilityDifference,
			AfterBuffTick:        st.AfterBuffTick,
		})
	}
	if sim := res.Simulation; sim != nil {
		rep.Progress = sim.Progress
		rep.Quality = sim.Quality
		rep.Durability = sim.Durability
		rep.CP = sim.AvailableCP
		rep.Buffs = sim.Buffs()
		rep.Safe = sim.Safe()
	}
	return rep
}

// ValidateReport checks a report against the embedded REPORT schema.
func ValidateReport(rep protocol.ReportMsg) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return protocol.ValidateJSON(protocol.SchemaReport, raw)
}
