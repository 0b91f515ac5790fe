package episode

import (
	"context"
	"fmt"
	"log"

	"gridlife.ai/internal/protocol"
	"gridlife.ai/internal/sim/tuning"
	"gridlife.ai/internal/sim/world"
)

type Config struct {
	Tuning   tuning.Tuning
	Seed     int64
	Episodes int
	RunID    string
}

// Runner executes Config.Episodes fully independent episodes. Episode e
// seeds its world with Seed+e-1, so a run is reproducible from (tuning,
// seed) alone.
type Runner struct {
	cfg      Config
	provider DecisionProvider
	logger   *log.Logger

	emitter Emitter
	tickLog TickLogger
	history HistoryRecorder
}

func NewRunner(cfg Config, provider DecisionProvider, logger *log.Logger) *Runner {
	if cfg.Episodes <= 0 {
		cfg.Episodes = 1
	}
	return &Runner{cfg: cfg, provider: provider, logger: logger}
}

func (r *Runner) SetEmitter(e Emitter)         { r.emitter = e }
func (r *Runner) SetTickLogger(l TickLogger)   { r.tickLog = l }
func (r *Runner) SetHistory(h HistoryRecorder) { r.history = h }

// Run drives all configured episodes. Cancellation is honored at tick
// boundaries only: a tick is either fully committed or not started, and a
// cancelled episode emits no summary.
func (r *Runner) Run(ctx context.Context) error {
	for ep := 1; ep <= r.cfg.Episodes; ep++ {
		if err := r.runEpisode(ctx, ep); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runEpisode(ctx context.Context, ep int) error {
	w, err := world.New(r.cfg.Tuning, r.cfg.Seed+int64(ep-1))
	if err != nil {
		return fmt.Errorf("episode %d: %w", ep, err)
	}

	coop, agg, neutral := w.PersonalityCensus()
	r.logger.Printf("episode %d/%d: %d cooperative, %d aggressive, %d neutral",
		ep, r.cfg.Episodes, coop, agg, neutral)
	if r.emitter != nil {
		r.emitter.EmitEpisodeStart(protocol.EpisodeStartMsg{
			Type:            protocol.TypeEpisodeStart,
			ProtocolVersion: protocol.Version,
			RunID:           r.cfg.RunID,
			Episode:         ep,
			Personalities:   protocol.PersonalityCount{Cooperative: coop, Aggressive: agg, Neutral: neutral},
		})
	}

	every := r.cfg.Tuning.SnapshotEveryTicks
	for w.Tick() < r.cfg.Tuning.EpisodeTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		obs := w.ObserveLive()
		live := w.LiveAgentIDs()
		actions := r.sanitize(r.provider.SelectActions(obs, live), w)
		res := w.Step(actions)

		if r.tickLog != nil {
			var sum float64
			for _, v := range res.Rewards {
				sum += v
			}
			_ = r.tickLog.WriteTick(TickLogEntry{
				RunID:      r.cfg.RunID,
				Episode:    ep,
				Tick:       res.Tick,
				LiveAgents: len(live),
				RewardSum:  sum,
				Events:     res.Events,
			})
		}
		if r.emitter != nil && every > 0 && w.Tick()%every == 0 {
			r.emitter.EmitSnapshot(w.ExportSnapshot(r.cfg.RunID, ep))
		}
	}

	summary := w.ExportSummary(r.cfg.RunID, ep)
	r.logger.Printf("episode %d done: survival %.1f%%, avg health %.1f, %d cooperations, %d thefts, %d stable alliances",
		ep, summary.SurvivalRate*100, summary.AvgHealth,
		summary.CooperationEvents, summary.TheftEvents, summary.StableAlliances)
	if r.emitter != nil {
		r.emitter.EmitSummary(summary)
	}
	if r.history != nil {
		if err := r.history.RecordSummary(summary); err != nil {
			r.logger.Printf("record summary: %v", err)
		}
	}
	return nil
}

// sanitize enforces the provider contract: actions for unknown or
// incapacitated agents are dropped, unknown action kinds are downgraded to
// Idle with a warning. Live agents without an entry implicitly idle.
func (r *Runner) sanitize(actions map[int]world.Action, w *world.World) map[int]world.Action {
	out := make(map[int]world.Action, len(actions))
	for id, ac := range actions {
		a := w.Agent(id)
		if a == nil || !a.Alive {
			continue
		}
		if ac.Kind < 0 || ac.Kind > world.ActionIdle {
			r.logger.Printf("agent %d: invalid action kind %d, idling", id, ac.Kind)
			ac = world.Idle
		}
		out[id] = ac
	}
	return out
}

// FromIndices adapts a raw index provider to the typed interface.
// Out-of-range indices decode to Idle and are logged as warnings.
func FromIndices(p IndexProvider, logger *log.Logger) DecisionProvider {
	return indexAdapter{p: p, logger: logger}
}

type indexAdapter struct {
	p      IndexProvider
	logger *log.Logger
}

func (ia indexAdapter) SelectActions(obs map[int][]float64, live []int) map[int]world.Action {
	raw := ia.p.SelectActionIndices(obs, live)
	out := make(map[int]world.Action, len(raw))
	for id, idx := range raw {
		ac, ok := world.DecodeIndex(idx)
		if !ok && ia.logger != nil {
			ia.logger.Printf("agent %d: action index %d out of range, idling", id, idx)
		}
		out[id] = ac
	}
	return out
}
