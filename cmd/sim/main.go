package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"mandat-lite/card"
	"mandat-lite/mandat"
	"mandat-lite/mandat/ai"
	"mandat-lite/replay"
)

// sim runs an AI-only session to completion and prints the standings.
// Useful for balancing the base catalog and for generating transcripts.

const maxSteps = 10000

func main() {
	players := flag.Int("players", 4, "number of AI seats (2-6)")
	tiers := flag.String("tiers", "", "comma-separated tiers per seat (easy|medium|hard), cycled")
	seed := flag.Int64("seed", 1, "rng seed (0 = time-based, not reproducible)")
	rounds := flag.Int("rounds", 0, "override max rounds")
	threshold := flag.Int("threshold", 0, "override mandate threshold")
	noCoalitions := flag.Bool("no-coalitions", false, "block coalition formation")
	out := flag.String("out", "", "write the session transcript to this file")
	verbose := flag.Bool("v", false, "print the per-round session log")
	flag.Parse()

	if err := run(*players, *tiers, *seed, *rounds, *threshold, *noCoalitions, *out, *verbose); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(players int, tiers string, seed int64, rounds, threshold int, noCoalitions bool, out string, verbose bool) error {
	cfg := mandat.DefaultConfig()
	cfg.Seed = seed
	cfg.CoalitionsBlocked = noCoalitions
	if rounds > 0 {
		cfg.MaxRounds = rounds
	}
	if threshold > 0 {
		cfg.MandateThreshold = threshold
	}
	if players < cfg.MinPlayers || players > cfg.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", cfg.MinPlayers, cfg.MaxPlayers)
	}

	catalog := card.BaseCatalog()
	engine, err := mandat.NewEngine(cfg, catalog)
	if err != nil {
		return err
	}

	manager := ai.NewManager(catalog, seed+1)
	recorder := replay.NewRecorder("sim_local", cfg)
	state := engine.NewSession("sim_local")

	tierList := parseTiers(tiers)
	pterm.DefaultSection.Println("Seats")
	for i := 0; i < players; i++ {
		tier := tierList[i%len(tierList)]
		id := fmt.Sprintf("ai_%d", i+1)
		join := mandat.Action{
			Type:     mandat.ActionTypeJoin,
			PlayerID: id,
			Name:     fmt.Sprintf("Bot %d (%s)", i+1, tier),
			AI:       true,
			AITier:   string(tier),
		}
		if state, err = apply(engine, recorder, state, join); err != nil {
			return err
		}
		manager.Register(id, tier)
		pterm.Info.Printfln("%s joins as %s", id, tier)
	}

	start := mandat.Action{Type: mandat.ActionTypeStart, PlayerID: state.Players[0].ID}
	if state, err = apply(engine, recorder, state, start); err != nil {
		return err
	}

	steps := 0
	for state.Status == mandat.StatusActive {
		pending := manager.Pending(state)
		if len(pending) == 0 {
			return fmt.Errorf("session stalled in phase %s round %d", state.Phase, state.Round)
		}
		action, ok := manager.Decide(state, pending[0])
		if !ok {
			return fmt.Errorf("policy for %s returned no action in phase %s", pending[0], state.Phase)
		}
		if state, err = apply(engine, recorder, state, action); err != nil {
			return err
		}
		if steps++; steps > maxSteps {
			return fmt.Errorf("session did not finish within %d steps", maxSteps)
		}
	}

	if verbose {
		pterm.DefaultSection.Println("Session log")
		for _, entry := range state.Log {
			pterm.Printfln("r%d %-12s %s", entry.Round, entry.Kind, entry.Message)
		}
	}

	printStandings(state)

	if out != "" {
		if err := replay.SaveFile(out, recorder.Transcript()); err != nil {
			return err
		}
		pterm.Success.Printfln("transcript written to %s", out)
	}
	return nil
}

func apply(engine *mandat.Engine, rec *replay.Recorder, s *mandat.SessionState, a mandat.Action) (*mandat.SessionState, error) {
	next, err := engine.Apply(s, a)
	if err != nil {
		return nil, fmt.Errorf("%s by %s: %w", a.Type, a.PlayerID, err)
	}
	rec.Append(a)
	return next, nil
}

func parseTiers(raw string) []ai.Tier {
	if raw == "" {
		return []ai.Tier{ai.TierEasy, ai.TierMedium, ai.TierHard}
	}
	var out []ai.Tier
	for _, part := range strings.Split(raw, ",") {
		tier, err := ai.ParseTier(part)
		if err != nil {
			pterm.Warning.Printfln("%v, using medium", err)
			tier = ai.TierMedium
		}
		out = append(out, tier)
	}
	return out
}

func printStandings(s *mandat.SessionState) {
	pterm.DefaultSection.Printfln("Final standings after round %d", s.Round)

	rows := pterm.TableData{{"Player", "Mandates", "Last Influence", "Result"}}
	for _, p := range s.Players {
		result := ""
		if p.ID == s.VictorID {
			result = pterm.LightGreen("victor")
		} else if contains(s.WinnerIDs, p.ID) {
			result = pterm.LightCyan("shared win")
		}
		rows = append(rows, []string{p.Name, fmt.Sprint(p.Mandates), fmt.Sprint(p.EffectiveInfluence()), result})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
