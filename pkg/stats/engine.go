// Package stats implements the match log and the derived team
// aggregates. The invariant it maintains: for every team, Played equals
// the number of logged matches naming it and Won equals the number it
// strictly outscored its rival in. Aggregates are updated only through
// RegisterMatch; on load they are recomputed as a fold over the log to
// heal a crash window between the two saves of a registration.
package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/errors"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/models"
	"github.com/VolleyStudios/VolleyBotGo/pkg/store"
)

// DrawLabel is the winner label used when a match ends in a tie
const DrawLabel = "Empate"

// Engine owns the match log and team aggregates
type Engine struct {
	mu      sync.Mutex
	matches *store.Collection[models.MatchLog]
	teams   *store.Collection[models.TeamsCollection]
	log     models.MatchLog
	stats   models.TeamsCollection
}

// Summary is the presentation view of a team's record
type Summary struct {
	Name      string
	Played    int
	Won       int
	WinRate   float64
	LastMatch *models.Match
}

// NewEngine loads both collections. If the stored aggregates disagree
// with the fold over the match log (partial-write crash window), the
// recomputed aggregates win and are persisted.
func NewEngine(s *store.Store) (*Engine, error) {
	e := &Engine{
		matches: store.NewCollection[models.MatchLog](store.CollectionMatches, s),
		teams:   store.NewCollection[models.TeamsCollection](store.CollectionTeams, s),
	}

	var err error
	e.log, err = e.matches.Load(models.MatchLog{})
	if err != nil {
		return nil, err
	}
	e.stats, err = e.teams.Load(models.TeamsCollection{})
	if err != nil {
		return nil, err
	}

	if folded := fold(e.log); !statsEqual(e.stats, folded) {
		logger.Warn("Estadísticas de equipos desincronizadas del historial; recalculando", "Stats")
		e.stats = folded
		if err := e.teams.Save(e.stats); err != nil {
			logger.Error(fmt.Sprintf("Error guardando estadísticas recalculadas: %v", err), "Stats")
		}
	}

	logger.System(fmt.Sprintf("Historial cargado: %d partidos, %d equipos", len(e.log), len(e.stats)), "Stats")

	return e, nil
}

// RegisterMatch appends a match to the log, updates both teams'
// aggregates and persists the two collections (two independent saves,
// not atomic as a pair). It returns the new match and the winner label:
// the winning team's name, or DrawLabel on a tie.
//
// Team names are taken as-is; an unseen name lazily creates its entry.
func (e *Engine) RegisterMatch(teamA, teamB string, scoreA, scoreB int) (*models.Match, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	match := models.Match{
		TeamA:     teamA,
		TeamB:     teamB,
		ScoreA:    scoreA,
		ScoreB:    scoreB,
		Timestamp: time.Now().UTC(),
	}
	e.log = append(e.log, match)

	for _, name := range []string{teamA, teamB} {
		entry, ok := e.stats[name]
		if !ok {
			entry = &models.TeamStats{Name: name}
			e.stats[name] = entry
		}
		entry.Played++
	}

	winner := DrawLabel
	if w := match.Winner(); w != "" {
		e.stats[w].Won++
		winner = w
	}

	// Persistence failures leave memory ahead of disk; no rollback.
	if err := e.matches.Save(e.log); err != nil {
		return &match, winner, err
	}
	if err := e.teams.Save(e.stats); err != nil {
		return &match, winner, err
	}

	return &match, winner, nil
}

// TeamSummary returns the aggregate view for a team, or ErrNotFound if
// it has never appeared in a registered match.
func (e *Engine) TeamSummary(name string) (*Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.stats[name]
	if !ok || entry.Played == 0 {
		return nil, fmt.Errorf("equipo '%s': %w", name, errors.ErrNotFound)
	}

	summary := &Summary{
		Name:    name,
		Played:  entry.Played,
		Won:     entry.Won,
		WinRate: float64(entry.Won) / float64(entry.Played) * 100,
	}

	for i := len(e.log) - 1; i >= 0; i-- {
		if e.log[i].Involves(name) {
			m := e.log[i]
			summary.LastMatch = &m
			break
		}
	}

	return summary, nil
}

// History returns up to limit matches, most recent first
func (e *Engine) History(limit int) []models.Match {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.log)
	if limit > n {
		limit = n
	}
	out := make([]models.Match, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, e.log[i])
	}
	return out
}

// MatchCount returns the total number of logged matches
func (e *Engine) MatchCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.log)
}

// Teams returns a copy of the aggregates mapping
func (e *Engine) Teams() models.TeamsCollection {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(models.TeamsCollection, len(e.stats))
	for name, entry := range e.stats {
		cp := *entry
		out[name] = &cp
	}
	return out
}

// Recompute folds the aggregates from the current match log and returns
// them without touching the engine's state
func (e *Engine) Recompute() models.TeamsCollection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fold(e.log)
}

// fold builds team aggregates from scratch out of a match log
func fold(log models.MatchLog) models.TeamsCollection {
	stats := make(models.TeamsCollection)
	for _, m := range log {
		for _, name := range []string{m.TeamA, m.TeamB} {
			entry, ok := stats[name]
			if !ok {
				entry = &models.TeamStats{Name: name}
				stats[name] = entry
			}
			entry.Played++
		}
		if w := m.Winner(); w != "" {
			stats[w].Won++
		}
	}
	return stats
}

// statsEqual compares two aggregate mappings by value
func statsEqual(a, b models.TeamsCollection) bool {
	if len(a) != len(b) {
		return false
	}
	for name, ea := range a {
		eb, ok := b[name]
		if !ok || ea.Played != eb.Played || ea.Won != eb.Won {
			return false
		}
	}
	return true
}
