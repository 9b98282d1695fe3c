package models

import "time"

// Match representa un partido registrado. Inmutable una vez creado.
type Match struct {
	TeamA     string    `json:"equipo1"`
	TeamB     string    `json:"equipo2"`
	ScoreA    int       `json:"puntos1"`
	ScoreB    int       `json:"puntos2"`
	Timestamp time.Time `json:"timestamp"`
}

// MatchLog es la secuencia de partidos, del más antiguo al más reciente.
type MatchLog []Match

// Involves reports whether the given team played in this match.
func (m Match) Involves(name string) bool {
	return m.TeamA == name || m.TeamB == name
}

// Winner returns the winning team name, or "" on a draw.
func (m Match) Winner() string {
	switch {
	case m.ScoreA > m.ScoreB:
		return m.TeamA
	case m.ScoreB > m.ScoreA:
		return m.TeamB
	default:
		return ""
	}
}

// TeamStats acumula los totales de un equipo. Solo el motor de
// estadísticas debe modificarlos.
type TeamStats struct {
	Name   string `json:"name"`
	Played int    `json:"jugados"`
	Won    int    `json:"ganados"`
}

// TeamsCollection mapea nombre de equipo a sus estadísticas.
type TeamsCollection map[string]*TeamStats
