package models

import "time"

// Warn representa una advertencia individual
type Warn struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Moderator string    `json:"moderator"`
	Timestamp time.Time `json:"timestamp"`
}

// WarnsCollection agrupa las advertencias por usuario.
// El orden de cada lista es el orden de inserción (cronológico).
type WarnsCollection map[string][]Warn
