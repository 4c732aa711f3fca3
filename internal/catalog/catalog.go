// Package catalog holds the read-only content catalog: the player, the NPC
// roster with their interaction trees and lessons, and the room configuration.
// Constructed once at startup; persona overrides are passed in explicitly so
// the catalog itself never touches storage or the environment.
package catalog

import (
	"fmt"

	"coderoom/internal/models"
)

// Catalog is the process-wide, read-only room content.
type Catalog struct {
	Config Config
	Player models.Character
	NPCs   []models.Character
}

// New builds a catalog from the built-in roster, rebinding the five generated
// teacher slots from the persona overrides when present. A nil or empty
// persona map yields the built-in defaults.
func New(cfg Config, personas models.TeacherPersonas) (*Catalog, error) {
	npcs := defaultRoster()
	for slot, npcID := range personaSlots {
		p, ok := personas[slot]
		if !ok {
			continue
		}
		for i := range npcs {
			if npcs[i].ID != npcID {
				continue
			}
			if p.Name != "" {
				npcs[i].Name = p.Name
			}
			// The persona's introduction replaces the opening line of the
			// NPC's first interaction.
			if intro := p.ExampleBehavior.Introduction; intro != "" && len(npcs[i].Interactions) > 0 {
				if len(npcs[i].Interactions[0].Dialogues) > 0 {
					npcs[i].Interactions[0].Dialogues[0].Text = intro
				}
			}
		}
	}

	player := defaultPlayer()
	seen := map[string]bool{player.ID: true}
	for i := range npcs {
		if err := npcs[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if seen[npcs[i].ID] {
			return nil, fmt.Errorf("catalog: duplicate character id %q", npcs[i].ID)
		}
		seen[npcs[i].ID] = true
	}

	return &Catalog{Config: cfg, Player: player, NPCs: npcs}, nil
}

// NPCByID returns the NPC with the given id.
func (c *Catalog) NPCByID(id string) (*models.Character, bool) {
	for i := range c.NPCs {
		if c.NPCs[i].ID == id {
			return &c.NPCs[i], true
		}
	}
	return nil, false
}

// ExampleByID looks up a code example within a lesson. A nil lesson or
// unknown id is a lookup miss, not an error.
func ExampleByID(lesson *models.LessonContent, id string) (*models.CodeExample, bool) {
	if lesson == nil {
		return nil, false
	}
	for i := range lesson.Examples {
		if lesson.Examples[i].ID == id {
			return &lesson.Examples[i], true
		}
	}
	return nil, false
}

// ExerciseByID looks up an exercise within a lesson.
func ExerciseByID(lesson *models.LessonContent, id string) (*models.Exercise, bool) {
	if lesson == nil {
		return nil, false
	}
	for i := range lesson.Exercises {
		if lesson.Exercises[i].ID == id {
			return &lesson.Exercises[i], true
		}
	}
	return nil, false
}
