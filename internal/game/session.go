// Package game implements the room session engine: player movement,
// proximity-triggered dialogue, the dialogue state machine, and the
// bookkeeping around exercise runs.
package game

import (
	"sync"
	"time"

	"coderoom/internal/catalog"
	"coderoom/internal/models"
)

// Session owns all mutable state of one player's visit to the room. The
// catalog it references is read-only and shared across sessions.
type Session struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog

	playerPos       models.Position
	active          *models.ActiveDialogue
	completed       map[string]struct{}
	currentExample  *models.CodeExample
	currentExercise *models.Exercise
	editor          models.CodeEditorState

	// runEpoch increments whenever the current exercise context changes, so a
	// stale evaluator completion can be recognized and dropped.
	runEpoch     int
	lastAccessed time.Time
}

// NewSession starts a session with the player at the catalog's initial
// position and nothing completed.
func NewSession(cat *catalog.Catalog) *Session {
	return &Session{
		catalog:      cat,
		playerPos:    cat.Player.InitialPosition,
		completed:    make(map[string]struct{}),
		lastAccessed: time.Now(),
	}
}

// Touch updates the last access time.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = time.Now()
}

// GetLastAccessed returns the last access time.
func (s *Session) GetLastAccessed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccessed
}

// PlayerPos returns the player's current position.
func (s *Session) PlayerPos() models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerPos
}

// ActiveDialogue returns the open dialogue context, or nil when idle.
func (s *Session) ActiveDialogue() *models.ActiveDialogue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	cp := *s.active
	return &cp
}

// CurrentExample returns the example panel content, if any.
func (s *Session) CurrentExample() *models.CodeExample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentExample
}

// CurrentExercise returns the exercise panel content, if any.
func (s *Session) CurrentExercise() *models.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentExercise
}

// Editor returns the code editor state.
func (s *Session) Editor() models.CodeEditorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editor
}

// SetCode updates the editor buffer without touching output or run state.
func (s *Session) SetCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Code = code
}

// HasCompleted reports whether the given lesson/exercise id is in the
// completed set.
func (s *Session) HasCompleted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.completed[id]
	return ok
}

// CompletedLessons returns a copy of the completed set.
func (s *Session) CompletedLessons() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.completed))
	for id := range s.completed {
		out = append(out, id)
	}
	return out
}

// RestoreCompleted seeds the completed set, e.g. from a persisted progress
// save. The set only ever grows.
func (s *Session) RestoreCompleted(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.completed[id] = struct{}{}
	}
}

// MovePlayer applies one movement step and re-evaluates proximity triggers.
func (s *Session) MovePlayer(dir models.Direction) models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	bounds := Bounds{Width: s.catalog.Config.Grid.Width, Height: s.catalog.Config.Grid.Height}
	s.playerPos = Move(s.playerPos, dir, s.catalog.Player.MovementSpeed, bounds)
	s.checkInteractions()
	return s.playerPos
}

// CheckInteractions re-runs the proximity scan at the current position.
func (s *Session) CheckInteractions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkInteractions()
}

// checkInteractions drives the Idle/Open transitions. While a dialogue is
// open only its own NPC is re-checked: leaving the satisfied interaction's
// range force-closes, discarding progress through the tree. While idle, NPCs
// are scanned in catalog order and the first in-range interaction whose first
// gate-satisfied dialogue exists wins.
func (s *Session) checkInteractions() {
	if s.active != nil {
		char := s.active.Character
		inRange := false
		for i := range char.Interactions {
			if Within(s.playerPos, char.InitialPosition, char.Interactions[i].TriggerDistance) {
				inRange = true
				break
			}
		}
		if !inRange {
			s.closeDialogue()
		}
		return
	}

	for i := range s.catalog.NPCs {
		char := &s.catalog.NPCs[i]
		for j := range char.Interactions {
			interaction := &char.Interactions[j]
			if !Within(s.playerPos, char.InitialPosition, interaction.TriggerDistance) {
				continue
			}
			dialogue, ok := s.firstEligible(interaction)
			if !ok {
				break // this NPC's first in-range interaction had no eligible dialogue
			}
			s.active = &models.ActiveDialogue{
				Character: char,
				Dialogue:  dialogue,
				Lesson:    interaction.Lesson,
			}
			s.resolveAction(dialogue)
			return
		}
	}
}

// firstEligible returns the first dialogue in the interaction whose requires
// gate is absent or already satisfied.
func (s *Session) firstEligible(interaction *models.Interaction) (models.Dialogue, bool) {
	for _, d := range interaction.Dialogues {
		if d.Requires != "" {
			if _, ok := s.completed[d.Requires]; !ok {
				continue
			}
		}
		return d, true
	}
	return models.Dialogue{}, false
}

// AdvanceDialogue moves to the node named by the current dialogue's next id,
// looked up within the active character's first interaction. A missing next
// id, or a dangling one, closes the dialogue; on exhaustion the node's id
// joins the completed set exactly once, and only when the interaction
// carries a lesson. Small-talk NPCs without one leave no progress behind.
func (s *Session) AdvanceDialogue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}

	if s.active.Dialogue.Next != "" {
		if next, ok := s.lookupDialogue(s.active.Character, s.active.Dialogue.Next); ok {
			s.active = &models.ActiveDialogue{
				Character: s.active.Character,
				Dialogue:  next,
				Lesson:    s.active.Lesson,
			}
			s.resolveAction(next)
			return
		}
		s.closeDialogue()
		return
	}

	if id := s.active.Dialogue.ID; id != "" && s.active.Lesson != nil {
		s.completed[id] = struct{}{}
	}
	s.closeDialogue()
}

// lookupDialogue finds a dialogue by id in the character's first interaction.
func (s *Session) lookupDialogue(char *models.Character, id string) (models.Dialogue, bool) {
	if len(char.Interactions) == 0 {
		return models.Dialogue{}, false
	}
	for _, d := range char.Interactions[0].Dialogues {
		if d.ID == id {
			return d, true
		}
	}
	return models.Dialogue{}, false
}

// CloseDialogue closes the open dialogue without recording completion.
func (s *Session) CloseDialogue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDialogue()
}

func (s *Session) closeDialogue() {
	s.active = nil
	s.currentExample = nil
	s.currentExercise = nil
	s.runEpoch++
}

// resolveAction applies a dialogue's action against the active lesson.
// Lookup misses and a missing lesson are silent no-ops.
func (s *Session) resolveAction(d models.Dialogue) {
	if d.Action == "" || d.ActionData == nil || s.active == nil || s.active.Lesson == nil {
		return
	}
	switch d.Action {
	case models.ActionShowExample:
		if ex, ok := catalog.ExampleByID(s.active.Lesson, d.ActionData.ExampleID); ok {
			s.currentExample = ex
		}
	case models.ActionStartExercise:
		if ex, ok := catalog.ExerciseByID(s.active.Lesson, d.ActionData.ExerciseID); ok {
			s.currentExercise = ex
			s.editor = models.CodeEditorState{Code: ex.StarterCode}
			s.runEpoch++
		}
	case models.ActionShowLesson:
		// Reserved.
	}
}

// BeginRun claims the evaluator for the current exercise. It rejects
// overlapping submissions and returns the code, exercise, and run epoch the
// completion must present to take effect.
func (s *Session) BeginRun() (code string, ex *models.Exercise, epoch int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentExercise == nil || s.editor.IsRunning {
		return "", nil, 0, false
	}
	s.editor.IsRunning = true
	return s.editor.Code, s.currentExercise, s.runEpoch, true
}

// CompleteRun applies an evaluator result. Results carrying a stale epoch
// (the dialogue closed, the exercise changed, or the session was reset while
// the run was in flight) are dropped without touching shared state.
func (s *Session) CompleteRun(epoch int, output string, passed bool, exerciseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.runEpoch {
		return false
	}
	s.editor.IsRunning = false
	s.editor.Output = output
	if passed {
		s.completed[exerciseID] = struct{}{}
	}
	return true
}
