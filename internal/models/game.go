package models

import "fmt"

// Position in world space. Mutable only for the player; NPC positions are
// fixed after catalog load.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction of an axis-aligned movement step.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Role of a character in the room.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleGuide   Role = "guide"
	RolePlayer  Role = "player"
)

// BoundaryBox limits where a character may wander. Kept as part of the
// character shape even though the current engine never moves NPCs.
type BoundaryBox struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// DialogueAction is what a dialogue node does when it becomes active.
type DialogueAction string

const (
	ActionShowExample   DialogueAction = "showExample"
	ActionStartExercise DialogueAction = "startExercise"
	// ActionShowLesson is reserved: accepted in catalog data, no effect yet.
	ActionShowLesson DialogueAction = "showLesson"
)

// ActionData references the example/exercise/lesson an action operates on.
type ActionData struct {
	ExampleID  string `json:"exampleId,omitempty"`
	ExerciseID string `json:"exerciseId,omitempty"`
	LessonID   string `json:"lessonId,omitempty"`
}

// Dialogue is one step of a conversation. Next and Requires refer to ids
// within the same interaction; a dangling reference is a no-op, not an error.
type Dialogue struct {
	ID         string         `json:"id,omitempty"`
	Text       string         `json:"text"`
	Next       string         `json:"next,omitempty"`
	Requires   string         `json:"requires,omitempty"`
	Action     DialogueAction `json:"action,omitempty"`
	ActionData *ActionData    `json:"actionData,omitempty"`
	Speaker    string         `json:"speaker,omitempty"`
}

// Interaction is a triggerable conversation attached to a character.
type Interaction struct {
	Type            string         `json:"type"` // "teach", "practice", "guide"
	TriggerDistance float64        `json:"triggerDistance"`
	Dialogues       []Dialogue     `json:"dialogues"`
	Lesson          *LessonContent `json:"lesson,omitempty"`
}

// Character in the room. NPCs carry interactions; the player does not.
type Character struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Sprite           string        `json:"sprite"`
	Role             Role          `json:"role"`
	InitialPosition  Position      `json:"initialPosition"`
	MovementSpeed    float64       `json:"movementSpeed"`
	AllowedMovements []Direction   `json:"allowedMovements"`
	BoundaryBox      *BoundaryBox  `json:"boundaryBox,omitempty"`
	Interactions     []Interaction `json:"interactions,omitempty"`
}

// CodeExample is a literal source sample shown inside a lesson.
type CodeExample struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Output      string `json:"output,omitempty"`
}

// TestCase for an exercise. Input is declared but never supplied to the
// evaluated code; only Expected is compared against a zero-argument
// evaluation. The catalog only contains zero-argument exercises today.
type TestCase struct {
	Input    []any `json:"input"`
	Expected any   `json:"expected"`
}

// Exercise is a coding task with test cases. Solution is shown to the user
// as reference, never enforced programmatically.
type Exercise struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Hints       []string   `json:"hints"`
	StarterCode string     `json:"starterCode"`
	Solution    string     `json:"solution"`
	TestCases   []TestCase `json:"testCases"`
}

// LessonContent groups the examples and exercises an interaction teaches.
type LessonContent struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Examples     []CodeExample `json:"examples"`
	Exercises    []Exercise    `json:"exercises"`
	NextLessonID string        `json:"nextLessonId,omitempty"`
}

// ActiveDialogue is the currently open interaction context. Session-scoped,
// never persisted.
type ActiveDialogue struct {
	Character *Character     `json:"character"`
	Dialogue  Dialogue       `json:"dialogue"`
	Lesson    *LessonContent `json:"lesson,omitempty"`
}

// CodeEditorState is the transient editor/evaluation state tied to the
// current exercise.
type CodeEditorState struct {
	Code      string `json:"code"`
	Output    string `json:"output"`
	IsRunning bool   `json:"isRunning"`
}

// Validate checks a character entry for catalog construction.
func (c *Character) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("character id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("character %s: name is required", c.ID)
	}
	switch c.Role {
	case RoleTeacher, RoleStudent, RoleGuide, RolePlayer:
	default:
		return fmt.Errorf("character %s: unknown role %q", c.ID, c.Role)
	}
	for i, in := range c.Interactions {
		if in.TriggerDistance < 0 {
			return fmt.Errorf("character %s: interaction %d: negative trigger distance", c.ID, i)
		}
		if len(in.Dialogues) == 0 {
			return fmt.Errorf("character %s: interaction %d: at least one dialogue is required", c.ID, i)
		}
	}
	return nil
}
