package game

import (
	"slices"
	"testing"

	"coderoom/internal/catalog"
	"coderoom/internal/models"
)

func testLesson() *models.LessonContent {
	return &models.LessonContent{
		ID:          "loops-basics",
		Title:       "Loop Basics",
		Description: "Counting with for loops.",
		Examples: []models.CodeExample{
			{ID: "loop_example", Title: "A counting loop", Code: "for (let i = 0; i < 3; i++) {}"},
		},
		Exercises: []models.Exercise{
			{
				ID:          "sum_loop",
				Question:    "Return the numbers 1 through 3 as an array",
				StarterCode: "// write your answer here",
				TestCases:   []models.TestCase{{Expected: []any{1, 2, 3}}},
			},
		},
	}
}

func mentorNPC() models.Character {
	return models.Character{
		ID:              "mentor",
		Name:            "Mentor",
		Sprite:          "🧑‍🏫",
		Role:            models.RoleTeacher,
		InitialPosition: models.Position{X: 200, Y: 200},
		Interactions: []models.Interaction{{
			Type:            "teach",
			TriggerDistance: 50,
			Lesson:          testLesson(),
			Dialogues: []models.Dialogue{
				{ID: "intro", Text: "Hello!", Next: "show"},
				{
					ID: "show", Text: "Look at this.", Next: "practice",
					Action:     models.ActionShowExample,
					ActionData: &models.ActionData{ExampleID: "loop_example"},
				},
				{
					ID: "practice", Text: "Your turn.",
					Action:     models.ActionStartExercise,
					ActionData: &models.ActionData{ExerciseID: "sum_loop"},
				},
			},
		}},
	}
}

// testCatalog builds a room with the given NPCs and the player starting at
// start.
func testCatalog(start models.Position, npcs ...models.Character) *catalog.Catalog {
	return &catalog.Catalog{
		Config: catalog.Config{Grid: catalog.GridConfig{Width: 800, Height: 600}},
		Player: models.Character{
			ID: "player", Name: "You", Role: models.RolePlayer,
			InitialPosition: start, MovementSpeed: 5,
		},
		NPCs: npcs,
	}
}

func TestDialogueOpensOnProximity(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 140}, mentorNPC()))

	s.MovePlayer(models.DirDown) // 145: still 55 away
	if s.ActiveDialogue() != nil {
		t.Fatal("dialogue opened outside trigger distance")
	}

	s.MovePlayer(models.DirDown) // 150: exactly at trigger distance
	active := s.ActiveDialogue()
	if active == nil {
		t.Fatal("dialogue did not open at trigger distance")
	}
	if active.Dialogue.ID != "intro" {
		t.Errorf("opened dialogue %q, want intro", active.Dialogue.ID)
	}
	if active.Character.ID != "mentor" {
		t.Errorf("opened with character %q, want mentor", active.Character.ID)
	}
}

func TestFirstNPCInCatalogOrderWins(t *testing.T) {
	first := mentorNPC()
	second := mentorNPC()
	second.ID = "rival"
	second.Name = "Rival"
	second.InitialPosition = models.Position{X: 210, Y: 200}

	s := NewSession(testCatalog(models.Position{X: 205, Y: 200}, first, second))
	s.CheckInteractions()

	active := s.ActiveDialogue()
	if active == nil {
		t.Fatal("no dialogue opened with two NPCs in range")
	}
	if active.Character.ID != "mentor" {
		t.Errorf("opened with %q, want the earlier catalog entry", active.Character.ID)
	}
}

func TestRequiresGateSkipsToEligibleDialogue(t *testing.T) {
	npc := mentorNPC()
	npc.Interactions[0].Dialogues = []models.Dialogue{
		{ID: "review", Text: "Back for more?", Requires: "practice"},
		{ID: "intro", Text: "Hello!"},
	}

	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, npc))
	s.CheckInteractions()

	active := s.ActiveDialogue()
	if active == nil {
		t.Fatal("no dialogue opened")
	}
	if active.Dialogue.ID != "intro" {
		t.Errorf("opened %q, want the ungated intro", active.Dialogue.ID)
	}

	// Once the gate is satisfied the earlier dialogue wins again.
	s.CloseDialogue()
	s.RestoreCompleted([]string{"practice"})
	s.CheckInteractions()
	active = s.ActiveDialogue()
	if active == nil || active.Dialogue.ID != "review" {
		t.Errorf("after completing the gate, got %+v, want review", active)
	}
}

func TestFullyGatedNPCYieldsToNext(t *testing.T) {
	locked := models.Character{
		ID: "locked", Name: "Locked", Role: models.RoleTeacher,
		InitialPosition: models.Position{X: 200, Y: 200},
		Interactions: []models.Interaction{{
			Type: "teach", TriggerDistance: 50,
			Dialogues: []models.Dialogue{{ID: "advanced", Text: "Secrets.", Requires: "practice"}},
		}},
	}
	fallback := mentorNPC()
	fallback.InitialPosition = models.Position{X: 210, Y: 200}

	s := NewSession(testCatalog(models.Position{X: 205, Y: 200}, locked, fallback))
	s.CheckInteractions()

	active := s.ActiveDialogue()
	if active == nil {
		t.Fatal("no dialogue opened")
	}
	if active.Character.ID != "mentor" {
		t.Errorf("opened with %q, want the next NPC after the gated one", active.Character.ID)
	}

	s.CloseDialogue()
	s.RestoreCompleted([]string{"practice"})
	s.CheckInteractions()
	active = s.ActiveDialogue()
	if active == nil || active.Character.ID != "locked" {
		t.Errorf("after completing the gate, got %+v, want the locked NPC", active)
	}
}

func TestAdvanceThroughTree(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, mentorNPC()))
	s.CheckInteractions()

	if active := s.ActiveDialogue(); active == nil || active.Dialogue.ID != "intro" {
		t.Fatalf("expected intro open, got %+v", active)
	}
	if s.CurrentExample() != nil || s.CurrentExercise() != nil {
		t.Fatal("panels populated before any action dialogue")
	}

	s.AdvanceDialogue()
	if active := s.ActiveDialogue(); active == nil || active.Dialogue.ID != "show" {
		t.Fatalf("expected show after advance, got %+v", active)
	}
	if ex := s.CurrentExample(); ex == nil || ex.ID != "loop_example" {
		t.Errorf("example panel = %+v, want loop_example", s.CurrentExample())
	}

	s.AdvanceDialogue()
	if active := s.ActiveDialogue(); active == nil || active.Dialogue.ID != "practice" {
		t.Fatalf("expected practice after advance, got %+v", active)
	}
	ex := s.CurrentExercise()
	if ex == nil || ex.ID != "sum_loop" {
		t.Fatalf("exercise panel = %+v, want sum_loop", ex)
	}
	if editor := s.Editor(); editor.Code != ex.StarterCode {
		t.Errorf("editor seeded with %q, want starter code", editor.Code)
	}

	// Advancing past the last node closes and records completion.
	s.AdvanceDialogue()
	if s.ActiveDialogue() != nil {
		t.Error("dialogue still open after exhaustion")
	}
	if !s.HasCompleted("practice") {
		t.Error("exhausted dialogue id not recorded as completed")
	}
	if s.CurrentExample() != nil || s.CurrentExercise() != nil {
		t.Error("panels survived dialogue close")
	}
}

func TestLessonlessExhaustionLeavesNoProgress(t *testing.T) {
	// debug_buddy is a small-talk guide with no lesson attached; walking its
	// dialogue to the end must not count as progress.
	cat, err := catalog.New(catalog.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cat.Player.InitialPosition = models.Position{X: 450, Y: 300}
	s := NewSession(cat)

	s.CheckInteractions()
	active := s.ActiveDialogue()
	if active == nil || active.Character.ID != "debug_buddy" {
		t.Fatalf("expected debug_buddy open, got %+v", active)
	}
	if active.Lesson != nil {
		t.Fatal("debug_buddy unexpectedly carries a lesson")
	}

	s.AdvanceDialogue()
	active = s.ActiveDialogue()
	if active == nil || active.Dialogue.ID != "debug_tip" {
		t.Fatalf("expected debug_tip, got %+v", active)
	}

	s.AdvanceDialogue()
	if s.ActiveDialogue() != nil {
		t.Error("dialogue still open after exhaustion")
	}
	if s.HasCompleted("debug_tip") {
		t.Error("lesson-less exhaustion recorded debug_tip as completed")
	}
	if len(s.CompletedLessons()) != 0 {
		t.Errorf("completed = %v, want empty", s.CompletedLessons())
	}
}

func TestDanglingNextCloses(t *testing.T) {
	npc := mentorNPC()
	npc.Interactions[0].Dialogues = []models.Dialogue{
		{ID: "intro", Text: "Hello!", Next: "no-such-node"},
	}

	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, npc))
	s.CheckInteractions()
	s.AdvanceDialogue()

	if s.ActiveDialogue() != nil {
		t.Error("dialogue still open after dangling next")
	}
	if s.HasCompleted("intro") {
		t.Error("dangling next must not record completion")
	}
}

func TestForceCloseOnRangeLoss(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 150}, mentorNPC()))
	s.CheckInteractions()
	s.AdvanceDialogue() // show: example panel populated
	if s.ActiveDialogue() == nil || s.CurrentExample() == nil {
		t.Fatal("setup: expected open dialogue with example")
	}

	s.MovePlayer(models.DirUp) // 145: 55 away, out of range
	if s.ActiveDialogue() != nil {
		t.Error("dialogue survived leaving trigger range")
	}
	if s.CurrentExample() != nil {
		t.Error("example panel survived force-close")
	}
	if len(s.CompletedLessons()) != 0 {
		t.Error("force-close must not record completion")
	}
}

func TestAdvanceAndCloseWhenIdleAreNoops(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 0, Y: 0}, mentorNPC()))
	s.AdvanceDialogue()
	s.CloseDialogue()
	if s.ActiveDialogue() != nil || len(s.CompletedLessons()) != 0 {
		t.Error("idle advance/close changed state")
	}
}

func TestRunLifecycle(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, mentorNPC()))
	s.CheckInteractions()
	s.AdvanceDialogue()
	s.AdvanceDialogue() // practice: exercise open

	if _, _, _, ok := s.BeginRun(); !ok {
		t.Fatal("BeginRun rejected with an exercise open")
	}
	if _, _, _, ok := s.BeginRun(); ok {
		t.Fatal("overlapping BeginRun accepted")
	}
	if editor := s.Editor(); !editor.IsRunning {
		t.Error("IsRunning not set while a run is claimed")
	}

	// The editor buffer keeps accepting keystrokes during a run.
	s.SetCode("[1, 2, 3]")
	if editor := s.Editor(); editor.Code != "[1, 2, 3]" {
		t.Errorf("editor code = %q after SetCode during run", editor.Code)
	}
}

func TestCompleteRunRecordsPass(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, mentorNPC()))
	s.CheckInteractions()
	s.AdvanceDialogue()
	s.AdvanceDialogue()

	code, ex, epoch, ok := s.BeginRun()
	if !ok {
		t.Fatal("BeginRun rejected")
	}
	if code != ex.StarterCode {
		t.Errorf("BeginRun returned code %q, want the editor buffer", code)
	}

	if !s.CompleteRun(epoch, "All tests passed! 🎉", true, ex.ID) {
		t.Fatal("CompleteRun dropped a current-epoch result")
	}
	editor := s.Editor()
	if editor.IsRunning {
		t.Error("IsRunning still set after completion")
	}
	if editor.Output != "All tests passed! 🎉" {
		t.Errorf("output = %q", editor.Output)
	}
	if !s.HasCompleted("sum_loop") {
		t.Error("passing run did not record the exercise as completed")
	}

	// A later run can be claimed again.
	if _, _, _, ok := s.BeginRun(); !ok {
		t.Error("BeginRun rejected after a completed run")
	}
}

func TestStaleRunResultDropped(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, mentorNPC()))
	s.CheckInteractions()
	s.AdvanceDialogue()
	s.AdvanceDialogue()

	_, ex, epoch, ok := s.BeginRun()
	if !ok {
		t.Fatal("BeginRun rejected")
	}

	// The dialogue closes while the evaluator is still working.
	s.CloseDialogue()

	if s.CompleteRun(epoch, "All tests passed! 🎉", true, ex.ID) {
		t.Error("stale run result was applied")
	}
	if s.HasCompleted("sum_loop") {
		t.Error("stale run recorded completion")
	}
}

func TestCompletedSetSemantics(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 0, Y: 0}, mentorNPC()))
	s.RestoreCompleted([]string{"a", "b", "a"})
	got := s.CompletedLessons()
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("completed = %v, want set semantics", got)
	}
	if !s.HasCompleted("a") || s.HasCompleted("c") {
		t.Error("HasCompleted mismatch")
	}
}

func TestBeginRunWithoutExercise(t *testing.T) {
	s := NewSession(testCatalog(models.Position{X: 200, Y: 200}, mentorNPC()))
	s.CheckInteractions() // intro open, no exercise yet
	if _, _, _, ok := s.BeginRun(); ok {
		t.Error("BeginRun accepted without an open exercise")
	}
}
