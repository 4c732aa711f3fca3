package catalog

import "coderoom/internal/models"

// personaSlots maps generation-service persona keys to the NPCs they rebind.
var personaSlots = map[string]string{
	"teacher1": "array_teacher",
	"teacher2": "method_master",
	"teacher3": "practice_pal",
	"teacher4": "algorithm_sage",
	"teacher5": "debug_buddy",
}

func defaultPlayer() models.Character {
	return models.Character{
		ID:               "player",
		Name:             "Player",
		Sprite:           "🚶",
		Role:             models.RolePlayer,
		InitialPosition:  models.Position{X: 100, Y: 100},
		MovementSpeed:    5,
		AllowedMovements: []models.Direction{models.DirUp, models.DirDown, models.DirLeft, models.DirRight},
	}
}

// defaultRoster returns a fresh copy of the built-in NPC roster so persona
// merging never mutates shared state.
func defaultRoster() []models.Character {
	allDirs := []models.Direction{models.DirUp, models.DirDown, models.DirLeft, models.DirRight}
	return []models.Character{
		{
			ID:               "array_teacher",
			Name:             "Professor Pixel",
			Sprite:           "👨‍🏫",
			Role:             models.RoleTeacher,
			InitialPosition:  models.Position{X: 120, Y: 320},
			MovementSpeed:    3,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 150, MaxX: 250, MinY: 100, MaxY: 200},
			Interactions: []models.Interaction{
				{
					Type:            "teach",
					TriggerDistance: 60,
					Dialogues: []models.Dialogue{
						{
							ID:   "welcome",
							Text: "Meet Professor Pixel, who turns every lesson into an adventure! Today, we're exploring the world of arrays.",
							Next: "start_arrays",
						},
						{
							ID:         "start_arrays",
							Text:       "Let's start with creating arrays. Pay attention to this example!",
							Action:     models.ActionShowExample,
							ActionData: &models.ActionData{ExampleID: "array_creation"},
							Next:       "try_exercise",
						},
						{
							ID:         "try_exercise",
							Text:       "Now, let's practice creating an array. Ready to try?",
							Action:     models.ActionStartExercise,
							ActionData: &models.ActionData{ExerciseID: "create_array"},
						},
					},
					Lesson: &models.LessonContent{
						ID:          "arrays_intro",
						Title:       "Introduction to Arrays",
						Description: "Learn the basics of arrays in JavaScript/TypeScript",
						Examples: []models.CodeExample{
							{
								ID:    "array_creation",
								Title: "Creating Arrays",
								Code: "// Different ways to create arrays\n" +
									"const numbers = [1, 2, 3, 4, 5];\n" +
									"const fruits = ['apple', 'banana', 'orange'];\n" +
									"const emptyArray = [];",
								Explanation: "Arrays can be created using square brackets [] and can hold any type of data.",
							},
						},
						Exercises: []models.Exercise{
							{
								ID:          "create_array",
								Question:    "Create an array containing the numbers 1 through 5",
								Hints:       []string{"Use square brackets []", "Separate numbers with commas"},
								StarterCode: "const numbers = ",
								Solution:    "[1, 2, 3, 4, 5]",
								TestCases: []models.TestCase{
									{Input: []any{}, Expected: []any{1, 2, 3, 4, 5}},
								},
							},
						},
						NextLessonID: "array_methods",
					},
				},
			},
		},
		{
			ID:               "method_master",
			Name:             "Captain Code",
			Sprite:           "👩‍💻",
			Role:             models.RoleGuide,
			InitialPosition:  models.Position{X: 700, Y: 600},
			MovementSpeed:    4,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 350, MaxX: 450, MinY: 250, MaxY: 350},
			Interactions: []models.Interaction{
				{
					Type:            "practice",
					TriggerDistance: 50,
					Dialogues: []models.Dialogue{
						{
							ID:       "intro_methods",
							Text:     "Ahoy, matey! Set sail on the Seas of Arrays with Captain Code, where each treasure chest contains a new part of array knowledge.",
							Next:     "show_methods",
							Requires: "arrays_intro",
						},
						{
							ID:         "show_methods",
							Text:       "Let's see how to add elements to arrays.",
							Action:     models.ActionShowExample,
							ActionData: &models.ActionData{ExampleID: "array_push"},
							Next:       "practice_push",
						},
						{
							ID:         "practice_push",
							Text:       "Now it's your turn! Try adding an element to an array.",
							Action:     models.ActionStartExercise,
							ActionData: &models.ActionData{ExerciseID: "use_push"},
						},
					},
					Lesson: &models.LessonContent{
						ID:          "array_methods",
						Title:       "Array Methods",
						Description: "Learn essential array methods",
						Examples: []models.CodeExample{
							{
								ID:    "array_push",
								Title: "Adding Elements",
								Code: "const numbers = [1, 2, 3];\n" +
									"numbers.push(4);    // Adds 4 to end\n" +
									"numbers.unshift(0); // Adds 0 to start\n" +
									"console.log(numbers); // [0, 1, 2, 3, 4]",
								Explanation: "Use push() to add to the end and unshift() to add to the start of an array.",
							},
						},
						Exercises: []models.Exercise{
							{
								ID:       "use_push",
								Question: "Add the number 4 to the end of the array using push()",
								Hints:    []string{"Use the push() method", "push() adds to the end of the array"},
								StarterCode: "const numbers = [1, 2, 3];\n" +
									"// Add 4 to the array",
								Solution: "numbers.push(4)",
								TestCases: []models.TestCase{
									{Input: []any{[]any{1, 2, 3}}, Expected: []any{1, 2, 3, 4}},
								},
							},
						},
					},
				},
			},
		},
		{
			ID:               "practice_pal",
			Name:             "Dr. Array",
			Sprite:           "🤖",
			Role:             models.RoleStudent,
			InitialPosition:  models.Position{X: 500, Y: 400},
			MovementSpeed:    3,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 550, MaxX: 650, MinY: 150, MaxY: 250},
			Interactions: []models.Interaction{
				{
					Type:            "practice",
					TriggerDistance: 40,
					Dialogues: []models.Dialogue{
						{
							ID:       "practice_intro",
							Text:     "Hello, Junior Scientist! I'm Dr. Array. Let's explore the mysteries of arrays in our lab today!",
							Next:     "start_practice",
							Requires: "arrays_intro",
						},
						{
							ID:         "start_practice",
							Text:       "Let's solve some array exercises together!",
							Action:     models.ActionStartExercise,
							ActionData: &models.ActionData{ExerciseID: "create_array"},
						},
					},
				},
			},
		},
		{
			ID:               "algorithm_sage",
			Name:             "Tech Whiz Tony",
			Sprite:           "🧙",
			Role:             models.RoleTeacher,
			InitialPosition:  models.Position{X: 300, Y: 200},
			MovementSpeed:    3,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 280, MaxX: 320, MinY: 180, MaxY: 220},
			Interactions: []models.Interaction{
				{
					Type:            "teach",
					TriggerDistance: 50,
					Dialogues: []models.Dialogue{
						{
							ID:   "algo_welcome",
							Text: "Greetings, Coding Ace! This is Tech Whiz Tony, and we're about to dive into some cool array tricks with gadgets.",
							Next: "start_sorting",
						},
						{
							ID:         "start_sorting",
							Text:       "Let's begin with sorting algorithms. Here's a simple example.",
							Action:     models.ActionShowExample,
							ActionData: &models.ActionData{ExampleID: "bubble_sort"},
						},
					},
					Lesson: &models.LessonContent{
						ID:          "sorting_basics",
						Title:       "Introduction to Sorting",
						Description: "Learn basic sorting algorithms",
						Examples: []models.CodeExample{
							{
								ID:    "bubble_sort",
								Title: "Bubble Sort",
								Code: "function bubbleSort(arr) {\n" +
									"  for(let i = 0; i < arr.length; i++) {\n" +
									"    for(let j = 0; j < arr.length - i - 1; j++) {\n" +
									"      if(arr[j] > arr[j + 1]) {\n" +
									"        [arr[j], arr[j + 1]] = [arr[j + 1], arr[j]];\n" +
									"      }\n" +
									"    }\n" +
									"  }\n" +
									"  return arr;\n" +
									"}",
								Explanation: "Bubble sort repeatedly steps through the list, compares adjacent elements and swaps them if they are in the wrong order.",
							},
						},
						Exercises: []models.Exercise{},
					},
				},
			},
		},
		{
			ID:               "debug_buddy",
			Name:             "The Array Alchemist",
			Sprite:           "🔍",
			Role:             models.RoleGuide,
			InitialPosition:  models.Position{X: 450, Y: 300},
			MovementSpeed:    4,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 430, MaxX: 470, MinY: 280, MaxY: 320},
			Interactions: []models.Interaction{
				{
					Type:            "guide",
					TriggerDistance: 45,
					Dialogues: []models.Dialogue{
						{
							Text: "Welcome, young adventurer, to the magical world of numbers with The Array Alchemist. Here, arrays weave spells!",
							Next: "debug_tip",
						},
						{
							ID:   "debug_tip",
							Text: "Remember: console.log() is your friend when debugging!",
						},
					},
				},
			},
		},
		{
			ID:               "code_reviewer",
			Name:             "Code Reviewer",
			Sprite:           "📝",
			Role:             models.RoleGuide,
			InitialPosition:  models.Position{X: 600, Y: 250},
			MovementSpeed:    3,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 580, MaxX: 620, MinY: 230, MaxY: 270},
			Interactions: []models.Interaction{
				{
					Type:            "guide",
					TriggerDistance: 40,
					Dialogues: []models.Dialogue{
						{
							Text: "Want me to review your code? I'll help you write cleaner code!",
							Next: "review_tip",
						},
						{
							ID:   "review_tip",
							Text: "Tip: Meaningful variable names make code easier to understand.",
						},
					},
				},
			},
		},
		{
			ID:               "test_master",
			Name:             "Test Master",
			Sprite:           "⚡",
			Role:             models.RoleTeacher,
			InitialPosition:  models.Position{X: 800, Y: 400},
			MovementSpeed:    3,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 780, MaxX: 820, MinY: 380, MaxY: 420},
			Interactions: []models.Interaction{
				{
					Type:            "teach",
					TriggerDistance: 55,
					Dialogues: []models.Dialogue{
						{
							Text: "Testing is crucial! Let me teach you about unit testing.",
							Next: "test_example",
						},
						{
							ID:         "test_example",
							Text:       "Here's how to write a basic test:",
							Action:     models.ActionShowExample,
							ActionData: &models.ActionData{ExampleID: "unit_test"},
						},
					},
					Lesson: &models.LessonContent{
						ID:          "testing_101",
						Title:       "Introduction to Testing",
						Description: "Learn the basics of unit testing",
						Examples: []models.CodeExample{
							{
								ID:    "unit_test",
								Title: "Basic Unit Test",
								Code: "test('adds 1 + 2 to equal 3', () => {\n" +
									"  expect(sum(1, 2)).toBe(3);\n" +
									"});",
								Explanation: "Unit tests verify that individual pieces of code work as expected.",
							},
						},
						Exercises: []models.Exercise{},
					},
				},
			},
		},
		{
			ID:               "claude",
			Name:             "Claude",
			Sprite:           "🎮",
			Role:             models.RoleGuide,
			InitialPosition:  models.Position{X: 900, Y: 500},
			MovementSpeed:    4,
			AllowedMovements: allDirs,
			BoundaryBox:      &models.BoundaryBox{MinX: 880, MaxX: 920, MinY: 480, MaxY: 520},
			Interactions: []models.Interaction{
				{
					Type:            "guide",
					TriggerDistance: 50,
					Dialogues: []models.Dialogue{
						{
							Text: "Hello! I'm Claude, your AI programming assistant. How can I help you today?",
							Next: "ai_help",
						},
						{
							ID:   "ai_help",
							Text: "I can help you with coding problems, explain concepts, or review your code!",
						},
					},
				},
			},
		},
	}
}
