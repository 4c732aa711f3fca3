package models

// Chapter of a generated learning journey.
type Chapter struct {
	Level        int    `json:"level"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	LearningGoal string `json:"learning_goal"`
}

// PersonaBehavior describes how a generated teacher behaves in the room.
type PersonaBehavior struct {
	Introduction string `json:"introduction"`
	RewardSystem string `json:"reward_system"`
}

// TeacherPersona is a generated teacher descriptor. Keyed "teacher1".."teacher5"
// in the generation service response; merged into the catalog at load time.
type TeacherPersona struct {
	Name            string          `json:"name"`
	Personality     string          `json:"personality"`
	TeachingStyle   string          `json:"teaching_style"`
	SignatureTrait  string          `json:"signature_trait"`
	ExampleBehavior PersonaBehavior `json:"example_behavior"`
}

// TeacherPersonas maps persona slots to descriptors.
type TeacherPersonas map[string]TeacherPersona

// StudyProfile is what the player told us on the select page.
type StudyProfile struct {
	Topic       string `json:"topic"`
	UserDetails string `json:"userDetails"`
}

// ChatMessage is one message exchanged with a teacher over the chat proxy.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
