package domain

// Emotion labels assigned to scenes.
const (
	EmotionJoy       = "joy"
	EmotionFear      = "fear"
	EmotionMystery   = "mystery"
	EmotionAdventure = "adventure"
	EmotionSad       = "sad"
	EmotionCalm      = "calm"
)

// Scene is a group of sentences used as the unit of per-scene generation.
type Scene struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// StoryAnalysis is the structured result of processing a story.
type StoryAnalysis struct {
	Scenes         []Scene  `json:"scenes"`
	Emotions       []string `json:"emotions"`
	OverallSummary string   `json:"overall_summary"`
	Characters     []string `json:"characters"`
}
