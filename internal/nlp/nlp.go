// Package nlp implements the lightweight, rule-based story analysis used to
// split dreams into scenes and label them.
package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"dreamvisualizer/internal/domain"
)

// SentencesPerScene is the default scene grouping size.
const SentencesPerScene = 3

// MaxCharacters bounds ExtractCharacters output.
const MaxCharacters = 10

var emotionKeywords = []struct {
	emotion  string
	keywords []string
}{
	{domain.EmotionJoy, []string{"happy", "joy", "smile", "excited", "fun", "laugh"}},
	{domain.EmotionSad, []string{"sad", "cry", "lonely", "tears", "hurt"}},
	{domain.EmotionFear, []string{"scared", "fear", "afraid", "anxious", "anxiety", "danger"}},
	{domain.EmotionAdventure, []string{"adventure", "explore", "mystery", "quest", "journey"}},
	{domain.EmotionCalm, []string{"peace", "calm", "relax", "quiet", "sleep", "rest"}},
}

var (
	wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z']+`)
	stopwords   = map[string]struct{}{
		"the": {}, "and": {}, "but": {}, "with": {}, "from": {},
		"into": {}, "this": {}, "that": {}, "there": {}, "here": {},
		"i": {},
	}
)

// SplitSentences breaks text after '.', '!' or '?' when followed by whitespace.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	var (
		out   []string
		start int
	)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// SplitScenes groups sentences into scenes of perScene sentences, numbered from 1.
func SplitScenes(text string, perScene int) []domain.Scene {
	if perScene <= 0 {
		perScene = SentencesPerScene
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []domain.Scene{{ID: 1, Text: trimmed}}
		}
		return nil
	}
	scenes := make([]domain.Scene, 0, (len(sentences)+perScene-1)/perScene)
	for i := 0; i < len(sentences); i += perScene {
		end := min(i+perScene, len(sentences))
		scenes = append(scenes, domain.Scene{
			ID:   len(scenes) + 1,
			Text: strings.Join(sentences[i:end], " "),
		})
	}
	return scenes
}

// DetectEmotion scores keyword hits per emotion. Ties go to the emotion listed
// first; no hits at all yields mystery.
func DetectEmotion(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return domain.EmotionCalm
	}
	best, bestScore := "", 0
	for _, ek := range emotionKeywords {
		score := 0
		for _, kw := range ek.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = ek.emotion, score
		}
	}
	if bestScore == 0 {
		return domain.EmotionMystery
	}
	return best
}

// Summarize returns text unchanged when short, otherwise its leading words.
func Summarize(text string, maxLength, minLength int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= max(minLength, 25) {
		return strings.TrimSpace(text)
	}
	limit := max(32, min(maxLength, 128))
	if limit >= len(words) {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ")
}

// ExtractCharacters returns unique capitalised tokens in order of first appearance.
func ExtractCharacters(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxCharacters
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tok := range wordPattern.FindAllString(text, -1) {
		first := []rune(tok)[0]
		if !unicode.IsUpper(first) {
			continue
		}
		if _, stop := stopwords[strings.ToLower(tok)]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Process runs the full analysis over a story.
func Process(text string) domain.StoryAnalysis {
	scenes := SplitScenes(text, SentencesPerScene)
	emotions := make([]string, 0, len(scenes))
	for i := range scenes {
		scenes[i].Emotion = DetectEmotion(scenes[i].Text)
		scenes[i].Summary = Summarize(scenes[i].Text, 64, 16)
		emotions = append(emotions, scenes[i].Emotion)
	}
	if scenes == nil {
		scenes = []domain.Scene{}
	}
	return domain.StoryAnalysis{
		Scenes:         scenes,
		Emotions:       emotions,
		OverallSummary: Summarize(text, 128, 24),
		Characters:     ExtractCharacters(text, MaxCharacters),
	}
}
