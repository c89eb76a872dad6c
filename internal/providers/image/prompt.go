package image

import (
	"fmt"
	"strings"
)

// StyleSuffix is appended to every scene prompt.
const StyleSuffix = ", ultra detailed, cinematic lighting, 4k concept art, artstation, trending, highly detailed, unreal engine render"

// ScenePrompt combines scene text with its mood.
func ScenePrompt(text, emotion string) string {
	prompt := strings.TrimSpace(text)
	if e := strings.TrimSpace(emotion); e != "" {
		prompt = fmt.Sprintf("%s. Mood: %s", prompt, e)
	}
	return prompt
}

// Consistency keeps the main character stable across the scenes of one request.
// The first non-empty prompt becomes the base description.
type Consistency struct {
	base string
}

// Apply returns prompt anchored to the base description.
func (c *Consistency) Apply(prompt string) string {
	cleaned := strings.TrimSpace(prompt)
	if cleaned == "" {
		return prompt
	}
	if c.base == "" {
		c.base = cleaned
		return cleaned
	}
	return fmt.Sprintf("%s, same main character as previous scenes (%s)", cleaned, c.base)
}

// Base returns the remembered base description.
func (c *Consistency) Base() string {
	return c.base
}

// BuildPrompt produces the final prompt for one scene.
func BuildPrompt(c *Consistency, text, emotion string) string {
	return c.Apply(ScenePrompt(text, emotion)) + StyleSuffix
}
