package data

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cave-rogue/components"
)

// Built-in template IDs
const (
	PlayerTemplateID  = "player"
	CrawlerTemplateID = "cave_crawler"
	LurkerTemplateID  = "cave_lurker"
	BossTemplateID    = "cave_boss"
)

// AgentTemplate describes how to build an agent (player, enemy or boss)
type AgentTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Behavior
	Behavior    string   `json:"behavior"`    // "pursue", "wander" or "idle"
	Fallback    string   `json:"fallback"`    // behaviour when the target is unreachable
	SightRange  int      `json:"sightRange"`  // Manhattan distance, 0 = config default
	LeashRadius int      `json:"leashRadius"` // 0 = unbounded
	Tags        []string `json:"tags"`        // e.g. "enemy", "boss"
	BlocksPath  bool     `json:"blocksPath"`
	SpawnWeight int      `json:"spawnWeight"` // relative enemy spawn chance
}

// HasTag reports whether the template carries tag
func (t *AgentTemplate) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Validate checks the required fields and behaviour names
func (t *AgentTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template missing id")
	}
	if t.Name == "" {
		return fmt.Errorf("template '%s' missing name", t.ID)
	}
	if _, err := ParseAIState(t.Behavior); err != nil {
		return fmt.Errorf("template '%s': %w", t.ID, err)
	}
	if _, err := ParseAIState(t.Fallback); err != nil {
		return fmt.Errorf("template '%s': %w", t.ID, err)
	}
	if t.SightRange < 0 || t.LeashRadius < 0 || t.SpawnWeight < 0 {
		return fmt.Errorf("template '%s' has negative ranges or weight", t.ID)
	}
	return nil
}

// ParseAIState converts a behaviour name to an AIState. An empty name is idle.
func ParseAIState(name string) (components.AIState, error) {
	switch strings.ToLower(name) {
	case "", "idle":
		return components.AIIdle, nil
	case "wander":
		return components.AIWander, nil
	case "pursue", "chase":
		return components.AIPursue, nil
	default:
		return components.AIIdle, fmt.Errorf("unknown behavior %q", name)
	}
}

// DefaultTemplates returns the built-in agents
func DefaultTemplates() []*AgentTemplate {
	return []*AgentTemplate{
		{
			ID:         PlayerTemplateID,
			Name:       "Explorer",
			Behavior:   "idle",
			Fallback:   "idle",
			Tags:       []string{components.TagPlayer},
			BlocksPath: true,
		},
		{
			ID:          CrawlerTemplateID,
			Name:        "Cave Crawler",
			Description: "Roams the caves and chases anything it notices.",
			Behavior:    "pursue",
			Fallback:    "wander",
			Tags:        []string{components.TagEnemy},
			BlocksPath:  true,
			SpawnWeight: 3,
		},
		{
			ID:          LurkerTemplateID,
			Name:        "Lurker",
			Description: "Waits near its nest and never strays far.",
			Behavior:    "pursue",
			Fallback:    "idle",
			SightRange:  6,
			LeashRadius: 6,
			Tags:        []string{components.TagEnemy},
			BlocksPath:  true,
			SpawnWeight: 1,
		},
		{
			ID:          BossTemplateID,
			Name:        "Cave Warden",
			Description: "Guards the heart of the largest cavern.",
			Behavior:    "pursue",
			Fallback:    "idle",
			SightRange:  16,
			LeashRadius: 10,
			Tags:        []string{components.TagEnemy, components.TagBoss},
			BlocksPath:  true,
		},
	}
}

// AgentTemplateManager holds agent templates by ID
type AgentTemplateManager struct {
	Templates map[string]*AgentTemplate
}

// NewAgentTemplateManager creates an empty template manager
func NewAgentTemplateManager() *AgentTemplateManager {
	return &AgentTemplateManager{
		Templates: make(map[string]*AgentTemplate),
	}
}

// NewDefaultTemplateManager creates a manager preloaded with DefaultTemplates
func NewDefaultTemplateManager() *AgentTemplateManager {
	m := NewAgentTemplateManager()
	for _, t := range DefaultTemplates() {
		m.Templates[t.ID] = t
	}
	return m
}

// LoadTemplatesFromDirectory loads all JSON template files from a directory.
// Later files override templates with the same ID.
func (m *AgentTemplateManager) LoadTemplatesFromDirectory(dirPath string) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read template directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		fullPath := filepath.Join(dirPath, file.Name())
		if err := m.LoadTemplateFromFile(fullPath); err != nil {
			return fmt.Errorf("failed to load template from %s: %w", file.Name(), err)
		}
	}

	return nil
}

// LoadTemplateFromFile loads a single template, or an array of templates,
// from a JSON file
func (m *AgentTemplateManager) LoadTemplateFromFile(filePath string) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return m.LoadTemplatesJSON(raw)
}

// LoadTemplatesJSON parses one template object or an array of them
func (m *AgentTemplateManager) LoadTemplatesJSON(raw []byte) error {
	var templates []*AgentTemplate
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &templates); err != nil {
			return err
		}
	} else {
		var template AgentTemplate
		if err := json.Unmarshal(raw, &template); err != nil {
			return err
		}
		templates = append(templates, &template)
	}

	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, t := range templates {
		m.Templates[t.ID] = t
	}
	return nil
}

// GetTemplate returns a template by ID
func (m *AgentTemplateManager) GetTemplate(id string) (*AgentTemplate, bool) {
	template, ok := m.Templates[id]
	return template, ok
}

// EnemyTemplates returns templates tagged enemy but not boss, sorted by ID
func (m *AgentTemplateManager) EnemyTemplates() []*AgentTemplate {
	var result []*AgentTemplate
	for _, t := range m.Templates {
		if t.HasTag(components.TagEnemy) && !t.HasTag(components.TagBoss) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ChooseEnemy picks an enemy template by spawn weight. With no positive
// weights every enemy template is equally likely. Returns nil when there are
// no enemy templates.
func (m *AgentTemplateManager) ChooseEnemy(rng *rand.Rand) *AgentTemplate {
	candidates := m.EnemyTemplates()
	if len(candidates) == 0 {
		return nil
	}

	totalWeight := 0
	for _, t := range candidates {
		totalWeight += t.SpawnWeight
	}
	if totalWeight <= 0 {
		return candidates[rng.IntN(len(candidates))]
	}

	roll := rng.IntN(totalWeight)
	current := 0
	for _, t := range candidates {
		current += t.SpawnWeight
		if roll < current {
			return t
		}
	}
	return candidates[len(candidates)-1]
}
