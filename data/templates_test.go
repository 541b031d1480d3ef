package data

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"cave-rogue/components"
)

func TestDefaultTemplatesAreValid(t *testing.T) {
	m := NewDefaultTemplateManager()
	for _, id := range []string{PlayerTemplateID, CrawlerTemplateID, LurkerTemplateID, BossTemplateID} {
		tmpl, ok := m.GetTemplate(id)
		if !ok {
			t.Fatalf("missing built-in template %q", id)
		}
		if err := tmpl.Validate(); err != nil {
			t.Errorf("template %q invalid: %v", id, err)
		}
	}
}

func TestParseAIState(t *testing.T) {
	tests := []struct {
		name    string
		want    components.AIState
		wantErr bool
	}{
		{"", components.AIIdle, false},
		{"idle", components.AIIdle, false},
		{"Wander", components.AIWander, false},
		{"pursue", components.AIPursue, false},
		{"chase", components.AIPursue, false},
		{"teleport", components.AIIdle, true},
	}
	for _, tt := range tests {
		got, err := ParseAIState(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAIState(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAIState(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEnemyTemplatesExcludeBossAndPlayer(t *testing.T) {
	enemies := NewDefaultTemplateManager().EnemyTemplates()
	if len(enemies) != 2 {
		t.Fatalf("expected 2 enemy templates, got %d", len(enemies))
	}
	if enemies[0].ID != CrawlerTemplateID || enemies[1].ID != LurkerTemplateID {
		t.Errorf("unexpected order: %s, %s", enemies[0].ID, enemies[1].ID)
	}
}

func TestChooseEnemyFollowsWeights(t *testing.T) {
	m := NewDefaultTemplateManager()
	rng := rand.New(rand.NewPCG(1, 2))

	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[m.ChooseEnemy(rng).ID]++
	}
	// Weights 3:1
	if counts[CrawlerTemplateID] < 2*counts[LurkerTemplateID] {
		t.Errorf("crawler should dominate: %v", counts)
	}
	if counts[LurkerTemplateID] == 0 {
		t.Error("lurker never chosen")
	}
	if counts[BossTemplateID] != 0 {
		t.Error("boss chosen as a regular enemy")
	}

	if NewAgentTemplateManager().ChooseEnemy(rng) != nil {
		t.Error("empty manager should choose nothing")
	}
}

func TestLoadTemplatesJSON(t *testing.T) {
	m := NewDefaultTemplateManager()
	err := m.LoadTemplatesJSON([]byte(`[
		{"id": "bat", "name": "Bat", "behavior": "wander", "tags": ["enemy"], "blocksPath": false, "spawnWeight": 2},
		{"id": "cave_crawler", "name": "Big Crawler", "behavior": "pursue", "fallback": "wander", "tags": ["enemy"], "spawnWeight": 5}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bat, ok := m.GetTemplate("bat")
	if !ok || bat.BlocksPath || bat.SpawnWeight != 2 {
		t.Errorf("bat not loaded correctly: %+v", bat)
	}
	crawler, _ := m.GetTemplate(CrawlerTemplateID)
	if crawler.Name != "Big Crawler" {
		t.Errorf("override not applied: %q", crawler.Name)
	}
}

func TestLoadTemplatesJSONRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed":        `{"id": `,
		"missing id":       `{"name": "Nobody"}`,
		"missing name":     `{"id": "x"}`,
		"unknown behavior": `{"id": "x", "name": "X", "behavior": "fly"}`,
		"negative leash":   `{"id": "x", "name": "X", "leashRadius": -1}`,
	}
	for name, raw := range tests {
		m := NewAgentTemplateManager()
		if err := m.LoadTemplatesJSON([]byte(raw)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
		if len(m.Templates) != 0 {
			t.Errorf("%s: invalid input registered templates", name)
		}
	}
}

func TestLoadTemplatesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("slime.json", `{"id": "slime", "name": "Slime", "behavior": "wander", "tags": ["enemy"]}`)
	write("notes.txt", `not json`)

	m := NewAgentTemplateManager()
	if err := m.LoadTemplatesFromDirectory(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.GetTemplate("slime"); !ok {
		t.Error("slime template not loaded")
	}
	if len(m.Templates) != 1 {
		t.Errorf("expected only the json file to load, got %d templates", len(m.Templates))
	}

	if err := m.LoadTemplatesFromDirectory(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
