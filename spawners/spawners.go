package spawners

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/data"
	"cave-rogue/ecs"
	"cave-rogue/logger"
	"cave-rogue/spatial"
)

// EntitySpawner manages the creation of agents on a floor
type EntitySpawner struct {
	world           *ecs.World
	templateManager *data.AgentTemplateManager
	occupancy       *spatial.HashGrid // blocking agents only
	sightRange      int               // used when a template leaves SightRange at 0
	log             logrus.FieldLogger
}

// NewEntitySpawner creates a new entity spawner. Blocking agents are
// inserted into occupancy as they are created.
func NewEntitySpawner(world *ecs.World, templateManager *data.AgentTemplateManager, occupancy *spatial.HashGrid) *EntitySpawner {
	return &EntitySpawner{
		world:           world,
		templateManager: templateManager,
		occupancy:       occupancy,
		sightRange:      config.DefaultSightRange,
		log:             logger.Log,
	}
}

// SetLogger replaces the logger used for spawn messages
func (s *EntitySpawner) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		s.log = l
	}
}

// SetDefaultSightRange sets the sight range for templates that leave it unset
func (s *EntitySpawner) SetDefaultSightRange(r int) {
	if r > 0 {
		s.sightRange = r
	}
}

// CreatePlayer creates the player entity at p
func (s *EntitySpawner) CreatePlayer(p components.Point) (*ecs.Entity, error) {
	return s.CreateAgent(data.PlayerTemplateID, p, 0)
}

// CreateEnemy creates an enemy of the given template at p that pursues target
func (s *EntitySpawner) CreateEnemy(p components.Point, templateID string, target ecs.EntityID) (*ecs.Entity, error) {
	return s.CreateAgent(templateID, p, target)
}

// CreateBoss creates the boss at p
func (s *EntitySpawner) CreateBoss(p components.Point, target ecs.EntityID) (*ecs.Entity, error) {
	return s.CreateAgent(data.BossTemplateID, p, target)
}

// CreateAgent builds an entity from a template. Templates with a behaviour
// other than idle, or tagged enemy, get an AI component aimed at target.
func (s *EntitySpawner) CreateAgent(templateID string, p components.Point, target ecs.EntityID) (*ecs.Entity, error) {
	template, exists := s.templateManager.GetTemplate(templateID)
	if !exists {
		return nil, fmt.Errorf("no template found for agent type '%s'", templateID)
	}

	behavior, err := data.ParseAIState(template.Behavior)
	if err != nil {
		return nil, fmt.Errorf("template '%s': %w", templateID, err)
	}
	fallback, err := data.ParseAIState(template.Fallback)
	if err != nil {
		return nil, fmt.Errorf("template '%s': %w", templateID, err)
	}

	entity := s.world.CreateEntity()
	for _, tag := range template.Tags {
		s.world.TagEntity(entity.ID, tag)
	}

	s.world.AddComponent(entity.ID, components.Position, &components.PositionComponent{X: p.X, Y: p.Y})
	s.world.AddComponent(entity.ID, components.Spawn, &components.SpawnComponent{Origin: p})
	s.world.AddComponent(entity.ID, components.Name, components.NewNameComponent(template.Name))
	s.world.AddComponent(entity.ID, components.Collision, &components.CollisionComponent{
		Blocks: template.BlocksPath,
	})

	if behavior != components.AIIdle || template.HasTag(components.TagEnemy) {
		sight := template.SightRange
		if sight == 0 {
			sight = s.sightRange
		}
		s.world.TagEntity(entity.ID, components.TagAI)
		s.world.AddComponent(entity.ID, components.AI, &components.AIComponent{
			State:       fallback,
			Behavior:    behavior,
			Fallback:    fallback,
			SightRange:  sight,
			LeashRadius: template.LeashRadius,
			Target:      target,
		})
	}

	if template.BlocksPath && s.occupancy != nil {
		s.occupancy.Insert(entity.ID, p)
	}

	s.log.WithFields(logrus.Fields{
		"entity":   entity.ID,
		"template": templateID,
		"x":        p.X,
		"y":        p.Y,
	}).Debug("agent spawned")

	return entity, nil
}
