package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/systems"
)

var (
	wallColor   = color.RGBA{40, 36, 48, 255}
	floorColor  = color.RGBA{120, 104, 84, 255}
	playerColor = color.RGBA{90, 200, 250, 255}
	enemyColor  = color.RGBA{220, 70, 60, 255}
	bossColor   = color.RGBA{250, 180, 40, 255}
	agentColor  = color.RGBA{160, 160, 160, 255}
)

// FloorViewer implements ebiten.Game for stepping through generated floors
type FloorViewer struct {
	session  *systems.LevelSession
	log      logrus.FieldLogger
	autoTick bool
	frame    int
}

// NewFloorViewer creates a viewer over a started session
func NewFloorViewer(session *systems.LevelSession, log logrus.FieldLogger) *FloorViewer {
	v := &FloorViewer{
		session: session,
		log:     log,
	}

	session.Messages().Add("Space: next floor  T: tick  A: auto tick  Arrows: move  C: centre player  F: fullscreen")
	return v
}

// Update handles input
func (v *FloorViewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := v.session.NextLevel(); err != nil {
			v.log.WithError(err).Error("failed to load next floor")
			v.session.Messages().Addf("Could not load floor %d", v.session.Level()+2)
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if !v.session.RecenterPlayer() {
			v.session.Messages().Add("Centre tile is taken")
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.autoTick = !v.autoTick
	}

	moves := map[ebiten.Key]components.Point{
		ebiten.KeyArrowUp:    components.Pt(0, -1),
		ebiten.KeyArrowRight: components.Pt(1, 0),
		ebiten.KeyArrowDown:  components.Pt(0, 1),
		ebiten.KeyArrowLeft:  components.Pt(-1, 0),
	}
	for key, d := range moves {
		if inpututil.IsKeyJustPressed(key) {
			if v.session.MovePlayer(d) {
				v.session.Tick()
			}
			return nil
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.session.Tick()
		return nil
	}

	// Auto tick runs at ~6 ticks per second
	v.frame++
	if v.autoTick && v.frame%10 == 0 {
		v.session.Tick()
	}
	return nil
}

// Draw renders the floor, its agents and the status strip
func (v *FloorViewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	grid := v.session.Grid()
	if grid == nil {
		ebitenutil.DebugPrint(screen, "no floor loaded")
		return
	}

	ts := float32(config.TileSize)
	top := float32(config.StatusBarHeight)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := wallColor
			if grid.IsWalkable(x, y) {
				c = floorColor
			}
			vector.DrawFilledRect(screen, float32(x)*ts, top+float32(y)*ts, ts, ts, c, false)
		}
	}

	world := v.session.World()
	for _, e := range world.GetEntitiesWithComponent(components.Position) {
		posComp, _ := world.GetComponent(e.ID, components.Position)
		p := posComp.(*components.PositionComponent).Point()

		c := agentColor
		switch {
		case e.HasTag(components.TagPlayer):
			c = playerColor
		case e.HasTag(components.TagBoss):
			c = bossColor
		case e.HasTag(components.TagEnemy):
			c = enemyColor
		}
		cx := float32(p.X)*ts + ts/2
		cy := top + float32(p.Y)*ts + ts/2
		vector.DrawFilledCircle(screen, cx, cy, ts/2-1, c, true)
	}

	stats := v.session.Pathfinder().Stats()
	status := fmt.Sprintf("Floor %d  seed %d  caves %d  tick %d  searches %d  cache %d/%d hits %d",
		v.session.Level()+1, v.session.Seed(), v.session.Rooms().Len(), v.session.Ticks(),
		stats.Searches, stats.Entries, stats.Capacity, stats.CacheHits)
	ebitenutil.DebugPrintAt(screen, status, 4, 0)

	if recent := v.session.Messages().RecentMessages(1); len(recent) > 0 {
		ebitenutil.DebugPrintAt(screen, recent[0], 4, 14)
	}
}

// Layout implements ebiten.Game's Layout
func (v *FloorViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
