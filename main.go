package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"cave-rogue/config"
	"cave-rogue/data"
	"cave-rogue/logger"
	"cave-rogue/systems"
)

func main() {
	logger.Init()
	log := logger.Log

	cfg := config.Default()
	flag.Uint64Var(&cfg.Generation.Seed, "seed", cfg.Generation.Seed, "base generator seed")
	flag.IntVar(&cfg.Generation.Width, "width", cfg.Generation.Width, "floor width in tiles")
	flag.IntVar(&cfg.Generation.Height, "height", cfg.Generation.Height, "floor height in tiles")
	flag.Float64Var(&cfg.Generation.FillProbability, "fill", cfg.Generation.FillProbability, "initial wall probability")
	flag.IntVar(&cfg.Generation.Iterations, "iter", cfg.Generation.Iterations, "cellular automata passes")
	flag.BoolVar(&cfg.Generation.ConnectCaves, "connect", false, "carve tunnels between cave sections")
	flag.IntVar(&cfg.Spawn.EnemyCount, "enemies", cfg.Spawn.EnemyCount, "enemies per floor")
	flag.IntVar(&cfg.Pathfinding.CacheCapacity, "cache", cfg.Pathfinding.CacheCapacity, "path cache capacity, 0 disables caching")
	flag.StringVar(&cfg.Pathfinding.CachePolicy, "cache-policy", cfg.Pathfinding.CachePolicy, "path cache policy: clear or lru")
	templatesDir := flag.String("templates", "", "directory of agent template JSON files")
	ticks := flag.Int("ticks", 0, "run this many ticks without a window and exit")
	flag.Parse()

	templates := data.NewDefaultTemplateManager()
	if *templatesDir != "" {
		if err := templates.LoadTemplatesFromDirectory(*templatesDir); err != nil {
			log.WithError(err).Fatal("failed to load agent templates")
		}
	}

	session, err := systems.NewLevelSession(cfg, templates, log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := session.Start(); err != nil {
		log.WithError(err).Fatal("failed to load the first floor")
	}

	if *ticks > 0 {
		runHeadless(session, *ticks, log)
		return
	}

	windowWidth, windowHeight := config.GetWindowSize(cfg.Generation.Width, cfg.Generation.Height)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Cave Rogue - Floor Viewer")
	if err := ebiten.RunGame(NewFloorViewer(session, log)); err != nil {
		log.WithError(err).Fatal("viewer stopped")
	}
}

// runHeadless ticks the first floor n times and logs the totals
func runHeadless(session *systems.LevelSession, n int, log logrus.FieldLogger) {
	var moved, blocked int
	for i := 0; i < n; i++ {
		r := session.Tick()
		moved += r.Moved
		blocked += r.Blocked
	}

	stats := session.Pathfinder().Stats()
	log.WithFields(logrus.Fields{
		"ticks":        n,
		"moved":        moved,
		"blocked":      blocked,
		"searches":     stats.Searches,
		"cache_hits":   stats.CacheHits,
		"cache_misses": stats.CacheMisses,
		"cache_size":   stats.Entries,
	}).Info("headless run finished")
}
