// Command pokedeck browses the Pokémon catalog as an orbit of cards.
//
// Usage:
//
//	pokedeck               Run the browser
//	pokedeck seen [-n N]   List recently opened entries
//	pokedeck events        View the event log
//	pokedeck config        Write the default config file
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/config"
	"github.com/abelbrown/pokedeck/internal/notify"
	"github.com/abelbrown/pokedeck/internal/otel"
	"github.com/abelbrown/pokedeck/internal/pager"
	"github.com/abelbrown/pokedeck/internal/sprite"
	"github.com/abelbrown/pokedeck/internal/store"
	"github.com/abelbrown/pokedeck/internal/ui"
)

func main() {
	if len(os.Args) > 1 {
		cmd := os.Args[1]
		os.Args = os.Args[1:]
		switch cmd {
		case "seen":
			runSeen()
		case "events":
			runEvents()
		case "config":
			runConfig()
		case "-h", "--help", "help":
			fmt.Print(usage)
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
			os.Exit(1)
		}
		return
	}
	run()
}

const usage = `pokedeck: browse the Pokémon catalog in the terminal

Usage:
  pokedeck              Run the browser
  pokedeck seen [-n N]  List recently opened entries
  pokedeck events       View the event log (-f to follow, -kind, -level, -comp, -name)
  pokedeck config       Write the default config to ~/.pokedeck/config.json

Environment:
  POKEDECK_API_BASE   Catalog base URL
  POKEDECK_PAGE_SIZE  Entries per page
  POKEDECK_TIMEOUT    Request timeout (e.g. 10s)
  POKEDECK_TRACE      Log every UI message to the event log
`

func run() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := dataDir()
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Event log: ~/.pokedeck/events.jsonl, mirrored into the debug ring
	logFile, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	defer logFile.Close()
	logger := otel.NewLogger(logFile)
	defer logger.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	logger.SetRingBuffer(ring)

	st, err := store.Open(filepath.Join(dir, "pokedeck.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	client := catalog.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout(),
		catalog.WithRateLimit(cfg.API.RequestsPerSecond),
		catalog.WithUserAgent(cfg.API.UserAgent),
	)

	bus := notify.NewBus(notify.WithDefaultDuration(time.Duration(cfg.UI.NoticeMs) * time.Millisecond))
	defer bus.Close()
	notices, stopNotices := bus.Channel(16)
	defer stopNotices()
	bus.Subscribe(func(n notify.Notice) {
		logger.Emit(otel.Event{Kind: otel.KindNotice, Comp: "notify", Msg: n.Message, Extra: map[string]any{"kind": string(n.Kind)}})
	})

	var sprites ui.Sprites
	if cfg.UI.ShowSprites {
		sprites = sprite.NewLoader(cfg.API.RequestTimeout(), sprite.WithLogger(logger))
	}

	// The program does not exist until the App does, and the App needs the
	// pager, so the first-load hook reaches the program through a variable.
	var program *tea.Program
	opts := []pager.Option{
		pager.WithLogger(logger),
		pager.WithNotices(bus),
		pager.WithSightings(st),
	}
	if cfg.UI.AutoSelectLead {
		opts = append(opts, pager.WithFirstLoadHook(func(_ context.Context, first catalog.SummaryItem) {
			// Send from a goroutine: the hook runs inside a command and
			// program.Send blocks until the event loop reads it.
			go program.Send(ui.SelectItem{Item: first})
		}))
	} else {
		opts = append(opts, pager.WithoutAutoSelect())
	}
	pg := pager.New(client, cfg.API.PageSize, opts...)

	app := ui.NewAppWithConfig(ui.AppConfig{
		Context:  ctx,
		Pager:    pg,
		Sprites:  sprites,
		Notices:  notices,
		Settings: cfg,
		Obs:      ui.ObsConfig{Logger: logger, Ring: ring},
	})

	program = tea.NewProgram(app, tea.WithAltScreen())

	logger.Emit(otel.Event{Kind: otel.KindStartup, Comp: "main", Msg: cfg.API.BaseURL, Extra: map[string]any{"page_size": cfg.API.PageSize}})

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		logger.Error(otel.KindError, "main", err)
	}

	// Graceful shutdown
	cancel()
	pg.Close()
	logger.Emit(otel.Event{Kind: otel.KindShutdown, Comp: "main", Extra: map[string]any{"dropped_events": logger.Dropped()}})
}

// dataDir returns ~/.pokedeck/, creating it if needed.
func dataDir() string {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	return dir
}
