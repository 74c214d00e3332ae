package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/config"
	"github.com/abelbrown/pokedeck/internal/store"
)

func runSeen() {
	fs := flag.NewFlagSet("seen", flag.ExitOnError)
	n := fs.Int("n", 20, "Number of entries to show")
	fs.Parse(os.Args[1:])

	st, err := store.Open(filepath.Join(dataDir(), "pokedeck.db"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer st.Close()

	total, err := st.Count()
	if err != nil {
		log.Fatalf("count sightings: %v", err)
	}
	recent, err := st.Recent(*n)
	if err != nil {
		log.Fatalf("recent sightings: %v", err)
	}

	fmt.Printf("Seen: %d entries\n\n", total)
	for _, sg := range recent {
		fmt.Printf("%-5s %-20s %-18s %3d views  last %s\n",
			catalog.FormatDexNumber(sg.ID),
			catalog.DisplayName(sg.Name),
			strings.Join(sg.Types, "/"),
			sg.Views,
			sg.LastSeen.Local().Format(time.DateTime))
	}
}

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(os.Args[1:])

	path := config.Path()
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "%s already exists (use -force to overwrite)\n", path)
		os.Exit(1)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		log.Fatalf("write config: %v", err)
	}
	fmt.Println("Wrote", path)
}
