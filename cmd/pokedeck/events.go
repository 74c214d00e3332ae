package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// eventLine is the subset of otel.Event the viewer prints. Decoding the
// JSONL directly keeps old logs readable after the schema changes.
type eventLine struct {
	Time  time.Time `json:"t"`
	Level string    `json:"level"`
	Kind  string    `json:"kind"`
	Comp  string    `json:"comp"`
	Gen   uint64    `json:"gen"`
	DurMs float64   `json:"dur_ms"`
	Page  int       `json:"page"`
	Count int       `json:"count"`
	Name  string    `json:"name"`
	Err   string    `json:"err"`
	Msg   string    `json:"msg"`

	raw []byte
}

type eventFilter struct {
	kind  string
	level int
	comp  string
	name  string
}

func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func (f eventFilter) match(ev eventLine) bool {
	switch {
	case f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind):
		return false
	case levelRank(ev.Level) < f.level:
		return false
	case f.comp != "" && ev.Comp != f.comp:
		return false
	case f.name != "" && ev.Name != f.name:
		return false
	}
	return true
}

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Keep printing new events")
	kind := fs.String("kind", "", "Filter by event kind prefix (e.g. 'page')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	comp := fs.String("comp", "", "Filter by component (pager, sprite, ui, main)")
	name := fs.String("name", "", "Filter by catalog entry name")
	rawJSON := fs.Bool("json", false, "Print raw JSON lines")
	fs.Parse(os.Args[1:])

	path := filepath.Join(dataDir(), "events.jsonl")
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintln(os.Stderr, "  Run pokedeck first to generate events.")
		os.Exit(1)
	}
	defer f.Close()

	filter := eventFilter{kind: *kind, level: levelRank(*level), comp: *comp, name: *name}
	show := func(ev eventLine) {
		if *rawJSON {
			fmt.Println(string(ev.raw))
			return
		}
		fmt.Println(formatEvent(ev))
	}

	r := bufio.NewReader(f)
	for _, ev := range lastEvents(r, *tail, filter) {
		show(ev)
	}
	if !*follow {
		return
	}

	// lastEvents consumed the file; poll for appended lines.
	for {
		line, err := r.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if ev, ok := parseEvent(line); ok && filter.match(ev) {
			show(ev)
		}
	}
}

func parseEvent(line []byte) (eventLine, bool) {
	line = []byte(strings.TrimRight(string(line), "\r\n"))
	if len(line) == 0 {
		return eventLine{}, false
	}
	var ev eventLine
	if json.Unmarshal(line, &ev) != nil {
		return eventLine{}, false
	}
	ev.raw = line
	return ev, true
}

// lastEvents reads r to the end and returns the last n matching events in
// file order.
func lastEvents(r *bufio.Reader, n int, filter eventFilter) []eventLine {
	if n <= 0 {
		n = 1
	}
	ring := make([]eventLine, n)
	seen := 0
	for {
		line, err := r.ReadBytes('\n')
		if ev, ok := parseEvent(line); ok && filter.match(ev) {
			ring[seen%n] = ev
			seen++
		}
		if err != nil {
			break
		}
	}
	if seen <= n {
		return ring[:seen]
	}
	start := seen % n
	return append(ring[start:], ring[:start]...)
}

func formatEvent(ev eventLine) string {
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "INFO"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s [%-6s] %-18s", ev.Time.Local().Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)
	if ev.Gen > 0 {
		fmt.Fprintf(&b, " gen=%d", ev.Gen)
	}
	if ev.Page > 0 {
		fmt.Fprintf(&b, " page=%d", ev.Page)
	}
	if ev.Name != "" {
		b.WriteString(" " + ev.Name)
	}
	if ev.Msg != "" {
		b.WriteString(": " + ev.Msg)
	}
	if ev.DurMs > 0 {
		fmt.Fprintf(&b, " (%.1fms)", ev.DurMs)
	}
	if ev.Count > 0 {
		fmt.Fprintf(&b, " n=%d", ev.Count)
	}
	if ev.Err != "" {
		b.WriteString(" err=" + ev.Err)
	}
	return b.String()
}
