// Package ics serializes events to RFC 5545 calendar files, one file
// per calendar name.
package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thurmanmarka/almagest"
)

const prodID = "-//almagest//astro calendar generator//EN"

// icsTimestamp is the basic format RFC 5545 requires for UTC times.
const icsTimestamp = "20060102T150405Z"

// Writer exports events grouped by their Calendar field into
// <dir>/<sanitized calendar name>.ics.
type Writer struct {
	dir string

	// now is the DTSTAMP source, replaceable in tests.
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// WriteAll splits events by calendar and writes one file per group.
// It returns the paths written.
func (w *Writer) WriteAll(events []almagest.Event) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	byCalendar := make(map[string][]almagest.Event)
	for _, ev := range events {
		name := ev.Calendar
		if name == "" {
			name = "Astro: Misc"
		}
		byCalendar[name] = append(byCalendar[name], ev)
	}

	names := make([]string, 0, len(byCalendar))
	for name := range byCalendar {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		path := filepath.Join(w.dir, fileName(name))
		if err := w.writeCalendar(path, name, byCalendar[name]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeCalendar(path, name string, events []almagest.Event) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	writeProperty(&b, "PRODID", prodID)
	writeProperty(&b, "X-WR-CALNAME", name)

	stamp := w.now().UTC().Format(icsTimestamp)
	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\r\n")
		writeProperty(&b, "UID", uuid.NewString()+"@almagest")
		writeProperty(&b, "DTSTAMP", stamp)
		writeProperty(&b, "DTSTART", ev.Start.UTC().Format(icsTimestamp))
		if ev.Duration > 0 {
			writeProperty(&b, "DTEND", ev.End().UTC().Format(icsTimestamp))
		}
		writeProperty(&b, "SUMMARY", ev.Summary)
		if ev.Description != "" {
			writeProperty(&b, "DESCRIPTION", ev.Description)
		}
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeProperty emits one content line with RFC 5545 text escaping and
// folding at 75 octets.
func writeProperty(b *strings.Builder, name, value string) {
	line := name + ":" + escapeText(value)
	for len(line) > 75 {
		cut := 75
		// Do not split a UTF-8 sequence.
		for cut > 1 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// fileName sanitizes a calendar name into a filesystem-safe .ics name.
func fileName(calendar string) string {
	s := strings.ReplaceAll(calendar, ":", "")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, " ", "_")
	return s + ".ics"
}
