// Package indicator produces the status bar readings: clock, battery and
// the session strip.
package indicator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/termslots/internal/session"
)

// ClockLayout renders like "Mon 2026-10-19 03:04PM".
const ClockLayout = "Mon 2006-01-02 03:04PM"

// DefaultPowerSupplyDir is where Linux exposes batteries.
const DefaultPowerSupplyDir = "/sys/class/power_supply"

// BatteryCacheTTL bounds how often the battery is re-read.
const BatteryCacheTTL = 30 * time.Second

// UnknownBattery is shown when no battery can be read.
const UnknownBattery = "--%"

// Clock formats now for the status bar.
func Clock(now time.Time) string {
	return now.Format(ClockLayout)
}

// Battery reads the first battery under a power_supply directory and caches
// the reading.
type Battery struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	value   string
	readAt  time.Time
	hasRead bool
}

// NewBattery returns a reader rooted at dir (DefaultPowerSupplyDir when empty).
func NewBattery(dir string) *Battery {
	if dir == "" {
		dir = DefaultPowerSupplyDir
	}
	return &Battery{dir: dir, ttl: BatteryCacheTTL, now: time.Now}
}

// Read returns the cached reading, refreshing it once the cache is stale.
func (b *Battery) Read() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if b.hasRead && now.Sub(b.readAt) <= b.ttl {
		return b.value
	}
	b.value = readBattery(b.dir)
	b.readAt = now
	b.hasRead = true
	return b.value
}

func readBattery(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return UnknownBattery
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		supply := filepath.Join(dir, name)
		if readTrimmed(filepath.Join(supply, "type")) != "Battery" {
			continue
		}
		pct, err := strconv.Atoi(readTrimmed(filepath.Join(supply, "capacity")))
		if err != nil {
			continue
		}
		switch readTrimmed(filepath.Join(supply, "status")) {
		case "Charging":
			return fmt.Sprintf("%d%%+", pct)
		case "Discharging":
			return fmt.Sprintf("%d%%-", pct)
		default:
			return fmt.Sprintf("%d%%", pct)
		}
	}
	return UnknownBattery
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Strip renders the slot list as "[1][2*][3]", marking the active slot.
func Strip(slots []session.SlotInfo) string {
	return strings.Join(StripCells(slots), "")
}

// StripCells returns one "[n]" cell per slot, "[n*]" for the active one.
func StripCells(slots []session.SlotInfo) []string {
	if len(slots) == 0 {
		return nil
	}
	cells := make([]string, len(slots))
	for i, s := range slots {
		mark := ""
		if s.Active {
			mark = "*"
		}
		cells[i] = "[" + strconv.Itoa(s.Index) + mark + "]"
	}
	return cells
}
