package routine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/davebream/sal/internal/config"
)

const (
	flagPrefix  = ".start-of-day-ran-"
	flagPattern = flagPrefix + "[0-9]*"
	dateLayout  = "20060102"

	// RetentionDays is how many days a flag is kept before it is pruned.
	RetentionDays = 7
)

// State is the status of the routine for a given day.
type State int

const (
	NotRun   State = iota
	RanToday       // a flag exists for today
	Stale          // a flag older than RetentionDays, due for pruning
)

func (s State) String() string {
	switch s {
	case RanToday:
		return "ran today"
	case Stale:
		return "stale"
	default:
		return "not run"
	}
}

// FlagStore keeps one empty marker file per day the routine completed.
type FlagStore struct {
	dir string
}

// NewFlagStore returns a FlagStore keeping markers in dir.
func NewFlagStore(dir string) *FlagStore {
	return &FlagStore{dir: dir}
}

// Path returns the marker path for day.
func (f *FlagStore) Path(day time.Time) string {
	return filepath.Join(f.dir, flagPrefix+day.Format(dateLayout))
}

// Has reports whether the routine completed on day.
func (f *FlagStore) Has(day time.Time) (bool, error) {
	_, err := os.Stat(f.Path(day))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("check start-of-day flag: %w", err)
}

// Mark records that the routine completed on day.
func (f *FlagStore) Mark(day time.Time) error {
	if err := config.EnsureDir(f.dir, 0700); err != nil {
		return err
	}
	if err := os.WriteFile(f.Path(day), nil, 0600); err != nil {
		return fmt.Errorf("write start-of-day flag: %w", err)
	}
	return nil
}

// Classify returns the state of a marker dated flagDay as seen on today.
func Classify(flagDay, today time.Time) State {
	fd, td := dateOf(flagDay), dateOf(today)
	switch {
	case fd.Equal(td):
		return RanToday
	case fd.Before(td.AddDate(0, 0, -RetentionDays)):
		return Stale
	default:
		return NotRun
	}
}

// Prune removes stale markers and returns the names it removed. Markers
// with unparseable dates and files that cannot be removed are skipped.
func (f *FlagStore) Prune(today time.Time) []string {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil
	}
	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if ok, err := doublestar.Match(flagPattern, name); err != nil || !ok {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, strings.TrimPrefix(name, flagPrefix), today.Location())
		if err != nil {
			continue
		}
		if Classify(day, today) != Stale {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
			continue
		}
		removed = append(removed, name)
	}
	return removed
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
