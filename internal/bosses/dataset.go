// internal/bosses/dataset.go
//
// Dataset loading, name resolution and autocomplete suggestions.
//
// Source documents are arrays of {game, bosses: [...]}. Load flattens them
// in document order, stamping each boss with its parent game, and optionally
// fills the EN/PT variants from translation tables.

package bosses

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// MaxSuggestions caps the number of autocomplete entries.
const MaxSuggestions = 5

// ErrUnknownBoss is returned when a name resolves to no record.
var ErrUnknownBoss = errors.New("unknown boss")

// group is one element of a source document.
type group struct {
	Game   string   `json:"game"`
	Bosses []Record `json:"bosses"`
}

// Dataset is the flattened, ordered, read-only boss list of one mode.
type Dataset struct {
	records []Record
	byName  map[string]int // lowercased canonical name -> index
}

// Load parses a grouped source document. When tr is non-nil every record is
// decorated with EN (canonical) and PT (translated or canonical) variants.
// Canonical names must be unique.
func Load(raw []byte, tr *Translations) (*Dataset, error) {
	var groups []group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	ds := &Dataset{byName: make(map[string]int)}
	for _, g := range groups {
		for _, b := range g.Bosses {
			b.Game = g.Game
			if tr != nil {
				b = tr.localize(b)
			}
			key := strings.ToLower(b.Name)
			if _, dup := ds.byName[key]; dup {
				return nil, fmt.Errorf("duplicate boss %q", b.Name)
			}
			ds.byName[key] = len(ds.records)
			ds.records = append(ds.records, b)
		}
	}
	return ds, nil
}

// ReadSource returns the contents of path, or the embedded document when
// path is empty.
func ReadSource(path string, embedded func() ([]byte, error)) ([]byte, error) {
	if path == "" {
		return embedded()
	}
	return os.ReadFile(path)
}

func (d *Dataset) Len() int { return len(d.records) }

// At returns the record at i. It panics if i is out of range.
func (d *Dataset) At(i int) Record { return d.records[i] }

// IndexOf returns the position of a canonical name, or -1.
func (d *Dataset) IndexOf(name string) int {
	if i, ok := d.byName[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Resolve finds the first record, in dataset order, whose canonical, EN or
// PT name equals name (case-insensitive).
func (d *Dataset) Resolve(name string) (Record, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		for _, r := range d.records {
			if r.Matches(name) {
				return r, nil
			}
		}
	}
	return Record{}, fmt.Errorf("%w: %q", ErrUnknownBoss, name)
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	DisplayName string `json:"name"`
	Boss        Record `json:"boss"`
}

// Suggest returns up to MaxSuggestions records, in dataset order, whose name
// variants contain query (case-insensitive), skipping canonical names listed
// in exclude. An empty query yields nothing.
func (d *Dataset) Suggest(query string, exclude []string, lang Language) []Suggestion {
	q := strings.ToLower(query)
	if q == "" {
		return nil
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, n := range exclude {
		skip[strings.ToLower(n)] = struct{}{}
	}
	out := make([]Suggestion, 0, MaxSuggestions)
	for _, r := range d.records {
		if _, ok := skip[strings.ToLower(r.Name)]; ok || !r.contains(q) {
			continue
		}
		display := r.Name
		if lang == PT && r.NamePT != "" {
			display = r.NamePT
		}
		out = append(out, Suggestion{DisplayName: display, Boss: r})
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
