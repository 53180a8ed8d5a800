package textproc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Rule maps one written form to its spoken form. Matching is exact,
// case-sensitive and anchored on word boundaries.
type Rule struct {
	Match  string
	Spoken string

	pattern *regexp.Regexp
}

func compileRule(match, spoken string) (Rule, error) {
	if match == "" {
		return Rule{}, fmt.Errorf("empty match")
	}
	expr := `\b` + regexp.QuoteMeta(match)
	if isWordByte(match[len(match)-1]) {
		expr += `\b`
	}
	p, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("compile %q: %w", match, err)
	}
	return Rule{Match: match, Spoken: spoken, pattern: p}, nil
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// defaultRules is the built-in spoken-form table: titles, connectors and
// acronyms, in application order.
var defaultRules = [][2]string{
	{"Dr.", "Doctor"},
	{"Mr.", "Mister"},
	{"Mrs.", "Missus"},
	{"Ms.", "Miss"},
	{"Prof.", "Professor"},
	{"etc.", "etcetera"},
	{"i.e.", "that is"},
	{"e.g.", "for example"},
	{"vs.", "versus"},
	{"w/o", "without"},
	{"w/", "with"},
	{"&", "and"},
	{"U.S.", "United States"},
	{"U.K.", "United Kingdom"},
	{"CEO", "C E O"},
	{"API", "A P I"},
	{"AI", "A I"},
	{"PDF", "P D F"},
	{"URL", "U R L"},
	{"HTML", "H T M L"},
	{"CSS", "C S S"},
	{"JS", "JavaScript"},
}

// Lexicon is an ordered spoken-form table. It starts from the built-in rules
// and can be extended from YAML files, with optional hot reload.
type Lexicon struct {
	dir string

	mu    sync.RWMutex
	rules []Rule
}

// DefaultLexicon returns a lexicon holding only the built-in table.
func DefaultLexicon() *Lexicon {
	l := &Lexicon{}
	l.rules = builtinRules()
	return l
}

func builtinRules() []Rule {
	rules := make([]Rule, 0, len(defaultRules))
	for _, e := range defaultRules {
		r, err := compileRule(e[0], e[1])
		if err != nil {
			// Built-in entries are static; a failure here is a programming error.
			panic(err)
		}
		rules = append(rules, r)
	}
	return rules
}

// Apply rewrites every rule match to its spoken form, in table order.
func (l *Lexicon) Apply(text string) string {
	l.mu.RLock()
	rules := l.rules
	l.mu.RUnlock()
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.Spoken)
	}
	return text
}

// Rules returns a snapshot of the current table.
func (l *Lexicon) Rules() []Rule {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

type lexiconFile struct {
	Entries []struct {
		Match  string `yaml:"match"`
		Spoken string `yaml:"spoken"`
	} `yaml:"entries"`
}

// LoadDir loads all .yaml/.yml files from dir and appends their entries after
// the built-in table, replacing any previously loaded entries. File entries
// run after the built-ins, so a file cannot shadow a built-in match but can
// add to it.
func (l *Lexicon) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read lexicon dir %q: %w", dir, err)
	}

	rules := builtinRules()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		loaded, err := loadLexiconFile(path)
		if err != nil {
			return fmt.Errorf("load %q: %w", path, err)
		}
		rules = append(rules, loaded...)
	}

	l.mu.Lock()
	l.dir = dir
	l.rules = rules
	l.mu.Unlock()
	return nil
}

func loadLexiconFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	rules := make([]Rule, 0, len(f.Entries))
	for _, e := range f.Entries {
		r, err := compileRule(e.Match, e.Spoken)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// WatchAndReload watches the lexicon directory and reloads on changes.
// Blocks until the done channel is closed.
func (l *Lexicon) WatchAndReload(done <-chan struct{}) error {
	l.mu.RLock()
	dir := l.dir
	l.mu.RUnlock()
	if dir == "" {
		return fmt.Errorf("lexicon has no directory to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					l.LoadDir(dir)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
