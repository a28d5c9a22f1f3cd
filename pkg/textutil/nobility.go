package textutil

import (
	"bufio"
	"os"
	"strings"

	"github.com/Gobusters/ectologger"
)

// NobilityParticles is a case-insensitive set of prefixed honorifics (von,
// zu, de, ...) that a caller may want to ignore when tokenizing a place or
// person name. Loaded once and treated as read-only for the process
// lifetime, the same way the legal-form catalog is.
type NobilityParticles struct {
	titles map[string]struct{}
}

// LoadNobilityParticles reads one title per line from each path in paths,
// skipping blank lines and `#` comments. A missing file is logged as a
// warning and contributes no titles rather than aborting startup.
func LoadNobilityParticles(logger ectologger.Logger, paths ...string) *NobilityParticles {
	set := make(map[string]struct{})
	for _, path := range paths {
		loadTitlesFile(logger, path, set)
	}
	return &NobilityParticles{titles: set}
}

func loadTitlesFile(logger ectologger.Logger, path string, set map[string]struct{}) {
	f, err := os.Open(path)
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("nobility titles file not found")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToUpper(line)] = struct{}{}
		count++
	}
	logger.WithFields(map[string]any{"path": path, "count": count}).Info("loaded nobility titles")
}

// IsNobiliaryParticle reports whether name (trimmed, case-insensitively) is
// a known nobility particle or title.
func (p *NobilityParticles) IsNobiliaryParticle(name string) bool {
	if p == nil || strings.TrimSpace(name) == "" {
		return false
	}
	_, ok := p.titles[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}
