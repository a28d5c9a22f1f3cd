// Package citymatch maps place names to a canonical English spelling and
// scores two place strings for likely referring to the same city.
package citymatch

import (
	"bufio"
	"os"
	"strings"

	"github.com/Gobusters/ectologger"
)

// CityMapper maps a raw city name to its canonical English spelling, loaded
// once from a `input_name,canonical` CSV and treated as read-only afterward.
type CityMapper struct {
	mappings map[string]string
}

// LoadCityMapper reads path, a `input_name,canonical` CSV (lines starting
// with `#` or the `input_name,` header are ignored). A missing file is
// logged as a warning; the mapper then falls back to uppercasing its input
// for every lookup.
func LoadCityMapper(logger ectologger.Logger, path string) *CityMapper {
	m := &CityMapper{mappings: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("city mappings file not found: " + path)
		return m
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "input_name,") {
			continue
		}
		commaIndex := strings.IndexByte(line, ',')
		if commaIndex == -1 {
			logger.Warn("invalid line format in city mappings file")
			continue
		}
		input := strings.TrimSpace(line[:commaIndex])
		canonical := strings.TrimSpace(line[commaIndex+1:])
		if input == "" || canonical == "" {
			continue
		}
		m.mappings[strings.ToUpper(input)] = strings.ToUpper(canonical)
	}

	return m
}

// MapCity returns the canonical English spelling for cityName if a mapping
// exists, otherwise the trimmed uppercase input.
func (m *CityMapper) MapCity(cityName string) string {
	if m == nil {
		return strings.ToUpper(strings.TrimSpace(cityName))
	}
	upper := strings.ToUpper(strings.TrimSpace(cityName))
	if upper == "" {
		return upper
	}
	if canonical, ok := m.mappings[upper]; ok {
		return canonical
	}
	return upper
}

// Count returns the number of loaded mappings.
func (m *CityMapper) Count() int {
	if m == nil {
		return 0
	}
	return len(m.mappings)
}
