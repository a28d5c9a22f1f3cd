// Package legalform recognizes and strips the legal-form suffix of a
// corporate name ("GmbH", "AG", "Ltd."), both by exact catalog lookup and,
// for names where the form has been abbreviated or run together with the
// rest of the name, by fuzzy retrieval against a per-country catalog.
package legalform

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/Gobusters/ectologger"
)

// Entry is one recognized legal form, as loaded from legal_forms.json.
type Entry struct {
	LegalFormID string `json:"legal_form_id"`
	ShortName   string `json:"short_name"`
	LongName    string `json:"long_name,omitempty"`
	Country     string `json:"country"`
}

// Catalog is the set of recognized legal-form strings, deduped by
// upper-case equality, plus a per-country index used by the retriever.
type Catalog struct {
	// forms holds every distinct upper-cased legal-form string, regardless
	// of country, for the flat cleaner lookup.
	forms map[string]struct{}
	// byCountry holds the structured entries grouped by country code, for
	// the retriever, which needs the legal_form_id and the short/long split.
	byCountry map[string][]Entry
}

// LoadCatalog loads legal_forms.json and addition_legal_forms.txt. A
// missing file produces a warning and reduces catalog coverage rather than
// aborting; a malformed JSON file is logged and skipped the same way.
func LoadCatalog(logger ectologger.Logger, legalFormsJSONPath, additionLegalFormsPath string) *Catalog {
	c := &Catalog{
		forms:     make(map[string]struct{}),
		byCountry: make(map[string][]Entry),
	}
	c.loadJSON(logger, legalFormsJSONPath)
	c.loadAdditions(logger, additionLegalFormsPath)
	logger.WithField("count", len(c.forms)).Info("loaded legal form catalog")
	return c
}

func (c *Catalog) loadJSON(logger ectologger.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("legal_forms.json not found")
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.WithField("path", path).WithError(err).Warn("legal_forms.json could not be parsed")
		return
	}

	for _, e := range entries {
		short := strings.TrimSpace(e.ShortName)
		long := strings.TrimSpace(e.LongName)
		if short == "" && long == "" {
			continue
		}
		if short != "" && !strings.EqualFold(short, "null") {
			c.forms[strings.ToUpper(short)] = struct{}{}
		}
		if long != "" && !strings.EqualFold(long, "null") {
			c.forms[strings.ToUpper(long)] = struct{}{}
		}
		country := strings.ToUpper(strings.TrimSpace(e.Country))
		c.byCountry[country] = append(c.byCountry[country], e)
	}
	logger.WithField("count", len(entries)).Info("loaded legal_forms.json")
}

func (c *Catalog) loadAdditions(logger ectologger.Logger, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("addition_legal_forms.txt not found")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.forms[strings.ToUpper(line)] = struct{}{}
		count++
	}
	logger.WithField("count", count).Info("loaded addition_legal_forms.txt")
}

// IsLegalForm reports whether form (case-insensitive) is a known legal form.
func (c *Catalog) IsLegalForm(form string) bool {
	if c == nil || form == "" {
		return false
	}
	_, ok := c.forms[strings.ToUpper(form)]
	return ok
}

// Count returns the number of distinct legal-form strings loaded.
func (c *Catalog) Count() int {
	if c == nil {
		return 0
	}
	return len(c.forms)
}

// AllForms returns every distinct upper-cased legal-form string. Order is
// not defined; callers that need a stable order should sort the result.
func (c *Catalog) AllForms() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.forms))
	for f := range c.forms {
		out = append(out, f)
	}
	return out
}

// EntriesForCountry returns the structured entries loaded for countryCode
// (case-insensitive), or nil if none were loaded for that country.
func (c *Catalog) EntriesForCountry(countryCode string) []Entry {
	if c == nil {
		return nil
	}
	return c.byCountry[strings.ToUpper(strings.TrimSpace(countryCode))]
}
