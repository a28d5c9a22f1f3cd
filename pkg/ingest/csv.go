// Package ingest reads the company-name CSV input format: one name per
// line, with a `companyName` header line and blank lines ignored.
package ingest

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

const headerLine = "companyName"

// ReadCompanyNamesFile opens path and returns its non-empty, non-header
// company names in file order. A missing or unreadable file is a required-
// resource failure and is raised to the caller rather than skipped.
func ReadCompanyNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "ingest: failed to open company name file "+path)
	}
	defer f.Close()

	return ReadCompanyNames(f)
}

// ReadCompanyNames reads company names from r, skipping the `companyName`
// header line and blank lines.
func ReadCompanyNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == headerLine {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "ingest: failed to read company name input")
	}
	return names, nil
}
