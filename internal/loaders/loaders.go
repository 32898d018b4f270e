// Package loaders reads bank statement exports and manual entry files into
// the standardized Transaction model. Each bank format has its own loader;
// the registry maps loader names to implementations for the CLI.
package loaders

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/models"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Loader reads one statement format from the provided io.Reader and returns
// standardized Transaction models. Implementations return typed errors
// (ParseError, InvalidFormatError) for format-specific failures.
type Loader interface {
	Load(r io.Reader) ([]models.Transaction, error)
}

var registry = map[string]func() Loader{
	"amex":         func() Loader { return &AmexLoader{} },
	"tdvisa":       func() Loader { return &TDVisaLoader{} },
	"hometrust":    func() Loader { return &HomeTrustLoader{} },
	"canadiantire": func() Loader { return &CanadianTireLoader{} },
}

// Get returns the loader registered under name.
func Get(name string) (Loader, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown bank loader %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names returns the sorted registered loader names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile opens path and runs the named loader over it.
func LoadFile(name, path string) ([]models.Transaction, error) {
	loader, err := Get(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	txs, err := loader.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s statement %s: %w", name, path, err)
	}
	log.WithFields(logrus.Fields{"loader": name, "file": path, "count": len(txs)}).
		Info("Loaded statement file")
	return txs, nil
}

// amountCleaner strips currency symbols, commas, and whitespace, leaving
// digits, the minus sign, and the decimal point.
var amountCleaner = regexp.MustCompile(`[^0-9\-.]`)

// cleanAmount parses a statement amount such as "$1,234.56" or "-12.00".
func cleanAmount(raw string) (float64, error) {
	cleaned := amountCleaner.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	return d.Round(2).InexactFloat64(), nil
}

// statementDateLayouts are tried in order when a statement does not use ISO
// dates. North American exports favor MM/DD/YYYY.
var statementDateLayouts = []string{
	models.DateLayoutISO,
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// parseStatementDate normalizes a statement date to the ISO form.
func parseStatementDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range statementDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(models.DateLayoutISO), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}
