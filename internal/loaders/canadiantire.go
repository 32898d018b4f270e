package loaders

import (
	"io"

	"fjacquet/budgify/internal/models"
)

// CanadianTireLoader reads Canadian Tire Triangle card CSV exports. Like the
// Amex export, the file opens with free-form preamble rows and the header is
// located by scanning.
type CanadianTireLoader struct{}

// Load implements Loader.
func (l *CanadianTireLoader) Load(r io.Reader) ([]models.Transaction, error) {
	return loadHeadered("canadiantire", r)
}
