package loaders

import (
	"io"

	"fjacquet/budgify/internal/models"
)

// AmexLoader reads Amex statement exports. The export carries several
// preamble rows (cardholder, statement period) before the real header, so
// the header row is located by scanning rather than assumed at line one.
type AmexLoader struct{}

// Load implements Loader.
func (l *AmexLoader) Load(r io.Reader) ([]models.Transaction, error) {
	return loadHeadered("amex", r)
}
