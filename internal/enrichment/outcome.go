package enrichment

import (
	"fmt"

	"github.com/octobees/contact-enricher/internal/entity"
)

// Outcome is the result of running one provider against one contact.
type Outcome int

// Outcomes reported per provider in a batch result.
const (
	OutcomeSkipped Outcome = iota
	OutcomeEnriched
	OutcomeNotFound
	OutcomeError
)

// String returns the wire form used in batch results.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeEnriched:
		return "enriched"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes encode as JSON strings.
func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case OutcomeSkipped, OutcomeEnriched, OutcomeNotFound, OutcomeError:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "skipped":
		*o = OutcomeSkipped
	case "enriched":
		*o = OutcomeEnriched
	case "not_found":
		*o = OutcomeNotFound
	case "error":
		*o = OutcomeError
	default:
		return fmt.Errorf("unknown outcome %q", string(text))
	}
	return nil
}

// Status maps a definitive outcome to the provider status it persists.
// The boolean is false for outcomes that must leave the stored status untouched.
func (o Outcome) Status() (entity.ProviderStatus, bool) {
	switch o {
	case OutcomeEnriched:
		return entity.StatusEnriched, true
	case OutcomeNotFound:
		return entity.StatusNotFound, true
	case OutcomeSkipped, OutcomeError:
		return "", false
	default:
		return "", false
	}
}
