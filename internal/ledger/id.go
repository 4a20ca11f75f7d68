package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity id prefixes. Ids are human-scannable: the prefix names the
// collection, the middle is a millisecond timestamp, the suffix guards
// against same-millisecond collisions.
const (
	PrefixSale       = "sal"
	PrefixProduct    = "prd"
	PrefixCustomer   = "cus"
	PrefixContract   = "con"
	PrefixEvent      = "ntf"
	PrefixAdjustment = "adj"
)

// NewID generates a process-unique identifier for the given prefix,
// e.g. "sal-1756712345123-9f1c2a3b".
func NewID(prefix string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// FormatInvoiceNumber renders the stable, human-facing invoice number.
// Numbers are sequential per calendar year and never reused.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// FormatContractNumber renders the stable, human-facing contract number.
func FormatContractNumber(year, seq int) string {
	return fmt.Sprintf("CONT-%d-%03d", year, seq)
}
