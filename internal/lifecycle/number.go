package lifecycle

import (
	"strings"

	"github.com/google/uuid"
)

// Reference numbers are the externally visible identifiers users quote to
// support staff. They are assigned once at creation and never change; the
// database backs them with a unique index.

// TicketNumber generates a new ticket reference like TKT-9F2C41AB.
func TicketNumber() string {
	return "TKT-" + randomRef()
}

// AppealNumber generates a new appeal reference like APL-0D81E3F7.
func AppealNumber() string {
	return "APL-" + randomRef()
}

func randomRef() string {
	id := uuid.New()
	var b strings.Builder
	b.Grow(8)

	const hexUpper = "0123456789ABCDEF"
	for _, octet := range id[:4] {
		b.WriteByte(hexUpper[octet>>4])
		b.WriteByte(hexUpper[octet&0x0f])
	}

	return b.String()
}
