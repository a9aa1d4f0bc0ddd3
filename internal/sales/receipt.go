package sales

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptNumber builds a receipt identifier like
// TXN-20240131-9F2C41AB: the date plus an 8-character alphanumeric core.
// Uniqueness is enforced by the receipt_number column constraint.
func GenerateReceiptNumber(now time.Time) string {
	u := uuid.New()
	short := strings.ToUpper(hex.EncodeToString(u[:4]))
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), short)
}
