package storefront

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tastebite/tastebite-backend/pkg/apiclient"
)

const placedLabelLayout = "2006-01-02 at 03:04 PM"

// Display statuses an order can render as.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// OrderView is one history row projected for display. The row's label
// strings are the serialization boundary; every field here comes from an
// explicit parse with a fallback, so a malformed row still renders instead
// of failing the whole list.
type OrderView struct {
	OrderID    uuid.UUID
	Status     string
	ItemCount  int
	Amount     int64
	PlacedAt   *time.Time // nil when the placed label did not parse
	EtaMinutes *int
	ReadyAt    *time.Time
}

func projectRow(row apiclient.HistoryRow, now time.Time) OrderView {
	view := OrderView{
		OrderID:   row.OrderID,
		Status:    normalizeDisplayStatus(row.Status),
		ItemCount: parseItemCountLabel(row.ItemsLabel, row.ItemCount),
		Amount:    parseAmountLabel(row.AmountLabel),
	}
	if placed, ok := parsePlacedLabel(row.PlacedLabel); ok {
		view.PlacedAt = &placed
	}

	if view.Status != StatusConfirmed {
		return view
	}
	// an unparseable placement time reads as "just placed"
	placed := now
	if view.PlacedAt != nil {
		placed = *view.PlacedAt
	}
	age := now.Sub(placed)
	if age < 0 || age > etaVisibleWindow {
		return view
	}
	extra := view.ItemCount * etaPerItemMinutes
	if extra > etaPerItemCap {
		extra = etaPerItemCap
	}
	eta := etaBaseMinutes + extra
	ready := placed.Add(time.Duration(eta) * time.Minute)
	view.EtaMinutes = &eta
	view.ReadyAt = &ready
	return view
}

// normalizeDisplayStatus maps an arbitrary-case status string onto the known
// set, defaulting anything unrecognized to Delivered.
func normalizeDisplayStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "cancelled":
		return StatusCancelled
	default:
		return StatusDelivered
	}
}

// parseItemCountLabel extracts the number from a count label like "3 items"
// by stripping non-digits. A label with no digits falls back to the row's
// line count.
func parseItemCountLabel(label string, fallback int) int {
	digits := stripNonDigits(label)
	if digits == "" {
		return fallback
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}
	return count
}

// parseAmountLabel extracts the numeric value from a currency label like
// "₹1,375". A label with no digits reads as zero.
func parseAmountLabel(label string) int64 {
	digits := stripNonDigits(label)
	if digits == "" {
		return 0
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return amount
}

// parsePlacedLabel parses the composite date label. Unparseable input leaves
// the placement time blank rather than failing the row.
func parsePlacedLabel(label string) (time.Time, bool) {
	placed, err := time.Parse(placedLabelLayout, strings.TrimSpace(label))
	if err != nil {
		return time.Time{}, false
	}
	return placed, true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
