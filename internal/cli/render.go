package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/pricing"
	"weddinghall/internal/domain/quote"
)

func renderQuote(w io.Writer, view quote.View) error {
	sel := view.Selection
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Company\t%s\n", view.Company.Name)
	fmt.Fprintf(tw, "Hall\t%s\t(%s)\n", orDash(sel.Hall), strings.Join(sel.HallNames, ", "))
	fmt.Fprintf(tw, "Date\t%s\t(%s)\n", orDash(sel.Date), strings.Join(sel.Dates, ", "))
	fmt.Fprintf(tw, "Tier\t%s\t(%s)\n", orDash(string(sel.Tier)), joinTiers(sel.Tiers))

	if view.NoQuote {
		fmt.Fprintln(tw, "\nNo estimate available for this selection.")
		return tw.Flush()
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ITEM\tQTY\tUNIT\tBASELINE\tCOST\tDISCOUNT\t%")
	for _, line := range view.Breakdown.Lines() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			lineLabel(line),
			line.Quantity,
			line.UnitPriceDisplay,
			line.UnitPriceBaseline,
			line.LineDisplayCost,
			line.LineDiscount,
			line.DiscountPercent,
		)
	}

	b := view.Breakdown
	fmt.Fprintf(tw, "TOTAL\t\t\t%d\t%d\t%d\t%d\n", b.TotalBaselineCost, b.TotalDisplayCost, b.TotalDiscount, b.DiscountPercent)
	if view.Estimate != nil && view.Estimate.PenaltyAmount > 0 {
		fmt.Fprintf(tw, "\nCancellation penalty\t%d\t%s\n", view.Estimate.PenaltyAmount, view.Estimate.PenaltyDetail)
	}
	return tw.Flush()
}

func lineLabel(l pricing.Line) string {
	switch {
	case l.Kind == pricing.LineMeal && l.Category != "":
		return l.Label + " [" + l.Category + "]"
	case l.Required:
		return l.Label + " (required)"
	default:
		return l.Label
	}
}

func joinTiers(tiers []catalog.Tier) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
