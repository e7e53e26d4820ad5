package renderer

import (
	"fmt"

	"github.com/etnz/docimport"
)

// Activity renders an activity to a string.
func Activity(a *docimport.Activity) string {
	security := Security(a)
	switch a.Type {
	case docimport.Buy:
		return fmt.Sprintf("Bought %s of %s for %s", a.Shares, security, a.Amount)
	case docimport.Sell:
		return fmt.Sprintf("Sold %s of %s for %s", a.Shares, security, a.Amount)
	case docimport.Dividend:
		if a.ForeignCurrency != "" {
			return fmt.Sprintf("Dividend of %s for %s paid in %s at %s", a.Amount, security, a.ForeignCurrency, a.FxRate)
		}
		return fmt.Sprintf("Dividend of %s for %s", a.Amount, security)
	case docimport.TransferIn:
		return fmt.Sprintf("Received %s of %s", a.Shares, security)
	case docimport.TransferOut:
		return fmt.Sprintf("Delivered %s of %s", a.Shares, security)
	default:
		return a.String()
	}
}

// Security returns the best reference of the security of a.
func Security(a *docimport.Activity) string {
	switch {
	case a.ISIN != "":
		return a.ISIN
	case a.WKN != "":
		return a.WKN
	default:
		return a.Company
	}
}
