// Payment-rail and known-merchant hinting, adapted from
// kalpit-sharma-dev-text-statement-extractor's
// statement_analysis_engine_rules/utils/{rails.go,merchant_detection.go}. The
// pipeline does not call these helpers; Transaction.Category is not set from them.
package normalize

import "strings"

// PaymentRail classifies a narration by the payment rail it most likely used.
type PaymentRail string

const (
	RailPOS        PaymentRail = "POS"
	RailACH        PaymentRail = "ACH"
	RailNACH       PaymentRail = "NACH"
	RailECS        PaymentRail = "ECS"
	RailRTGS       PaymentRail = "RTGS"
	RailNEFT       PaymentRail = "NEFT"
	RailIMPS       PaymentRail = "IMPS"
	RailUPI        PaymentRail = "UPI"
	RailNetBanking PaymentRail = "NETBANKING"
	RailCheque     PaymentRail = "CHEQUE"
	RailUnknown    PaymentRail = "UNKNOWN"
)

// DetectPaymentRail applies substring heuristics in priority order.
func DetectPaymentRail(narration string) PaymentRail {
	upper := strings.ToUpper(narration)
	switch {
	case strings.Contains(upper, "POS"):
		return RailPOS
	case strings.Contains(upper, "ACH"):
		return RailACH
	case strings.Contains(upper, "NACH"):
		return RailNACH
	case strings.Contains(upper, "ECS"):
		return RailECS
	case strings.Contains(upper, "RTGS"):
		return RailRTGS
	case strings.Contains(upper, "NEFT"):
		return RailNEFT
	case strings.Contains(upper, "IMPS"):
		return RailIMPS
	case strings.Contains(upper, "UPI"):
		return RailUPI
	case strings.Contains(upper, "NETBANKING"), strings.Contains(upper, "NET BANKING"):
		return RailNetBanking
	case strings.Contains(upper, "CHEQUE"), strings.Contains(upper, "CHQ"):
		return RailCheque
	default:
		return RailUnknown
	}
}

// IsPersonToPersonTransfer heuristically flags narrations that look like a
// peer transfer rather than a merchant payment.
func IsPersonToPersonTransfer(narration, merchant string, amount float64) bool {
	rail := DetectPaymentRail(narration)
	if rail != RailUPI && rail != RailIMPS && rail != RailNEFT && rail != RailRTGS {
		return false
	}
	upper := strings.ToUpper(narration + " " + merchant)
	for _, kw := range []string{"LTD", "PVT", "LIMITED", "PAYMENTS", "TECHNOLOGIES", "SERVICES", "STORE", "MART"} {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}

// KnownMerchant is a curated merchant/category hint entry.
type KnownMerchant struct {
	Patterns   []string
	Name       string
	Category   string
	Confidence float64
}

// KnownMerchants is a curated list of common Indian merchants, each with a
// category hint; it is read by DetectKnownMerchant.
var KnownMerchants = []KnownMerchant{
	{Patterns: []string{"ZOMATO", "ZMT"}, Name: "Zomato", Category: "Food_Delivery", Confidence: 0.9},
	{Patterns: []string{"SWIGGY"}, Name: "Swiggy", Category: "Food_Delivery", Confidence: 0.9},
	{Patterns: []string{"UBER"}, Name: "Uber", Category: "Travel", Confidence: 0.9},
	{Patterns: []string{"OLA", "OLACABS"}, Name: "Ola", Category: "Travel", Confidence: 0.9},
	{Patterns: []string{"IRCTC"}, Name: "IRCTC", Category: "Travel", Confidence: 0.9},
	{Patterns: []string{"MAKEMYTRIP", "MMT"}, Name: "MakeMyTrip", Category: "Travel", Confidence: 0.9},
	{Patterns: []string{"IOCL", "INDIANOIL"}, Name: "Indian Oil", Category: "Fuel", Confidence: 0.9},
	{Patterns: []string{"BPCL", "BHARATPETROLEUM"}, Name: "Bharat Petroleum", Category: "Fuel", Confidence: 0.9},
	{Patterns: []string{"HPCL", "HINDUSTANPETROLEUM"}, Name: "Hindustan Petroleum", Category: "Fuel", Confidence: 0.9},
	{Patterns: []string{"AIRTEL", "JIO", "VODAFONE", "IDEA", "BSNL"}, Name: "Telecom", Category: "Bills_Utilities", Confidence: 0.9},
	{Patterns: []string{"ZERODHA"}, Name: "Zerodha", Category: "Investment", Confidence: 0.9},
	{Patterns: []string{"GROWW", "UPSTOX"}, Name: "Investment Apps", Category: "Investment", Confidence: 0.85},
	{Patterns: []string{"AMAZON", "AMAZONPAY"}, Name: "Amazon", Category: "Shopping", Confidence: 0.9},
	{Patterns: []string{"FLIPKART"}, Name: "Flipkart", Category: "Shopping", Confidence: 0.9},
	{Patterns: []string{"MYNTRA", "AJIO", "MEESHO"}, Name: "Fashion E-commerce", Category: "Shopping", Confidence: 0.85},
	{Patterns: []string{"BIGBASKET"}, Name: "BigBasket", Category: "Groceries", Confidence: 0.9},
	{Patterns: []string{"GROFERS", "BLINKIT", "ZEPTO"}, Name: "Grocery Apps", Category: "Groceries", Confidence: 0.88},
	{Patterns: []string{"APOLLO", "FORTIS", "MAX"}, Name: "Hospital Chains", Category: "Healthcare", Confidence: 0.9},
	{Patterns: []string{"NETFLIX", "AMAZON PRIME", "DISNEY", "HOTSTAR"}, Name: "Streaming Services", Category: "Entertainment", Confidence: 0.9},
}

// DetectKnownMerchant returns the canonical name, category, and confidence of
// the first known merchant matched in narration or merchant, or "" / "" / 0.
func DetectKnownMerchant(narration, merchant string) (string, string, float64) {
	upper := strings.ToUpper(narration + " " + merchant)
	for _, km := range KnownMerchants {
		for _, pattern := range km.Patterns {
			if strings.Contains(upper, pattern) {
				return km.Name, km.Category, km.Confidence
			}
		}
	}
	return "", "", 0
}
