package normalize

import "testing"

func TestDetectPaymentRail(t *testing.T) {
	cases := []struct {
		narration string
		want      PaymentRail
	}{
		{"UPI-CHAYA TEA STALL-REF123", RailUPI},
		{"NEFT TRANSFER TO VENDOR", RailNEFT},
		{"RTGS OUTWARD REMITTANCE", RailRTGS},
		{"IMPS/P2A/998877/JOHN DOE", RailIMPS},
		{"POS PURCHASE AT AMAZON", RailPOS},
		{"RANDOM NARRATION", RailUnknown},
	}
	for _, c := range cases {
		if got := DetectPaymentRail(c.narration); got != c.want {
			t.Errorf("DetectPaymentRail(%q) = %s, want %s", c.narration, got, c.want)
		}
	}
}

func TestIsPersonToPersonTransfer(t *testing.T) {
	if !IsPersonToPersonTransfer("UPI-JOHN DOE-998877", "JOHN DOE", 500) {
		t.Error("expected UPI transfer to an individual to be flagged as P2P")
	}
	if IsPersonToPersonTransfer("UPI-AMAZON PAYMENTS LTD-998877", "Amazon Payments Ltd", 500) {
		t.Error("expected a merchant-like UPI payment to NOT be flagged as P2P")
	}
	if IsPersonToPersonTransfer("POS PURCHASE AT STORE", "Store", 500) {
		t.Error("POS rail should never be flagged as P2P")
	}
}

func TestDetectKnownMerchant(t *testing.T) {
	name, category, confidence := DetectKnownMerchant("UPI-ZOMATO ONLINE-998877", "Zomato")
	if name != "Zomato" || category != "Food_Delivery" {
		t.Errorf("DetectKnownMerchant() = (%q, %q, %v), want (Zomato, Food_Delivery, >0)", name, category, confidence)
	}
	if confidence <= 0 {
		t.Errorf("expected positive confidence, got %v", confidence)
	}

	name, _, _ = DetectKnownMerchant("some unrecognized narration", "Unknown Shop")
	if name != "" {
		t.Errorf("expected no known merchant match, got %q", name)
	}
}
