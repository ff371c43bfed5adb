package normalize

import "testing"

func TestResolveMerchant_AliasMatch(t *testing.T) {
	aliases := []MerchantAlias{
		{Pattern: "ZOMATO", Alias: "Zomato Food Delivery"},
		{Pattern: "AMZN", Alias: "Amazon"},
	}
	got := ResolveMerchant("UPI-ZOMATO ONLINE ORDER-998877", aliases)
	if got != "Zomato Food Delivery" {
		t.Errorf("ResolveMerchant() = %q, want %q", got, "Zomato Food Delivery")
	}
}

func TestResolveMerchant_NoAliasFallsBackToTitleCase(t *testing.T) {
	got := ResolveMerchant("POS-chaya tea stall", nil)
	if got != "Chaya Tea Stall" {
		t.Errorf("ResolveMerchant() = %q, want %q", got, "Chaya Tea Stall")
	}
}

func TestResolveMerchant_RegexAlias(t *testing.T) {
	aliases := []MerchantAlias{
		{Pattern: `^UPI-.*STALL$`, Alias: "Local Vendor"},
	}
	got := ResolveMerchant("UPI-CHAYA TEA STALL", aliases)
	if got != "Local Vendor" {
		t.Errorf("ResolveMerchant() = %q, want %q", got, "Local Vendor")
	}
}
