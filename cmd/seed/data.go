package main

import "reading-service/internal/models"

type packageDef struct {
	ID                 string
	Type               models.PackageType
	NameTh             string
	NameEn             string
	PriceThb           int
	ProductName        string
	ProductDescription string
	// StripePriceID is the live price; empty means create one.
	StripePriceID string
	// UnitAmount is in satang.
	UnitAmount int64
	// Interval is "month" or "year" for recurring prices.
	Interval string
}

var packageDefs = []packageDef{
	{
		ID:                 "qx6wsz8ugcpf1a0lrnue63qv",
		Type:               models.PackageMonthly,
		NameTh:             "แพ็คเกจรายเดือน",
		NameEn:             "Monthly Card Reading Package",
		PriceThb:           198,
		ProductName:        "Monthly Card Reading Package",
		ProductDescription: "Unlimited card readings for 1 month",
		StripePriceID:      "price_1SpZuDPFcI0F05No0akAUH5f",
		UnitAmount:         19800,
		Interval:           "month",
	},
	{
		ID:                 "xr8yrdrmob4hmxccbuct9f8m",
		Type:               models.PackageYearly,
		NameTh:             "แพ็คเกจรายปี",
		NameEn:             "Yearly Card Reading Package",
		PriceThb:           1599,
		ProductName:        "Yearly Card Reading Package",
		ProductDescription: "Unlimited card readings for 1 year",
		StripePriceID:      "price_1SpZuEPFcI0F05NosJeAe79O",
		UnitAmount:         159900,
		Interval:           "year",
	},
	{
		ID:                 "q3be6sv0iz16w1m43vl0drnr",
		Type:               models.PackageFlipToken1,
		NameTh:             "1 โทเค็นพลิกการ์ด",
		NameEn:             "1 Flip Token",
		PriceThb:           18,
		ProductName:        "1 Flip Token",
		ProductDescription: "Single card flip token",
		StripePriceID:      "price_1SpMxYPFcI0F05NoIHer0JrB",
		UnitAmount:         1800,
	},
}

type userDef struct {
	ClerkUserID  string
	TokenBalance *int
}

func intPtr(v int) *int { return &v }

var userDefs = []userDef{
	{ClerkUserID: "user_37vKmxWqe1ED1z1yeYu1Uyq9k4h", TokenBalance: intPtr(420)},
	{ClerkUserID: "user_37pR8W4iRY2xV9kjB9b5ouL9bMT"},
	{ClerkUserID: "user_37jbCqY3k8ng67KgmlTzSKwERw6"},
	{ClerkUserID: "user_37FrhTJMfiBDe1UK6G2oeVpUMY2"},
	{ClerkUserID: "user_37EojJ3PY8Jc0InVq38KJfqiU6r"},
	{ClerkUserID: "user_37CtJykd8XxIEydMgCFVhVnk5Ou"},
}

var paymentAccountDefs = []models.PaymentAccount{
	{
		ClerkUserID:        "user_37FrhTJMfiBDe1UK6G2oeVpUMY2",
		Provider:           models.PaymentProviderStripe,
		ProviderCustomerID: "cus_Tn0JWXmGy1pCA0",
	},
	{
		ClerkUserID:        "user_37vKmxWqe1ED1z1yeYu1Uyq9k4h",
		Provider:           models.PaymentProviderStripe,
		ProviderCustomerID: "cus_ToC4y8lDcsppMl",
	},
}

var artistDefs = []models.Artist{
	{
		ID:          "bntvvw5s6qxssmuys3xbggvu",
		FullName:    "Veeraya",
		AvatarURL:   "https://muwow-assets.sgp1.cdn.digitaloceanspaces.com/artist-avatar/veeraya-bw.webp",
		Description: "Visionary artist specializing in mystical illustration and cosmic animation",
		Specialties: []string{"Illustrated Animation", "Mixed-media Drawing"},
	},
	{
		ID:          "j10ym87hxd5fmqa1mtecy3cd",
		FullName:    "Teerath",
		AvatarURL:   "https://muwow-assets.sgp1.cdn.digitaloceanspaces.com/artist-avatar/teerath-bw.webp",
		Description: "Visionary artist specializing in abstract painting and ceramic art",
		Specialties: []string{"Abstract Painting", "Ceramic"},
	},
	{
		ID:          "exe7hfwrdhcicbk38i4yj8ya",
		FullName:    "Krilas",
		AvatarURL:   "https://muwow-assets.sgp1.cdn.digitaloceanspaces.com/artist-avatar/krilas-bw.webp",
		Description: "Visionary artist specializing in hand-knitting and yarn-crafted art",
		Specialties: []string{"Hand-Knitting", "Yarn-Crafted"},
	},
}
