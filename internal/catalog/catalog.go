// Package catalog holds the static storefront data: gifts purchasable
// with coins, discount offers, and the product table used by the admin
// purchase-registration command. Prices are in coins except Product
// prices, which are in the shop's currency-agnostic purchase units.
package catalog

// Gift is a coin-shop item. MinLevel gates premium tiers: the base
// one-month tier is open to everyone, everything else needs level 2.
type Gift struct {
	Code     string
	Name     string
	Cost     int
	MinLevel int
}

// DiscountOffer is a purchasable discount top-up. Offers above 50%
// are reserved for level 2 users; the ledger enforces the gate.
type DiscountOffer struct {
	Percent int
	Cost    int
}

// Product is an item of the real storefront assortment, referenced by
// code in the admin /register_purchase command.
type Product struct {
	Code  string
	Name  string
	Price int
}

var gifts = []Gift{
	{Code: "discord_nitro_1m", Name: "Discord Nitro (1 Month)", Cost: 400, MinLevel: 1},
	{Code: "discord_nitro_3m", Name: "Discord Nitro (3 Months)", Cost: 800, MinLevel: 2},
	{Code: "spotify_premium_1m", Name: "Spotify Premium (1 Month)", Cost: 200, MinLevel: 1},
	{Code: "spotify_premium_3m", Name: "Spotify Premium (3 Months)", Cost: 450, MinLevel: 2},
	{Code: "spotify_premium_6m", Name: "Spotify Premium (6 Months)", Cost: 600, MinLevel: 2},
	{Code: "spotify_premium_12m", Name: "Spotify Premium (12 Months)", Cost: 1220, MinLevel: 2},
	{Code: "twitch_level1_1m", Name: "Twitch Level 1 (1 Month)", Cost: 200, MinLevel: 1},
	{Code: "twitch_level1_3m", Name: "Twitch Level 1 (3 Months)", Cost: 400, MinLevel: 2},
	{Code: "twitch_level1_6m", Name: "Twitch Level 1 (6 Months)", Cost: 800, MinLevel: 2},
	{Code: "twitch_level2_1m", Name: "Twitch Level 2 (1 Month)", Cost: 300, MinLevel: 2},
	{Code: "twitch_level3_1m", Name: "Twitch Level 3 (1 Month)", Cost: 800, MinLevel: 2},
}

// giftButtons maps Gift Shop keyboard labels to gift codes.
var giftButtons = map[string]string{
	"🎮 Discord Nitro (1 Month)":      "discord_nitro_1m",
	"🎮 Discord Nitro (3 Months)":     "discord_nitro_3m",
	"🎵 Spotify Premium (1 Month)":    "spotify_premium_1m",
	"🎵 Spotify Premium (3 Months)":   "spotify_premium_3m",
	"🎵 Spotify Premium (6 Months)":   "spotify_premium_6m",
	"🎵 Spotify Premium (12 Months)":  "spotify_premium_12m",
	"🟣 Twitch Level 1 (1 Month)":     "twitch_level1_1m",
	"🟣 Twitch Level 1 (3 Months)":    "twitch_level1_3m",
	"🟣 Twitch Level 1 (6 Months)":    "twitch_level1_6m",
	"🟣 Twitch Level 2 (1 Month)":     "twitch_level2_1m",
	"🟣 Twitch Level 3 (1 Month)":     "twitch_level3_1m",
}

var discountOffers = map[string]DiscountOffer{
	"💸 Buy 10% Discount (50 coins 🏅)":    {Percent: 10, Cost: 50},
	"💸 Buy 25% Discount (120 coins 🏅)":   {Percent: 25, Cost: 120},
	"💸 Buy 50% Discount (300 coins 🏅)":   {Percent: 50, Cost: 300},
	"💸 Buy 75% Discount (600 coins 🏅)":   {Percent: 75, Cost: 600},
	"💸 Buy 100% Discount (1000 coins 🏅)": {Percent: 100, Cost: 1000},
}

var products = map[string]Product{
	"discord_nitro_1m":   {Code: "discord_nitro_1m", Name: "Discord Nitro (1 Month)", Price: 400},
	"spotify_premium_1m": {Code: "spotify_premium_1m", Name: "Spotify Premium (1 Month)", Price: 200},
	"twitch_level1_1m":   {Code: "twitch_level1_1m", Name: "Twitch Level 1 (1 Month)", Price: 200},
}

// GiftByCode returns the gift for a code.
func GiftByCode(code string) (Gift, bool) {
	for _, g := range gifts {
		if g.Code == code {
			return g, true
		}
	}
	return Gift{}, false
}

// GiftByButton resolves a Gift Shop keyboard label to its gift.
func GiftByButton(label string) (Gift, bool) {
	code, ok := giftButtons[label]
	if !ok {
		return Gift{}, false
	}
	return GiftByCode(code)
}

// GiftButtonLabels lists every gift keyboard label.
func GiftButtonLabels() []string {
	labels := make([]string, 0, len(giftButtons))
	for l := range giftButtons {
		labels = append(labels, l)
	}
	return labels
}

// DiscountByButton resolves a discount keyboard label to its offer.
func DiscountByButton(label string) (DiscountOffer, bool) {
	offer, ok := discountOffers[label]
	return offer, ok
}

// DiscountButtonLabels lists every discount keyboard label.
func DiscountButtonLabels() []string {
	labels := make([]string, 0, len(discountOffers))
	for l := range discountOffers {
		labels = append(labels, l)
	}
	return labels
}

// ProductByCode looks up an admin product code.
func ProductByCode(code string) (Product, bool) {
	p, ok := products[code]
	return p, ok
}
