package bot

import (
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

func mainMenu() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton("👤 My Profile"),
			tu.KeyboardButton("🛒 Catalog"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🎁 Gift Shop"),
			tu.KeyboardButton("🎁 Referral System"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("ℹ️ About Us"),
			tu.KeyboardButton("💬 Help & Support"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("❓ About Levels"),
		),
	).WithResizeKeyboard()
}

func giftShopMenu() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton("🎮 Discord Nitro (1 Month)"),
			tu.KeyboardButton("🎮 Discord Nitro (3 Months)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🎵 Spotify Premium (1 Month)"),
			tu.KeyboardButton("🎵 Spotify Premium (3 Months)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🎵 Spotify Premium (6 Months)"),
			tu.KeyboardButton("🎵 Spotify Premium (12 Months)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🟣 Twitch Level 1 (1 Month)"),
			tu.KeyboardButton("🟣 Twitch Level 1 (3 Months)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🟣 Twitch Level 1 (6 Months)"),
			tu.KeyboardButton("🟣 Twitch Level 2 (1 Month)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🟣 Twitch Level 3 (1 Month)"),
			tu.KeyboardButton("💸 Buy 50% Discount (300 coins 🏅)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("💸 Buy 10% Discount (50 coins 🏅)"),
			tu.KeyboardButton("💸 Buy 25% Discount (120 coins 🏅)"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("⬅️ Back to Menu"),
		),
	).WithResizeKeyboard()
}

func catalogMenu() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton("🎧 Spotify Premium"),
			tu.KeyboardButton("🔴 YouTube Premium"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("🟣 Twitch Subscription"),
			tu.KeyboardButton("💎 Discord Nitro"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("⭐ Telegram Stars"),
			tu.KeyboardButton("Turkish Bankcards 🇹🇷"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("Back"),
		),
	).WithResizeKeyboard()
}

func bankcardsMenu() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton("Fups 🇹🇷"),
			tu.KeyboardButton("Ozan 🇹🇷"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("Paycell 🇹🇷"),
			tu.KeyboardButton("Other Stuff 🇹🇷"),
		),
		tu.KeyboardRow(
			tu.KeyboardButton("📖 Must Read"),
			tu.KeyboardButton("Back"),
		),
	).WithResizeKeyboard()
}
