package bot

// Static storefront copy. Screens that only display text live here so
// the handlers stay readable.

const welcomePhotoURL = "https://i.imgur.com/lnr4Z0M.jpeg"

const giftShopText = "🎁 *Gift Shop*\n\n" +
	"Here are the available gifts and discounts you can purchase with your coins.\n\n" +
	"🎮 *Discord Nitro*\n" +
	"▫️ *1 Month — 400 coins 🏅*\n" +
	"▫️ *3 Months — 800 coins 🏅*\n\n" +
	"🎵 *Spotify Premium*\n" +
	"▫️ *1 Month — 200 coins 🏅*\n" +
	"▫️ *3 Months — 450 coins 🏅*\n" +
	"▫️ *6 Months — 600 coins 🏅*\n" +
	"▫️ *12 Months — 1220 coins 🏅*\n\n" +
	"🟣 *Twitch Subscriptions*\n" +
	"▫️ *Level 1 (1 Month) — 200 coins 🏅*\n" +
	"▫️ *Level 1 (3 Months) — 400 coins 🏅*\n" +
	"▫️ *Level 1 (6 Months) — 800 coins 🏅*\n" +
	"▫️ *Level 2 (1 Month) — 300 coins 🏅*\n" +
	"▫️ *Level 3 (1 Month) — 800 coins 🏅*\n\n" +
	"💸 *Discounts:*\n" +
	"▫️ *10% — 50 coins 🏅*\n" +
	"▫️ *25% — 120 coins 🏅*\n" +
	"▫️ *50% — 300 coins 🏅*\n"

const aboutLevelsText = "*📈 About Levels*\n\n" +
	"🔹 *Level 1:*\n" +
	"• Access to basic features.\n" +
	"• Earn 25 coins per referral.\n\n" +
	"🔹 *Level 2:*\n" +
	"• Access to premium gifts in the Gift Shop.\n" +
	"• Earn 30 coins per referral.\n" +
	"• Unlock exclusive discounts.\n\n" +
	"🔹 *How to level up:*\n" +
	"• Make a purchase or invite a friend who makes a purchase.\n\n" +
	"Start leveling up today and enjoy more benefits! 🚀"

const spotifyText = "🎵 *Spotify Premium Individual*\n\n" +
	"▫️ *1 month — $3.99*\n\n" +
	"▫️ *3 months — $8.99*\n\n" +
	"▫️ *6 months — $12.99*\n\n" +
	"▫️ *12 months — $22.99*\n\n" +
	"*Payment methods:\n🪙Crypto\n💸PayPal*\n\n" +
	"*To buy: @headphony*"

const twitchText = "*🎮 Twitch Subscription*\n" +
	"*LEVEL 1✅*\n\n" +
	"*▫️ Level 1 — 1 Month — $3.99*\n\n" +
	"*▫️ Level 1 — 3 Months — $8.99*\n\n" +
	"*▫️ Level 1 — 6 Months — $17.99*\n\n" +
	"*LEVEL 2✅*\n\n" +
	"*▫️ Level 2 — 1 Month — $5.99*\n\n" +
	"*LEVEL 3✅*\n\n" +
	"*▫️ Level 3 — 1 Month — $14.99*\n\n" +
	"🥰No account access needed — just *your* and the *streamer's* *nicknames!*\n\n" +
	"*Payment methods:\n- Crypto\n- PayPal*\n\n" +
	"*To buy: @headphony*"

const discordText = "💎 *Discord Nitro Full*\n\n" +
	"*1 month — $6.49*\n\n" +
	"*3 months — $13.99*\n\n" +
	"*6 months — soon...*\n\n" +
	"*🎁 You'll get Nitro as a gift — no need to log in anywhere, no data required!*\n\n" +
	"*⚜️ You'll only have to activate it with VPN and that's it!*\n\n" +
	"*Payment methods:\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal*\n\n" +
	"*To buy @headphony*"

const telegramStarsText = "*⭐ Telegram Stars*\n\n" +
	"*100⭐ — $1.79*\n\n" +
	"*250⭐ — $4.59*\n\n" +
	"*500⭐ — $8.99*\n\n" +
	"*1000⭐ — $16.99*\n\n" +
	"*📦 All stars are purchased officially and delivered via Telegram!*\n\n" +
	"✅ No account info, no logins — just your *@username* to receive the gift.\n\n" +
	"*Payment methods:\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal*\n\n" +
	"*To buy @headphony*"

const otherStuffText = "*🇹🇷Premium methods to top up a Turkish card - 1.99$*\n\n" +
	"*🇹🇷Turkish passport details - 5$*\n\n" +
	"*Payment methods:\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal*\n\n" +
	"*To buy: @headphony*"

const aboutUsText = "*Horda Shop. We don't beg — we deliver.*\n\n" +
	"*Fast deals, clean setup, zero bullshit.*\n\n" +
	"You came for the *price* — you'll stay for the service 👊\n\n" +
	"*Cheap? Yeah 🤩*\n" +
	"*Shady? Nah 😎*\n\n" +
	"*We move different...*"

const helpText = "*Got any questions?*\n\n" +
	"Feel free to reach out to us anytime:\n" +
	"*📩 @headphony*"

const mustReadText = "*Important! 🚨*\n\n" +
	"Please note that in rare cases, there may be a delay in the issuance of Turkish cards. " +
	"We make every effort to ensure quick delivery, but depending on the volume of orders and " +
	"external factors, the process may take slightly longer than usual.\n\n\n" +
	"*What might affect the processing time ❓*\n\n\n" +
	"*• Technical issues on the supplier's side ⚙️*\n\n" +
	"*• Temporary limitations on card availability 🚫*\n\n" +
	"*• Security and verification procedures 🛡️*\n\n\n" +
	"*We will keep you updated on the status of your order at each stage. " +
	"In case of a delay, we guarantee that your card will be issued as soon as possible 😊*"

const fupsCaption = "<b>FUPS</b> is a digital banking platform offering personal <b>IBANs</b>, <b>Visa cards</b>, and " +
	"<b>instant money transfers</b> ⭐\n\n" +
	"Enjoy <b>high daily limits</b>, easy bill payments, and fast top-ups — all with a user-friendly app that " +
	"fits your lifestyle! 😎\n\n" +
	"<b>Learn more about FUPS:</b> <a href='https://fups.com'>Visit FUPS</a>\n\n\n" +
	"<b>It's yours just for 19.99$! 💸</b>\n\n" +
	"<b>Payment methods:</b>\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal\n\n" +
	"To buy: @headphony"

const ozanCaption = "<b>Your money, your rules.</b>\n\n" +
	"<a href='https://ozan.com'>Ozan</a> gives you <b>instant accounts</b>, <b>powerful cards</b>, and <b>fast</b>, " +
	"<b>borderless</b> transfers — all with real, <b>transparent limits</b>.\n\n" +
	"Spend, send, and control your finances without delays or surprises 🌐\n\n" +
	"<b>Price is only 19.99$ 💸</b>\n\n" +
	"Freedom has never felt this easy 😏\n\n" +
	"<b>Payment methods:</b>\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal\n\n" +
	"To buy: @headphony"

const paycellCaption = "<b>Paycell</b>, powered by <a href='https://www.turkcell.com.tr'>Turkcell</a>, lets you pay <b>bills</b>, " +
	"<b>shop online</b>, and <b>send money</b> with just your phone number ⭐\n\n" +
	"<b>Supports both local and international payments, with flexible spending limits and fast processing!</b> 🚀\n\n\n" +
	"<b>Priced at just 34.99$! 💸</b>\n\n" +
	"<b>Payment methods:</b>\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal\n\n" +
	"To buy: @headphony\n\n" +
	"⚠️CURRENTLY UNAVAILABLE⚠️"

const fupsPhotoURL = "https://imgur.com/a/Ns79AjX"
const ozanPhotoURL = "https://imgur.com/a/hGYZ9Ny"
const paycellPhotoURL = "https://imgur.com/a/LDGGDkG"
