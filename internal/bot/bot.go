// Package bot is the chat transport layer: it routes inbound Telegram
// updates to ledger operations and renders replies. It never mutates
// ledger state directly.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/rs/zerolog"

	"horda-bot/internal/catalog"
	"horda-bot/internal/ledger"
	"horda-bot/internal/throttle"
)

type Bot struct {
	Instance *telego.Bot
	Ledger   *ledger.Ledger
	Limiter  throttle.Limiter
	AdminID  int64
	Log      zerolog.Logger

	username string
}

func NewBot(token string, lgr *ledger.Ledger, limiter throttle.Limiter, adminID int64, log zerolog.Logger) (*Bot, error) {
	tgBot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		Instance: tgBot,
		Ledger:   lgr,
		Limiter:  limiter,
		AdminID:  adminID,
		Log:      log.With().Str("component", "bot").Logger(),
	}, nil
}

// Start begins long polling and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if me, err := b.Instance.GetMe(ctx); err == nil {
		b.username = me.Username
	} else {
		b.Log.Warn().Err(err).Msg("GetMe failed, referral links will use a placeholder")
		b.username = "hordashop_bot"
	}

	updates, err := b.Instance.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.Instance, updates)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	handler.Use(b.errorMiddleware)
	b.registerHandlers(handler)
	b.registerAdminHandlers(handler)
	b.registerFallback(handler)

	go func() {
		<-ctx.Done()
		_ = handler.Stop()
	}()

	b.Log.Info().Msg("bot started")
	return handler.Start()
}

// errorMiddleware keeps a failing handler from taking down the update
// loop: panics and errors are logged and forwarded to the admin chat as
// a diagnostic, then the loop keeps serving.
func (b *Bot) errorMiddleware(ctx *th.Context, update telego.Update) error {
	defer func() {
		if r := recover(); r != nil {
			b.Log.Error().Interface("panic", r).Msg("handler panicked")
			b.reportToAdmin(ctx, fmt.Sprintf("An error occurred:\n\n%v", r))
		}
	}()

	if err := ctx.Next(update); err != nil {
		b.Log.Error().Err(err).Msg("handler failed")
		b.reportToAdmin(ctx, fmt.Sprintf("An error occurred:\n\n%v", err))
	}
	return nil
}

func (b *Bot) reportToAdmin(ctx *th.Context, text string) {
	if b.AdminID == 0 {
		return
	}
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(b.AdminID), text))
	if err != nil {
		b.Log.Warn().Err(err).Msg("failed to report error to admin")
	}
}

func (b *Bot) registerHandlers(handler *th.BotHandler) {
	// /start command, optionally carrying a numeric referral payload.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		userID := message.From.ID

		if !b.Limiter.Allow(ctx.Context(), userID, "start") {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
				tu.ID(message.Chat.ID),
				"⏳ Please wait before using this command again.",
			))
			return nil
		}

		var referrerID *int64
		if parts := strings.Fields(message.Text); len(parts) > 1 {
			if id, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				referrerID = &id
			}
		}

		_, err := b.Ledger.RegisterUser(ctx.Context(), userID, message.From.Username, message.From.FirstName, referrerID)
		if err != nil {
			return fmt.Errorf("register user: %w", err)
		}

		caption := fmt.Sprintf("Hello, *%s*! \nWelcome to *Horda Shop*! 🎉\n\n"+
			"*💫 Tap the menu below to snoop around.*\n"+
			"*Deals don't bite, but they do disappear🫥 — so don't blink...*\n\n\n"+
			"*🪴Our News Channel:* [@HORDAHORDA]\n"+
			"*Reviews:* [@hordareviews]", message.From.FirstName)

		_, _ = ctx.Bot().SendPhoto(ctx.Context(), tu.Photo(
			tu.ID(message.Chat.ID),
			tu.FileFromURL(welcomePhotoURL),
		).WithCaption(caption).WithParseMode(telego.ModeMarkdown).WithReplyMarkup(mainMenu()))
		return nil
	}, th.CommandEqual("start"))

	// "👤 My Profile"
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		userID := update.Message.From.ID

		user, err := b.Ledger.GetProfile(ctx.Context(), userID)
		if errors.Is(err, ledger.ErrUserNotFound) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
				tu.ID(update.Message.Chat.ID),
				"You are not registered in the system yet.",
			))
			return nil
		}
		if err != nil {
			return err
		}

		rewards := strings.Join(user.RewardList(), ", ")
		if rewards == "" {
			rewards = "No rewards yet."
		}

		text := fmt.Sprintf("*👤 Your Profile*\n\n"+
			"*👥 Referrals:* %d\n"+
			"*💸 Discount:* %.2f%%\n"+
			"*💰 Coins:* %d 🏅\n"+
			"*🏆 Level:* %d 💎\n\n"+
			"*🎁 Presents bought:* %s\n",
			user.ReferralsCount, user.Discount, user.Coins, user.Level, rewards)

		return b.sendMarkdown(ctx, update.Message.Chat.ID, text)
	}, th.TextEqual("👤 My Profile"))

	// "🎁 Gift Shop"
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			giftShopText,
		).WithParseMode(telego.ModeMarkdown).WithReplyMarkup(giftShopMenu()))
		return nil
	}, th.TextEqual("🎁 Gift Shop"))

	// Gift purchases by button label.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		return b.handleGiftPurchase(ctx, update)
	}, textIn(catalog.GiftButtonLabels()...))

	// Discount purchases by button label.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		return b.handleDiscountPurchase(ctx, update)
	}, textIn(catalog.DiscountButtonLabels()...))

	// "🎁 Referral System"
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		userID := update.Message.From.ID
		link := fmt.Sprintf("https://t.me/%s?start=%d", b.username, userID)
		text := fmt.Sprintf("*🎉 Referral System*\n\n"+
			"*Invite* your *friends* and earn *rewards!*\n"+
			"For every user who joins with your link, you'll receive:\n\n"+
			"• *🔁 25 coins automatically just for each referral*\n\n"+
			"• *💸 + 20%% 🏅 of a purchase that your referral makes*\n\n"+
			"*Automatic Levelup if your referral makes a purchase 🔝*\n\n"+
			"*Your referral link: %s*", link)
		return b.sendMarkdown(ctx, update.Message.Chat.ID, text)
	}, th.TextEqual("🎁 Referral System"))

	// "🛒 Catalog"
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			"Choose a category:",
		).WithReplyMarkup(catalogMenu()))
		return nil
	}, th.TextEqual("🛒 Catalog"))

	// "Turkish Bankcards 🇹🇷"
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			"Choose a card type:",
		).WithReplyMarkup(bankcardsMenu()))
		return nil
	}, th.TextEqual("Turkish Bankcards 🇹🇷"))

	// Bankcard photo screens (HTML captions).
	cards := []struct {
		label    string
		photoURL string
		caption  string
	}{
		{"Fups 🇹🇷", fupsPhotoURL, fupsCaption},
		{"Ozan 🇹🇷", ozanPhotoURL, ozanCaption},
		{"Paycell 🇹🇷", paycellPhotoURL, paycellCaption},
	}
	for _, card := range cards {
		card := card
		handler.Handle(func(ctx *th.Context, update telego.Update) error {
			_, _ = ctx.Bot().SendPhoto(ctx.Context(), tu.Photo(
				tu.ID(update.Message.Chat.ID),
				tu.FileFromURL(card.photoURL),
			).WithCaption(card.caption).WithParseMode(telego.ModeHTML))
			return nil
		}, th.TextEqual(card.label))
	}

	// Plain display screens.
	screens := []struct {
		label string
		text  string
	}{
		{"❓ About Levels", aboutLevelsText},
		{"🎧 Spotify Premium", spotifyText},
		{"🟣 Twitch Subscription", twitchText},
		{"💎 Discord Nitro", discordText},
		{"⭐ Telegram Stars", telegramStarsText},
		{"Other Stuff 🇹🇷", otherStuffText},
		{"ℹ️ About Us", aboutUsText},
		{"💬 Help & Support", helpText},
		{"📖 Must Read", mustReadText},
	}
	for _, screen := range screens {
		screen := screen
		handler.Handle(func(ctx *th.Context, update telego.Update) error {
			return b.sendMarkdown(ctx, update.Message.Chat.ID, screen.text)
		}, th.TextEqual(screen.label))
	}

	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(update.Message.Chat.ID), "soon..."))
		return nil
	}, th.TextEqual("🔴 YouTube Premium"))

	// Back buttons.
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			"⬅️ Back to the main menu.",
		).WithReplyMarkup(mainMenu()))
		return nil
	}, th.TextEqual("⬅️ Back to Menu"))

	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			"You are back to the main menu.",
		).WithReplyMarkup(mainMenu()))
		return nil
	}, th.TextEqual("Back"))
}

func (b *Bot) handleGiftPurchase(ctx *th.Context, update telego.Update) error {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	gift, ok := catalog.GiftByButton(update.Message.Text)
	if !ok {
		return nil
	}

	receipt, err := b.Ledger.PurchaseGift(ctx.Context(), userID, gift.Code)
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), "You are not registered in the system yet."))
		return nil
	case errors.Is(err, ledger.ErrInsufficientLevel):
		balance := b.coinsOf(ctx, userID)
		return b.sendMarkdown(ctx, chatID, fmt.Sprintf(
			"❌ *This gift is only available for Level 2 users.*\n"+
				"Earn Level 2 by making a purchase or if your referral makes a purchase.\n\n"+
				"*Your current balance:* %d 🏅 coins\n"+
				"*Cost:* %d 🏅 coins", balance, gift.Cost))
	case errors.Is(err, ledger.ErrInsufficientFunds):
		balance := b.coinsOf(ctx, userID)
		return b.sendMarkdown(ctx, chatID, fmt.Sprintf(
			"❌ *You don't have enough coins to buy %s.*\n"+
				"*Your current balance:* %d 🏅 coins\n"+
				"*Cost:* %d 🏅 coins", gift.Name, balance, gift.Cost))
	case err != nil:
		return err
	}

	return b.sendMarkdown(ctx, chatID, fmt.Sprintf(
		"🎉 *Congratulations!*\n"+
			"*You successfully purchased %s.*\n"+
			"*Your current balance:* %d 🏅 coins", receipt.GiftName, receipt.NewBalance))
}

func (b *Bot) handleDiscountPurchase(ctx *th.Context, update telego.Update) error {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	offer, ok := catalog.DiscountByButton(update.Message.Text)
	if !ok {
		return nil
	}

	receipt, err := b.Ledger.PurchaseDiscount(ctx.Context(), userID, offer.Percent, offer.Cost)
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), "You are not registered in the system yet."))
		return nil
	case errors.Is(err, ledger.ErrInsufficientLevel):
		return b.sendMarkdown(ctx, chatID,
			"❌ *This discount is only available for Level 2 users.*\n"+
				"Earn Level 2 by making a purchase or if your referral makes a purchase.")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		balance := b.coinsOf(ctx, userID)
		return b.sendMarkdown(ctx, chatID, fmt.Sprintf(
			"❌ *You don't have enough coins to buy a %d%% discount.*\n"+
				"*Your current balance:* %d 🏅 coins\n"+
				"*Cost:* %d 🏅 coins", offer.Percent, balance, offer.Cost))
	case err != nil:
		return err
	}

	return b.sendMarkdown(ctx, chatID, fmt.Sprintf(
		"🎉 *Congratulations!*\n"+
			"*You successfully purchased a %d%% discount.*\n"+
			"*Your current balance:* %d 🏅 coins\n"+
			"*Your total discount:* %.0f%%", offer.Percent, receipt.NewBalance, receipt.TotalDiscount))
}

func (b *Bot) registerFallback(handler *th.BotHandler) {
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(
			tu.ID(update.Message.Chat.ID),
			"There is no such command. Try again!",
		))
		return nil
	}, th.AnyMessageWithText())
}

func (b *Bot) sendMarkdown(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeMarkdown))
	if err != nil {
		b.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
	return nil
}

// coinsOf reads the balance for error replies; a missing user shows 0.
func (b *Bot) coinsOf(ctx *th.Context, userID int64) int {
	user, err := b.Ledger.GetProfile(ctx.Context(), userID)
	if err != nil {
		return 0
	}
	return user.Coins
}

// textIn matches a message whose text equals any of the given labels.
func textIn(labels ...string) th.Predicate {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return func(_ context.Context, update telego.Update) bool {
		if update.Message == nil {
			return false
		}
		_, ok := set[update.Message.Text]
		return ok
	}
}
