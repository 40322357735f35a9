package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"horda-bot/internal/catalog"
	"horda-bot/internal/ledger"
)

const permissionDeniedText = "🚫 You don't have permission to use this command."

func (b *Bot) isAdmin(userID int64) bool {
	return b.AdminID != 0 && userID == b.AdminID
}

func (b *Bot) registerAdminHandlers(handler *th.BotHandler) {
	// /give_coins @username <amount>
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 3 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/give_coins @username <amount>`")
		}

		username := strings.TrimPrefix(args[1], "@")
		amount, err := strconv.Atoi(args[2])
		if err != nil || amount <= 0 {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID),
				"Invalid input. Please provide a valid username and coin amount."))
			return nil
		}

		user, err := b.Ledger.FindByUsername(ctx.Context(), username)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with username `@%s` not found.", username))
		}
		if err != nil {
			return err
		}

		newBalance, err := b.Ledger.CreditCoins(ctx.Context(), user.UserID, amount)
		if err != nil {
			return err
		}

		b.notifyUser(ctx, user.UserID, fmt.Sprintf(
			"🎉 *You have received %d 🏅 coins!*\n"+
				"*Your current balance: %d 🏅 coins.*", amount, newBalance))

		return b.sendMarkdown(ctx, message.Chat.ID, fmt.Sprintf(
			"User with username `@%s` has been credited with %d 🏅 coins.\n"+
				"New balance: %d 🏅 coins.", username, amount, newBalance))
	}, th.CommandEqual("give_coins"))

	// /remove_coins @username <amount>
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 3 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/remove_coins @username <amount>`")
		}

		username := strings.TrimPrefix(args[1], "@")
		amount, err := strconv.Atoi(args[2])
		if err != nil || amount <= 0 {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID),
				"Invalid input. Please provide a valid username and coin amount."))
			return nil
		}

		user, err := b.Ledger.FindByUsername(ctx.Context(), username)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with username `@%s` not found.", username))
		}
		if err != nil {
			return err
		}

		// Clamped at zero, unlike a user-facing debit.
		newBalance, err := b.Ledger.AdminAdjustCoins(ctx.Context(), user.UserID, -amount)
		if err != nil {
			return err
		}

		b.notifyUser(ctx, user.UserID, fmt.Sprintf(
			"❌ *%d 🏅 coins have been removed from your balance.*\n"+
				"*Your current balance: %d 🏅 coins.*", amount, newBalance))

		return b.sendMarkdown(ctx, message.Chat.ID, fmt.Sprintf(
			"User with username `@%s` has had %d 🏅 coins removed.\n"+
				"New balance: %d 🏅 coins.", username, amount, newBalance))
	}, th.CommandEqual("remove_coins"))

	// /register_purchase @username <product_code>
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 3 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/register_purchase @username <product_code>`")
		}

		username := strings.TrimPrefix(args[1], "@")
		product, ok := catalog.ProductByCode(args[2])
		if !ok {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("Invalid product code: `%s`", args[2]))
		}

		user, err := b.Ledger.FindByUsername(ctx.Context(), username)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with username `@%s` not found.", username))
		}
		if err != nil {
			return err
		}

		if err := b.Ledger.RegisterProductPurchase(ctx.Context(), user.UserID, product); err != nil {
			return err
		}

		return b.sendMarkdown(ctx, message.Chat.ID, fmt.Sprintf(
			"Purchase of `%s` by user `@%s` has been successfully registered.", product.Name, username))
	}, th.CommandEqual("register_purchase"))

	// /register_purchase_general @username <amount>
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 3 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/register_purchase_general @username <amount>`")
		}

		username := strings.TrimPrefix(args[1], "@")
		amount, err := strconv.Atoi(args[2])
		if err != nil || amount <= 0 {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID),
				"Invalid input. Please provide a valid username and purchase amount."))
			return nil
		}

		user, err := b.Ledger.FindByUsername(ctx.Context(), username)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with username `@%s` not found.", username))
		}
		if err != nil {
			return err
		}

		if _, err := b.Ledger.RecordPurchase(ctx.Context(), user.UserID, amount); err != nil {
			return err
		}

		return b.sendMarkdown(ctx, message.Chat.ID, fmt.Sprintf(
			"Purchase of `%d` coins by user `@%s` has been successfully registered.", amount, username))
	}, th.CommandEqual("register_purchase_general"))

	// /delete_user <user_id>
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 2 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/delete_user <user_id>`")
		}

		userID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID),
				"Invalid input. Please provide a valid user ID."))
			return nil
		}

		err = b.Ledger.DeleteUser(ctx.Context(), userID)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with ID `%d` not found.", userID))
		}
		if err != nil {
			return err
		}

		return b.sendMarkdown(ctx, message.Chat.ID,
			fmt.Sprintf("User with ID `%d` has been successfully deleted.", userID))
	}, th.CommandEqual("delete_user"))

	// /userstat @username
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		args := strings.Fields(message.Text)
		if len(args) < 2 {
			return b.sendMarkdown(ctx, message.Chat.ID, "Usage: `/userstat @username`")
		}

		username := strings.TrimPrefix(args[1], "@")
		user, err := b.Ledger.FindByUsername(ctx.Context(), username)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return b.sendMarkdown(ctx, message.Chat.ID,
				fmt.Sprintf("User with username `@%s` not found.", username))
		}
		if err != nil {
			return err
		}

		rewards := strings.Join(user.RewardList(), ", ")
		if rewards == "" {
			rewards = "No rewards yet."
		}

		referrals, err := b.Ledger.ReferralsOf(ctx.Context(), user.UserID)
		if err != nil {
			return err
		}
		referralsList := "No referrals yet."
		if len(referrals) > 0 {
			lines := make([]string, 0, len(referrals))
			for _, r := range referrals {
				lines = append(lines, fmt.Sprintf("• @%s", r.Username))
			}
			referralsList = strings.Join(lines, "\n")
		}

		return b.sendMarkdown(ctx, message.Chat.ID, fmt.Sprintf(
			"*User Statistics:*\n\n"+
				"*User ID:* `%d`\n"+
				"*Username:* `@%s`\n"+
				"*Referrals:* `%d`\n"+
				"*Coins:* `%d 🏅`\n"+
				"*Rewards:* `%s`\n\n"+
				"*Referrals List:*\n%s",
			user.UserID, username, user.ReferralsCount, user.Coins, rewards, referralsList))
	}, th.CommandEqual("userstat"))

	// /list_users
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message
		if !b.isAdmin(message.From.ID) {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), permissionDeniedText))
			return nil
		}

		users, err := b.Ledger.ListUsers(ctx.Context())
		if err != nil {
			return err
		}

		// Refresh cached display metadata from Telegram.
		for _, u := range users {
			chat, err := ctx.Bot().GetChat(ctx.Context(), &telego.GetChatParams{ChatID: tu.ID(u.UserID)})
			if err != nil {
				b.Log.Warn().Err(err).Int64("user_id", u.UserID).Msg("failed to refresh user metadata")
				continue
			}
			if err := b.Ledger.RefreshUserMeta(ctx.Context(), u.UserID, chat.Username, chat.FirstName); err != nil {
				b.Log.Warn().Err(err).Int64("user_id", u.UserID).Msg("failed to store user metadata")
			}
		}

		users, err = b.Ledger.ListUsers(ctx.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), "📭 No users registered yet."))
			return nil
		}

		var sb strings.Builder
		sb.WriteString("📂 <b>Users:</b>\n\n")
		for _, u := range users {
			firstName := u.FirstName
			if firstName == "" {
				firstName = "—"
			}
			username := u.Username
			if username == "" {
				username = "no username"
			}
			fmt.Fprintf(&sb, "▫️ <b>%s</b>\n├ @%s\n└ ID: <code>%d</code>\n🔗 <a href='tg://user?id=%d'>Profile</a>\n\n",
				firstName, username, u.UserID, u.UserID)
		}

		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), sb.String()).
			WithParseMode(telego.ModeHTML).
			WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: true}))
		return nil
	}, th.CommandEqual("list_users"))
}

// notifyUser sends a direct admin-action notification to the target
// user; failures are logged only.
func (b *Bot) notifyUser(ctx *th.Context, userID int64, text string) {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(userID), text).WithParseMode(telego.ModeMarkdown))
	if err != nil {
		b.Log.Warn().Err(err).Int64("user_id", userID).Msg("failed to notify user")
	}
}
