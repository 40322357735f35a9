package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"horda-bot/internal/catalog"
	"horda-bot/internal/models"
)

// referralBonusPercent of a registered purchase is credited to the
// buyer's referrer, rounded down.
const referralBonusPercent = 20

// maxDiscountFloor caps the referral-derived part of a discount.
// Purchased top-ups stack on top and are not capped.
const maxDiscountFloor = 50

const levelUpText = "🎉 *Congratulations!*\n" +
	"Your level has been upgraded to *Level 2*!\n\n" +
	"🔹 *New benefits:*\n" +
	"• You can now purchase all gifts in the Gift Shop.\n" +
	"• You earn *30 coins* for each referral instead of 25.\n"

// Ledger owns users and purchases. Every mutating operation serializes
// per user id and runs its read-modify-write inside one transaction, so
// two racing events for the same wallet cannot lose an update.
// Notifications are enqueued only after the transaction commits.
type Ledger struct {
	db    *gorm.DB
	queue *Queue
	log   zerolog.Logger
	locks *userLocks
}

func New(db *gorm.DB, queue *Queue, log zerolog.Logger) *Ledger {
	return &Ledger{
		db:    db,
		queue: queue,
		log:   log.With().Str("component", "ledger").Logger(),
		locks: newUserLocks(),
	}
}

// GiftReceipt is the result of a successful gift purchase.
type GiftReceipt struct {
	GiftName   string
	NewBalance int
}

// DiscountReceipt is the result of a successful discount purchase.
type DiscountReceipt struct {
	TotalDiscount float64
	NewBalance    int
}

// RegisterUser creates the record for userID unless it already exists;
// re-registration is a no-op. A resolvable referrer gets its referral
// count bumped and its discount floor recomputed in the same
// transaction, plus a best-effort notification. A referrer id that does
// not resolve is still recorded. Self-referrals are ignored.
func (l *Ledger) RegisterUser(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (bool, error) {
	if referrerID != nil && *referrerID == userID {
		referrerID = nil
	}
	ids := []int64{userID}
	if referrerID != nil {
		ids = append(ids, *referrerID)
	}
	release := l.locks.acquire(ids...)
	defer release()

	created := false
	var notes []Notification
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			l.log.Debug().Int64("user_id", userID).Msg("user already registered")
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup user: %w", err)
		}

		user := models.User{
			UserID:     userID,
			Username:   username,
			FirstName:  firstName,
			ReferrerID: referrerID,
			Level:      1,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = true

		if referrerID == nil {
			return nil
		}
		var ref models.User
		if err := tx.Where("user_id = ?", *referrerID).First(&ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.log.Info().Int64("user_id", userID).Int64("referrer_id", *referrerID).
					Msg("referrer not found, keeping dangling reference")
				return nil
			}
			return fmt.Errorf("lookup referrer: %w", err)
		}

		oldFloor := discountFloor(ref.ReferralsCount)
		ref.ReferralsCount++
		newFloor := discountFloor(ref.ReferralsCount)
		ref.Discount += float64(newFloor - oldFloor)
		if err := tx.Save(&ref).Error; err != nil {
			return fmt.Errorf("update referrer: %w", err)
		}

		notes = append(notes, Notification{
			ChatID: ref.UserID,
			Text: fmt.Sprintf("🎉 *You have +1 new referral!*\n"+
				"*Your discount has been increased by 2%%.*\n"+
				"*Current discount: %s%%.*", formatDiscount(ref.Discount)),
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	for _, n := range notes {
		l.queue.Emit(n)
	}
	if created {
		l.log.Info().Int64("user_id", userID).Msg("user registered")
	}
	return created, nil
}

// GetProfile returns the user's record or ErrUserNotFound.
func (l *Ledger) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := l.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// FindByUsername resolves a display username to the user record. Admin
// commands address users this way.
func (l *Ledger) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := l.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by username: %w", err)
	}
	return &user, nil
}

// CreditCoins adds amount to the wallet and returns the new balance.
func (l *Ledger) CreditCoins(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	release := l.locks.acquire(userID)
	defer release()

	var balance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		user.Coins += amount
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update coins: %w", err)
		}
		balance = user.Coins
		return nil
	})
	return balance, err
}

// DebitCoins removes amount from the wallet. An overdraft is rejected
// with ErrInsufficientFunds and the balance stays untouched.
func (l *Ledger) DebitCoins(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	release := l.locks.acquire(userID)
	defer release()

	var balance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Coins < amount {
			return ErrInsufficientFunds
		}
		user.Coins -= amount
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update coins: %w", err)
		}
		balance = user.Coins
		return nil
	})
	return balance, err
}

// AdminAdjustCoins applies a signed delta to the wallet, clamping the
// result at zero. Unlike DebitCoins an overdraft is not an error.
func (l *Ledger) AdminAdjustCoins(ctx context.Context, userID int64, delta int) (int, error) {
	release := l.locks.acquire(userID)
	defer release()

	var balance int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		user.Coins += delta
		if user.Coins < 0 {
			user.Coins = 0
		}
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update coins: %w", err)
		}
		balance = user.Coins
		return nil
	})
	return balance, err
}

// GrantReward appends a label to the user's reward list. Order is
// preserved and duplicates are allowed.
func (l *Ledger) GrantReward(ctx context.Context, userID int64, label string) ([]string, error) {
	release := l.locks.acquire(userID)
	defer release()

	var rewards []string
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		user.AppendReward(label)
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update rewards: %w", err)
		}
		rewards = user.RewardList()
		return nil
	})
	return rewards, err
}

// PurchaseGift debits the gift's cost and grants its name as a reward,
// atomically. Level and funds are checked inside the transaction.
func (l *Ledger) PurchaseGift(ctx context.Context, userID int64, giftCode string) (*GiftReceipt, error) {
	gift, ok := catalog.GiftByCode(giftCode)
	if !ok {
		return nil, ErrUnknownGift
	}
	release := l.locks.acquire(userID)
	defer release()

	var receipt GiftReceipt
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Level < gift.MinLevel {
			return ErrInsufficientLevel
		}
		if user.Coins < gift.Cost {
			return ErrInsufficientFunds
		}
		user.Coins -= gift.Cost
		user.AppendReward(gift.Name)
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		receipt = GiftReceipt{GiftName: gift.Name, NewBalance: user.Coins}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Int64("user_id", userID).Str("gift", gift.Code).Msg("gift purchased")
	return &receipt, nil
}

// PurchaseDiscount debits cost and adds percent to the stored discount.
// Top-ups are additive and uncapped; offers above 50% need level 2.
func (l *Ledger) PurchaseDiscount(ctx context.Context, userID int64, percent, cost int) (*DiscountReceipt, error) {
	if percent <= 0 || cost <= 0 {
		return nil, ErrInvalidAmount
	}
	release := l.locks.acquire(userID)
	defer release()

	var receipt DiscountReceipt
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		if percent > maxDiscountFloor && user.Level < 2 {
			return ErrInsufficientLevel
		}
		if user.Coins < cost {
			return ErrInsufficientFunds
		}
		user.Coins -= cost
		user.Discount += float64(percent)
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		receipt = DiscountReceipt{TotalDiscount: user.Discount, NewBalance: user.Coins}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// RecordPurchase inserts an audit row with the buyer's referrer
// denormalized in, credits the referrer 20% of the amount, and promotes
// the buyer's level if this is their first qualifying purchase. A
// referrer id pointing at a deleted user is skipped without error.
func (l *Ledger) RecordPurchase(ctx context.Context, userID int64, amount int) (*models.Purchase, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	// referrer_id is immutable after registration, so it is safe to read
	// outside the lock to know which ids to acquire.
	profile, err := l.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := []int64{userID}
	if profile.ReferrerID != nil {
		ids = append(ids, *profile.ReferrerID)
	}
	release := l.locks.acquire(ids...)
	defer release()

	var purchase models.Purchase
	var notes []Notification
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		purchase = models.Purchase{
			UserID:     user.UserID,
			ReferrerID: user.ReferrerID,
			Amount:     amount,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		if user.ReferrerID != nil {
			note, err := l.creditReferralBonus(tx, *user.ReferrerID, amount)
			if err != nil {
				return err
			}
			if note != nil {
				notes = append(notes, *note)
			}
		}

		note, err := l.promote(tx, user)
		if err != nil {
			return err
		}
		if note != nil {
			notes = append(notes, *note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		l.queue.Emit(n)
	}
	return &purchase, nil
}

// RegisterProductPurchase handles the admin flow for a known catalog
// product: the referrer earns 20% of the product price and the buyer is
// considered for promotion. No purchases row is written for this path.
func (l *Ledger) RegisterProductPurchase(ctx context.Context, userID int64, product catalog.Product) error {
	profile, err := l.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	ids := []int64{userID}
	if profile.ReferrerID != nil {
		ids = append(ids, *profile.ReferrerID)
	}
	release := l.locks.acquire(ids...)
	defer release()

	var notes []Notification
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		if user.ReferrerID != nil {
			note, err := l.creditReferralBonus(tx, *user.ReferrerID, product.Price)
			if err != nil {
				return err
			}
			if note != nil {
				notes = append(notes, *note)
			}
		}
		note, err := l.promote(tx, user)
		if err != nil {
			return err
		}
		if note != nil {
			notes = append(notes, *note)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, n := range notes {
		l.queue.Emit(n)
	}
	return nil
}

// PromoteLevel promotes userID to level 2 when at least one purchase by
// the user or by one of their referrals exists. Idempotent; level never
// goes down.
func (l *Ledger) PromoteLevel(ctx context.Context, userID int64) (bool, int, error) {
	release := l.locks.acquire(userID)
	defer release()

	promoted := false
	level := 0
	var notes []Notification
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockedUser(tx, userID)
		if err != nil {
			return err
		}
		note, err := l.promote(tx, user)
		if err != nil {
			return err
		}
		if note != nil {
			promoted = true
			notes = append(notes, *note)
		}
		level = user.Level
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	for _, n := range notes {
		l.queue.Emit(n)
	}
	return promoted, level, nil
}

// DeleteUser hard-deletes the record. Referred users keep their now
// dangling referrer_id; later bonus credits for the deleted id are
// skipped.
func (l *Ledger) DeleteUser(ctx context.Context, userID int64) error {
	release := l.locks.acquire(userID)
	defer release()

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockedUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// ReferralsOf lists the users whose referrer_id points at userID.
func (l *Ledger) ReferralsOf(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	if err := l.db.WithContext(ctx).Where("referrer_id = ?", userID).Order("user_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return users, nil
}

// ListUsers returns every record ordered by id.
func (l *Ledger) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := l.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RefreshUserMeta updates cached display metadata fetched from the chat
// platform.
func (l *Ledger) RefreshUserMeta(ctx context.Context, userID int64, username, firstName string) error {
	release := l.locks.acquire(userID)
	defer release()

	res := l.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"username": username, "first_name": firstName})
	if res.Error != nil {
		return fmt.Errorf("refresh user meta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// creditReferralBonus adds the purchase bonus to the referrer's wallet
// inside the caller's transaction. A missing referrer row (deleted user)
// is logged and skipped.
func (l *Ledger) creditReferralBonus(tx *gorm.DB, referrerID int64, amount int) (*Notification, error) {
	bonus := amount * referralBonusPercent / 100
	if bonus <= 0 {
		return nil, nil
	}
	var ref models.User
	if err := tx.Where("user_id = ?", referrerID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.log.Info().Int64("referrer_id", referrerID).Msg("referrer deleted, skipping purchase bonus")
			return nil, nil
		}
		return nil, fmt.Errorf("lookup referrer: %w", err)
	}
	ref.Coins += bonus
	if err := tx.Save(&ref).Error; err != nil {
		return nil, fmt.Errorf("credit referrer: %w", err)
	}
	return &Notification{
		ChatID: ref.UserID,
		Text: fmt.Sprintf("🎉 *The user you invited made a purchase!*\n"+
			"*You earned %d 🏅 coins!*", bonus),
	}, nil
}

// promote applies the 1→2 transition when a qualifying purchase exists.
// Returns the level-up notification when the transition fired.
func (l *Ledger) promote(tx *gorm.DB, user *models.User) (*Notification, error) {
	if user.Level >= 2 {
		return nil, nil
	}
	var count int64
	err := tx.Model(&models.Purchase{}).
		Where("user_id = ? OR referrer_id = ?", user.UserID, user.UserID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("count purchases: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	if err := tx.Model(&models.User{}).Where("user_id = ?", user.UserID).Update("level", 2).Error; err != nil {
		return nil, fmt.Errorf("update level: %w", err)
	}
	user.Level = 2
	l.log.Info().Int64("user_id", user.UserID).Msg("user promoted to level 2")
	return &Notification{ChatID: user.UserID, Text: levelUpText}, nil
}

// lockedUser loads the row being mutated, mapping a missing record to
// the domain error.
func lockedUser(tx *gorm.DB, userID int64) (*models.User, error) {
	var user models.User
	if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

func discountFloor(referrals int) int {
	floor := referrals * 2
	if floor > maxDiscountFloor {
		floor = maxDiscountFloor
	}
	return floor
}

func formatDiscount(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
