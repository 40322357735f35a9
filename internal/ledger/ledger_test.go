package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"horda-bot/internal/catalog"
	"horda-bot/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Purchase{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLedger(t *testing.T) (*Ledger, *Queue) {
	t.Helper()
	queue := NewQueue(64, zerolog.Nop())
	return New(newTestDB(t), queue, zerolog.Nop()), queue
}

func drain(q *Queue) []Notification {
	var notes []Notification
	for {
		select {
		case n := <-q.Events():
			notes = append(notes, n)
		default:
			return notes
		}
	}
}

func ref(id int64) *int64 { return &id }

func TestRegisterUser_Idempotent(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	created, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first registration")
	}

	if _, err := l.CreditCoins(ctx, 1, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	created, err = l.RegisterUser(ctx, 1, "alice", "Alice", nil)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if created {
		t.Fatal("expected created=false on re-registration")
	}

	user, err := l.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Coins != 100 || user.Level != 1 || user.ReferralsCount != 0 {
		t.Fatalf("re-registration changed state: %+v", user)
	}
}

func TestRegisterUser_ReferralDiscountFloor(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register referrer: %v", err)
	}

	for i := int64(2); i <= 31; i++ {
		if _, err := l.RegisterUser(ctx, i, fmt.Sprintf("u%d", i), "U", ref(1)); err != nil {
			t.Fatalf("register referral %d: %v", i, err)
		}

		user, err := l.GetProfile(ctx, 1)
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		n := int(i - 1)
		wantFloor := n * 2
		if wantFloor > 50 {
			wantFloor = 50
		}
		if user.ReferralsCount != n {
			t.Fatalf("after %d referrals, count = %d", n, user.ReferralsCount)
		}
		if user.Discount != float64(wantFloor) {
			t.Fatalf("after %d referrals, discount = %v, want %d", n, user.Discount, wantFloor)
		}
	}

	notes := drain(q)
	if len(notes) != 30 {
		t.Fatalf("expected 30 referral notifications, got %d", len(notes))
	}
	if notes[0].ChatID != 1 || !strings.Contains(notes[0].Text, "+1 new referral") {
		t.Fatalf("unexpected notification: %+v", notes[0])
	}
}

func TestRegisterUser_FloorPreservesPurchasedTopUps(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.CreditCoins(ctx, 1, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := l.PurchaseDiscount(ctx, 1, 10, 50); err != nil {
		t.Fatalf("purchase discount: %v", err)
	}

	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register referral: %v", err)
	}

	user, err := l.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// 10% purchased + 2% floor from one referral.
	if user.Discount != 12 {
		t.Fatalf("discount = %v, want 12", user.Discount)
	}
}

func TestRegisterUser_DanglingReferrer(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	created, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(999))
	if err != nil {
		t.Fatalf("register with unknown referrer: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}

	user, err := l.GetProfile(ctx, 2)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.ReferrerID == nil || *user.ReferrerID != 999 {
		t.Fatalf("expected dangling referrer recorded, got %v", user.ReferrerID)
	}
	if notes := drain(q); len(notes) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notes))
	}
}

func TestRegisterUser_SelfReferralIgnored(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", ref(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := l.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.ReferrerID != nil {
		t.Fatalf("expected self-referral to be dropped, got %v", *user.ReferrerID)
	}
	if user.ReferralsCount != 0 {
		t.Fatalf("expected 0 referrals, got %d", user.ReferralsCount)
	}
}

func TestCreditDebitCoins(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.CreditCoins(ctx, 1, 10); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := l.CreditCoins(ctx, 1, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := l.DebitCoins(ctx, 1, -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	balance, err := l.CreditCoins(ctx, 1, 500)
	if err != nil || balance != 500 {
		t.Fatalf("credit: balance=%d err=%v", balance, err)
	}

	balance, err = l.DebitCoins(ctx, 1, 200)
	if err != nil || balance != 300 {
		t.Fatalf("debit: balance=%d err=%v", balance, err)
	}

	if _, err := l.DebitCoins(ctx, 1, 301); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	user, _ := l.GetProfile(ctx, 1)
	if user.Coins != 300 {
		t.Fatalf("balance changed on rejected debit: %d", user.Coins)
	}
}

func TestAdminAdjustCoins_ClampsAtZero(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.AdminAdjustCoins(ctx, 1, 10); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.CreditCoins(ctx, 1, 30); err != nil {
		t.Fatalf("credit: %v", err)
	}

	balance, err := l.AdminAdjustCoins(ctx, 1, -100)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected clamp at 0, got %d", balance)
	}

	balance, err = l.AdminAdjustCoins(ctx, 1, 25)
	if err != nil || balance != 25 {
		t.Fatalf("adjust up: balance=%d err=%v", balance, err)
	}
}

func TestGrantReward_OrderAndDuplicates(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, label := range []string{"first", "second", "first"} {
		if _, err := l.GrantReward(ctx, 1, label); err != nil {
			t.Fatalf("grant %q: %v", label, err)
		}
	}

	rewards, err := l.GrantReward(ctx, 1, "third")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	want := []string{"first", "second", "first", "third"}
	if len(rewards) != len(want) {
		t.Fatalf("rewards = %v, want %v", rewards, want)
	}
	for i := range want {
		if rewards[i] != want[i] {
			t.Fatalf("rewards[%d] = %q, want %q", i, rewards[i], want[i])
		}
	}
}

func TestPurchaseGift(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.PurchaseGift(ctx, 1, "no_such_gift"); !errors.Is(err, ErrUnknownGift) {
		t.Fatalf("expected ErrUnknownGift, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.CreditCoins(ctx, 1, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// Premium tier needs level 2.
	if _, err := l.PurchaseGift(ctx, 1, "twitch_level2_1m"); !errors.Is(err, ErrInsufficientLevel) {
		t.Fatalf("expected ErrInsufficientLevel, got %v", err)
	}

	receipt, err := l.PurchaseGift(ctx, 1, "discord_nitro_1m")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.NewBalance != 100 {
		t.Fatalf("balance = %d, want 100", receipt.NewBalance)
	}
	if receipt.GiftName != "Discord Nitro (1 Month)" {
		t.Fatalf("gift name = %q", receipt.GiftName)
	}

	user, _ := l.GetProfile(ctx, 1)
	rewards := user.RewardList()
	if len(rewards) != 1 || rewards[0] != "Discord Nitro (1 Month)" {
		t.Fatalf("rewards = %v", rewards)
	}

	if _, err := l.PurchaseGift(ctx, 1, "spotify_premium_1m"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	user, _ = l.GetProfile(ctx, 1)
	if user.Coins != 100 {
		t.Fatalf("balance changed on failed purchase: %d", user.Coins)
	}
}

func TestPurchaseDiscount_LevelGateAndStacking(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.CreditCoins(ctx, 1, 2000); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// >50% is gated at level 2.
	if _, err := l.PurchaseDiscount(ctx, 1, 75, 600); !errors.Is(err, ErrInsufficientLevel) {
		t.Fatalf("expected ErrInsufficientLevel, got %v", err)
	}

	receipt, err := l.PurchaseDiscount(ctx, 1, 50, 300)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.TotalDiscount != 50 || receipt.NewBalance != 1700 {
		t.Fatalf("receipt = %+v", receipt)
	}

	// Top-ups stack without a cap.
	receipt, err = l.PurchaseDiscount(ctx, 1, 50, 300)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.TotalDiscount != 100 {
		t.Fatalf("total discount = %v, want 100", receipt.TotalDiscount)
	}
}

func TestRecordPurchase_CreditsReferrerAndPromotesBuyer(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register B: %v", err)
	}
	drain(q)

	purchase, err := l.RecordPurchase(ctx, 2, 1000)
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	if purchase.ReferrerID == nil || *purchase.ReferrerID != 1 {
		t.Fatalf("purchase referrer = %v", purchase.ReferrerID)
	}

	// Referrer earns floor(1000 * 0.2) coins.
	referrer, _ := l.GetProfile(ctx, 1)
	if referrer.Coins != 200 {
		t.Fatalf("referrer coins = %d, want 200", referrer.Coins)
	}
	// Only the buyer is considered for promotion here; the referrer
	// qualifies but is promoted on their own next ledger touch.
	if referrer.Level != 1 {
		t.Fatalf("referrer level = %d, want 1 (untouched)", referrer.Level)
	}

	buyer, _ := l.GetProfile(ctx, 2)
	if buyer.Level != 2 {
		t.Fatalf("buyer level = %d, want 2", buyer.Level)
	}

	notes := drain(q)
	if len(notes) != 2 {
		t.Fatalf("expected bonus + level-up notifications, got %d", len(notes))
	}
	if notes[0].ChatID != 1 || !strings.Contains(notes[0].Text, "earned 200") {
		t.Fatalf("unexpected bonus notification: %+v", notes[0])
	}
	if notes[1].ChatID != 2 || !strings.Contains(notes[1].Text, "Level 2") {
		t.Fatalf("unexpected level notification: %+v", notes[1])
	}
}

func TestPromoteLevel_QualifiesViaReferralPurchase(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register B: %v", err)
	}
	if _, err := l.RecordPurchase(ctx, 2, 100); err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	drain(q)

	// A referral's purchase row names A as referrer, so A qualifies too
	// once PromoteLevel runs for A.
	promoted, level, err := l.PromoteLevel(ctx, 1)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !promoted || level != 2 {
		t.Fatalf("promoted=%v level=%d, want true/2", promoted, level)
	}

	// Idempotent on repeat.
	promoted, level, err = l.PromoteLevel(ctx, 1)
	if err != nil {
		t.Fatalf("promote again: %v", err)
	}
	if promoted || level != 2 {
		t.Fatalf("second promote: promoted=%v level=%d", promoted, level)
	}
}

func TestPromoteLevel_NoPurchasesIsNoOp(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	promoted, level, err := l.PromoteLevel(ctx, 1)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted || level != 1 {
		t.Fatalf("promoted=%v level=%d, want false/1", promoted, level)
	}
	if notes := drain(q); len(notes) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notes))
	}
}

func TestRegisterProductPurchase(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register B: %v", err)
	}
	drain(q)

	product, ok := catalog.ProductByCode("discord_nitro_1m")
	if !ok {
		t.Fatal("product missing from catalog")
	}
	if err := l.RegisterProductPurchase(ctx, 2, product); err != nil {
		t.Fatalf("register product purchase: %v", err)
	}

	referrer, _ := l.GetProfile(ctx, 1)
	if referrer.Coins != 80 { // floor(400 * 0.2)
		t.Fatalf("referrer coins = %d, want 80", referrer.Coins)
	}

	// This path writes no purchases row, so the buyer stays level 1.
	buyer, _ := l.GetProfile(ctx, 2)
	if buyer.Level != 1 {
		t.Fatalf("buyer level = %d, want 1", buyer.Level)
	}
}

func TestDeleteUser_LeavesDanglingReferences(t *testing.T) {
	l, q := newTestLedger(t)
	ctx := context.Background()

	if err := l.DeleteUser(ctx, 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register B: %v", err)
	}
	if err := l.DeleteUser(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	drain(q)

	if _, err := l.GetProfile(ctx, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}

	// B's referrer is now dangling; the purchase still records and the
	// bonus credit is skipped without an error.
	if _, err := l.RecordPurchase(ctx, 2, 500); err != nil {
		t.Fatalf("record purchase with dangling referrer: %v", err)
	}

	buyer, _ := l.GetProfile(ctx, 2)
	if buyer.Level != 2 {
		t.Fatalf("buyer level = %d, want 2", buyer.Level)
	}
	notes := drain(q)
	for _, n := range notes {
		if n.ChatID == 1 {
			t.Fatalf("unexpected notification for deleted user: %+v", n)
		}
	}
}

func TestScenario_GiftShopFlow(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 10, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, _ := l.GetProfile(ctx, 10)
	if user.Coins != 0 || user.Level != 1 {
		t.Fatalf("fresh user: %+v", user)
	}

	if _, err := l.CreditCoins(ctx, 10, 500); err != nil {
		t.Fatalf("give coins: %v", err)
	}

	receipt, err := l.PurchaseGift(ctx, 10, "discord_nitro_1m") // 400, level 1
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.NewBalance != 100 {
		t.Fatalf("balance = %d, want 100", receipt.NewBalance)
	}

	if _, err := l.PurchaseGift(ctx, 10, "twitch_level1_1m"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	user, _ = l.GetProfile(ctx, 10)
	if user.Coins != 100 {
		t.Fatalf("balance = %d, want 100 after rejected purchase", user.Coins)
	}
	if rewards := user.RewardList(); len(rewards) != 1 {
		t.Fatalf("rewards = %v, want exactly one", rewards)
	}
}

func TestConcurrentDebits_NeverOverdraw(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.CreditCoins(ctx, 1, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	var wg sync.WaitGroup
	successes := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.DebitCoins(ctx, 1, 30); err == nil {
				successes <- 30
			}
		}()
	}
	wg.Wait()
	close(successes)

	total := 0
	for amount := range successes {
		total += amount
	}
	user, _ := l.GetProfile(ctx, 1)
	if user.Coins < 0 {
		t.Fatalf("balance went negative: %d", user.Coins)
	}
	if user.Coins != 100-total {
		t.Fatalf("balance = %d, debited = %d, accounting is off", user.Coins, total)
	}
	if total != 90 {
		t.Fatalf("expected exactly 3 debits to succeed, debited %d", total)
	}
}

func TestFindByUsernameAndReferralsOf(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.FindByUsername(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "alice", "Alice", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 2, "bob", "Bob", ref(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := l.RegisterUser(ctx, 3, "carol", "Carol", ref(1)); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := l.FindByUsername(ctx, "alice")
	if err != nil || user.UserID != 1 {
		t.Fatalf("find by username: user=%+v err=%v", user, err)
	}

	referrals, err := l.ReferralsOf(ctx, 1)
	if err != nil {
		t.Fatalf("referrals: %v", err)
	}
	if len(referrals) != 2 || referrals[0].UserID != 2 || referrals[1].UserID != 3 {
		t.Fatalf("referrals = %+v", referrals)
	}
}

func TestRefreshUserMeta(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if err := l.RefreshUserMeta(ctx, 1, "x", "X"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := l.RegisterUser(ctx, 1, "old", "Old", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := l.RefreshUserMeta(ctx, 1, "new", "New"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	user, _ := l.GetProfile(ctx, 1)
	if user.Username != "new" || user.FirstName != "New" {
		t.Fatalf("meta not refreshed: %+v", user)
	}
}
