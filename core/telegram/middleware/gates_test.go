package middleware

import (
	"os"
	"testing"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	"github.com/m3rciful/lecturebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(&coreconfig.Config{
		Logging: coreconfig.LoggingConfig{Level: "error"},
	})
	os.Exit(m.Run())
}

// gateContext implements just enough of tele.Context for the gates.
type gateContext struct {
	tele.Context
	sender *tele.User
}

func (g *gateContext) Sender() *tele.User { return g.sender }
func (g *gateContext) Chat() *tele.Chat   { return &tele.Chat{ID: g.sender.ID} }

func TestMaintenanceGateBlocksGuests(t *testing.T) {
	var nextRan, noticed bool
	mw := MaintenanceMiddleware(MaintenanceOptions{
		Enabled: func() bool { return true },
		Bypass:  func(userID int64) bool { return userID == 1 },
		Notice: func(c tele.Context) error {
			noticed = true
			return nil
		},
	})
	h := mw(func(c tele.Context) error {
		nextRan = true
		return nil
	})

	if err := h(&gateContext{sender: &tele.User{ID: 2}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if nextRan {
		t.Fatal("guest passed through during maintenance")
	}
	if !noticed {
		t.Fatal("guest should receive the maintenance notice")
	}
}

func TestMaintenanceGateBypassesAdmins(t *testing.T) {
	var nextRan bool
	mw := MaintenanceMiddleware(MaintenanceOptions{
		Enabled: func() bool { return true },
		Bypass:  func(userID int64) bool { return userID == 1 },
	})
	h := mw(func(c tele.Context) error {
		nextRan = true
		return nil
	})

	if err := h(&gateContext{sender: &tele.User{ID: 1}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !nextRan {
		t.Fatal("admin should bypass the maintenance gate")
	}
}

func TestMaintenanceGateDisabled(t *testing.T) {
	var nextRan bool
	mw := MaintenanceMiddleware(MaintenanceOptions{
		Enabled: func() bool { return false },
	})
	h := mw(func(c tele.Context) error {
		nextRan = true
		return nil
	})

	if err := h(&gateContext{sender: &tele.User{ID: 2}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !nextRan {
		t.Fatal("disabled gate must not block anyone")
	}
}

type updContext struct {
	gateContext
	upd tele.Update
}

func (u *updContext) Update() tele.Update { return u.upd }

func TestRateLimitHonorsExclusions(t *testing.T) {
	limiter := NewFloodLimiter(0, 0, 2)
	mw := RateLimitMiddleware(RateLimitOptions{
		Limiter: limiter,
		Exclude: map[string]struct{}{"callback": {}},
	})

	var handled int
	h := mw(func(c tele.Context) error {
		handled++
		return nil
	})

	cb := &updContext{
		gateContext: gateContext{sender: &tele.User{ID: 5}},
		upd:         tele.Update{Callback: &tele.Callback{}},
	}
	for i := 0; i < 10; i++ {
		if err := h(cb); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}
	if handled != 10 {
		t.Fatalf("handled = %d, excluded callbacks must never be throttled", handled)
	}

	msg := &updContext{
		gateContext: gateContext{sender: &tele.User{ID: 5}},
		upd:         tele.Update{Message: &tele.Message{Text: "hi"}},
	}
	handled = 0
	for i := 0; i < 5; i++ {
		if err := h(msg); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}
	if handled >= 5 {
		t.Fatalf("handled = %d, messages should hit the limiter", handled)
	}
}

func TestAdminOnlySilentDrop(t *testing.T) {
	var nextRan bool
	h := WithAdminCheck(AdminOptions{
		IsAdmin: func(userID int64) bool { return userID == 1 },
	}, func(c tele.Context) error {
		nextRan = true
		return nil
	})

	if err := h(&gateContext{sender: &tele.User{ID: 2}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if nextRan {
		t.Fatal("non-admin reached an admin handler")
	}

	if err := h(&gateContext{sender: &tele.User{ID: 1}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !nextRan {
		t.Fatal("admin was rejected")
	}
}
