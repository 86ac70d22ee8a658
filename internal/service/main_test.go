package service

import (
	"context"
	"os"
	"sync"
	"testing"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/audit"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(&coreconfig.Config{
		Logging: coreconfig.LoggingConfig{Level: "error"},
	})
	os.Exit(m.Run())
}

func testAudit(t *testing.T) *audit.Log {
	t.Helper()
	return audit.NewLog(t.TempDir() + "/audit.txt")
}

type sentMessage struct {
	Recipient int64
	Text      string
	Doc       *tele.Document
}

// fakeOutbound records deliveries and can fail selected recipients.
type fakeOutbound struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]error
}

func newFakeOutbound() *fakeOutbound {
	return &fakeOutbound{failFor: make(map[int64]error)}
}

func (f *fakeOutbound) Send(_ context.Context, recipient int64, text string, _ *tele.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{Recipient: recipient, Text: text})
	return nil
}

func (f *fakeOutbound) SendDocument(_ context.Context, recipient int64, doc *tele.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{Recipient: recipient, Doc: doc})
	return nil
}

func (f *fakeOutbound) texts() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}
