package bot

import (
	"os"
	"strconv"
	"testing"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/storage/memory"

	tele "gopkg.in/telebot.v4"
)

const (
	testRootID  int64 = 10
	testAdminID int64 = 20
	testGuestID int64 = 100
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(&coreconfig.Config{
		Logging: coreconfig.LoggingConfig{Level: "error"},
	})
	os.Exit(m.Run())
}

func newTestBot(t *testing.T) (*Bot, *memory.Store) {
	t.Helper()
	store := memory.New()
	cfg := &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{
			Token:       "test-token",
			RootAdminID: testRootID,
		},
	}
	return New(cfg, store), store
}

// fakeContext implements the slice of tele.Context the handlers touch.
// Unimplemented methods panic via the embedded nil interface, which
// flags any untested dependency immediately.
type fakeContext struct {
	tele.Context

	sender *tele.User
	text   string
	msg    *tele.Message
	cb     *tele.Callback
	args   []string

	store map[string]any
	sent  []any
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		store:  map[string]any{},
	}
}

func textCtx(userID int64, text string) *fakeContext {
	c := newFakeContext(userID)
	c.text = text
	c.msg = &tele.Message{Text: text, Sender: c.sender}
	return c
}

func documentCtx(userID int64, fileID string) *fakeContext {
	c := newFakeContext(userID)
	c.msg = &tele.Message{
		Sender:   c.sender,
		Document: &tele.Document{File: tele.File{FileID: fileID}},
	}
	return c
}

func callbackCtx(userID int64, unique string, payload int64) *fakeContext {
	c := newFakeContext(userID)
	data := "\f" + unique
	if payload != 0 {
		data += "|" + strconv.FormatInt(payload, 10)
	}
	c.cb = &tele.Callback{Data: data, Sender: c.sender}
	return c
}

func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Chat() *tele.Chat         { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Update() tele.Update      { return tele.Update{} }
func (f *fakeContext) Message() *tele.Message   { return f.msg }
func (f *fakeContext) Callback() *tele.Callback { return f.cb }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Args() []string           { return f.args }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) EditOrSend(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (f *fakeContext) Set(key string, val interface{}) { f.store[key] = val }
func (f *fakeContext) Get(key string) interface{}      { return f.store[key] }

// lastText returns the most recent string reply.
func (f *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no reply sent")
	}
	s, ok := f.sent[len(f.sent)-1].(string)
	if !ok {
		t.Fatalf("last reply is %T, want string", f.sent[len(f.sent)-1])
	}
	return s
}

func mustAddAdmin(t *testing.T, store *memory.Store, id int64) {
	t.Helper()
	if err := store.AddAdmin(logger.Background(), id); err != nil {
		t.Fatalf("seed admin %d: %v", id, err)
	}
}
