package service

import (
	"context"
	"log/slog"

	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/audit"
	"github.com/m3rciful/lecturebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Broadcast fans messages out to recipient sets with best-effort
// delivery: one failed recipient never aborts the rest, and the operator
// only ever sees an aggregate confirmation.
type Broadcast struct {
	store  storage.Storage
	access *access.Resolver
	out    Outbound
	audit  *audit.Log
}

// NewBroadcast builds the fan-out service.
func NewBroadcast(store storage.Storage, resolver *access.Resolver, out Outbound, auditLog *audit.Log) *Broadcast {
	return &Broadcast{store: store, access: resolver, out: out, audit: auditLog}
}

// Result summarizes one fan-out run.
type Result struct {
	Recipients int
	Delivered  int
	Failed     int
}

// ToAllUsers sends an announcement to every registered user.
func (s *Broadcast) ToAllUsers(ctx context.Context, adminID int64, text string) (Result, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return Result{}, err
	}
	res := s.fanOut(ctx, users, "Announcement:\n\n"+text, "")
	s.audit.Record(adminID, "Sent Broadcast Message")
	return res, nil
}

// ToAdmins delivers a student report to every admin (root included).
// An optional file handle is forwarded after the text.
func (s *Broadcast) ToAdmins(ctx context.Context, text, fileID string) (Result, error) {
	admins, err := s.access.AllAdmins(ctx)
	if err != nil {
		return Result{}, err
	}
	return s.fanOut(ctx, admins, text, fileID), nil
}

func (s *Broadcast) fanOut(ctx context.Context, recipients []int64, text, fileID string) Result {
	res := Result{Recipients: len(recipients)}
	for _, id := range recipients {
		if err := s.out.Send(ctx, id, text, nil); err != nil {
			// Blocked bots and dead chats are expected; skip and go on.
			res.Failed++
			logger.SVCBroadcast.Warn("delivery failed",
				slog.String("event", "broadcast.send"),
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		if fileID != "" {
			doc := &tele.Document{File: tele.File{FileID: fileID}}
			if err := s.out.SendDocument(ctx, id, doc); err != nil {
				logger.SVCBroadcast.Warn("document delivery failed",
					slog.String("event", "broadcast.send_document"),
					slog.Int64("user_id", id),
					slog.String("err", err.Error()),
				)
			}
		}
		res.Delivered++
	}
	logger.SVCBroadcast.Info("fan-out complete",
		slog.String("event", "broadcast.summary"),
		slog.Int("recipients", res.Recipients),
		slog.Int("delivered", res.Delivered),
		slog.Int("failed", res.Failed),
	)
	return res
}
