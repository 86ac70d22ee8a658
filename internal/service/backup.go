package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/access"

	tele "gopkg.in/telebot.v4"
)

// Backup delivers the database snapshot and the admin action log to every
// admin when the periodic trigger fires. Per-admin delivery failures are
// swallowed; the next run retries naturally.
type Backup struct {
	access       *access.Resolver
	out          Outbound
	snapshotPath string
	auditPath    string
}

// NewBackup builds the backup delivery service. Empty paths skip the
// corresponding document.
func NewBackup(resolver *access.Resolver, out Outbound, snapshotPath, auditPath string) *Backup {
	return &Backup{
		access:       resolver,
		out:          out,
		snapshotPath: snapshotPath,
		auditPath:    auditPath,
	}
}

// Run is the single entry point invoked by the external scheduler.
func (s *Backup) Run(ctx context.Context) error {
	admins, err := s.access.AllAdmins(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, id := range admins {
		s.sendFile(ctx, id, s.snapshotPath, "Database snapshot")
		s.sendFile(ctx, id, s.auditPath, "Action log")
		sent++
	}
	logger.SVCBackup.Info("backup delivered",
		slog.String("event", "backup.run"),
		slog.Int("recipients", sent),
	)
	return nil
}

func (s *Backup) sendFile(ctx context.Context, recipient int64, path, caption string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		logger.SVCBackup.Warn("backup file missing",
			slog.String("event", "backup.send"),
			slog.String("err", err.Error()),
		)
		return
	}
	doc := &tele.Document{File: tele.FromDisk(path), Caption: caption, FileName: filepath.Base(path)}
	if err := s.out.SendDocument(ctx, recipient, doc); err != nil {
		logger.SVCBackup.Warn("backup delivery failed",
			slog.String("event", "backup.send"),
			slog.Int64("user_id", recipient),
			slog.String("err", err.Error()),
		)
	}
}
