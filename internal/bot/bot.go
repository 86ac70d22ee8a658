package bot

import (
	"context"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	"github.com/m3rciful/lecturebot/core/logger"
	tg "github.com/m3rciful/lecturebot/core/telegram"
	"github.com/m3rciful/lecturebot/core/telegram/commands"
	"github.com/m3rciful/lecturebot/core/telegram/middleware"
	"github.com/m3rciful/lecturebot/core/telegram/router"
	"github.com/m3rciful/lecturebot/core/telegram/state"
	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/audit"
	"github.com/m3rciful/lecturebot/internal/service"
	"github.com/m3rciful/lecturebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Bot glues config, storage, services and the Telegram wiring together.
type Bot struct {
	cfg    *coreconfig.Config
	store  storage.Storage
	states state.Manager
	access *access.Resolver
	svc    *ServiceState
	out    *Outbound
	audit  *audit.Log

	catalog   *service.Catalog
	links     *service.Links
	admins    *service.Admins
	broadcast *service.Broadcast
	backup    *service.Backup

	stopBackup chan struct{}
}

// New assembles the bot and its service layer on top of the given store.
func New(cfg *coreconfig.Config, store storage.Storage) *Bot {
	resolver := access.NewResolver(cfg.Telegram.RootAdminID, store)
	auditLog := audit.NewLog(cfg.Audit.File)
	out := NewOutbound()

	b := &Bot{
		cfg:       cfg,
		store:     store,
		states:    state.NewMemoryManager(),
		access:    resolver,
		svc:       NewServiceState(cfg.Maintenance.Enabled),
		out:       out,
		audit:     auditLog,
		catalog:   service.NewCatalog(store, auditLog),
		links:     service.NewLinks(store, auditLog),
		admins:    service.NewAdmins(store, resolver, auditLog),
		broadcast: service.NewBroadcast(store, resolver, out, auditLog),
		backup:    service.NewBackup(resolver, out, cfg.Backup.SnapshotFile, cfg.Audit.File),
	}
	b.registerFlowHandlers()
	return b
}

// ServiceState exposes the maintenance switch, mostly for tests.
func (b *Bot) ServiceState() *ServiceState { return b.svc }

func (b *Bot) isAdmin(userID int64) bool {
	return b.access.IsAdmin(context.Background(), userID)
}

// RunOptions builds the complete wiring handed to telegram.RunTelegram.
func (b *Bot) RunOptions() tg.RunOptions {
	reg := tg.NewRegistry()
	b.registerCommands(reg)
	b.registerCallbacks(reg)
	reg.SetTextFallback(b.handleUnknownText)

	routes := []tg.Route{router.CallbackRoute(reg, router.CallbackOptions{})}
	routes = append(routes, router.TextRoutes(b.states, reg, router.TextOptions{})...)
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin: b.isAdmin,
	})...)

	mws := tg.DefaultMiddlewares(b.cfg, tg.MiddlewareOptions{
		Maintenance: b.svc.Maintenance,
		IsAdmin:     b.isAdmin,
		MaintenanceNotice: func(c tele.Context) error {
			return c.Send(msgMaintenance)
		},
		OnLimited: func(c tele.Context) error {
			return c.Send(msgRateLimited)
		},
	})
	mws = append(mws, tg.Middleware{Name: "register_user", Use: b.registerUserMiddleware})

	return tg.RunOptions{
		Config:      b.cfg,
		Registry:    reg,
		Middlewares: mws,
		Routes:      routes,
		OnStart:     b.onStart,
		OnStop:      b.onStop,
	}
}

func (b *Bot) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Show the main menu",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     b.handleAdminPanel,
		Description: "Open the admin panel",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/addadmin", commands.Command{
		Handler:     b.handleAddAdminCommand,
		Description: "Grant admin rights: /addadmin <user id>",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/removeadmin", commands.Command{
		Handler:     b.handleRemoveAdminCommand,
		Description: "Revoke admin rights: /removeadmin <user id>",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (b *Bot) registerCallbacks(reg *tg.Registry) {
	// Public navigation.
	public := map[string]tele.HandlerFunc{
		cbHome:        b.handleHome,
		cbSubjects:    b.handleSubjects,
		cbOpenSubject: b.handleOpenSubject,
		cbOpenLecture: b.handleOpenLecture,
		cbLinks:       b.handleLinks,
		cbReport:      b.handleReportStart,
		cbMissing:     b.handleMissingStart,
	}
	for key, h := range public {
		if key != cbHome {
			h = b.requireIdle(h)
		}
		_ = reg.RegisterCallback(key, h)
	}

	// Admin-only callbacks are wrapped with the admin check; non-admin
	// presses are silently dropped.
	adminOpts := middleware.AdminOptions{IsAdmin: b.isAdmin}
	adminOnly := map[string]tele.HandlerFunc{
		cbAdminPanel: b.handleAdminPanel,

		cbAddSubject:        b.handleAddSubjectStart,
		cbEditSubjectPick:   b.handleEditSubjectPick,
		cbEditSubject:       b.handleEditSubjectStart,
		cbDeleteSubjectPick: b.handleDeleteSubjectPick,
		cbDeleteSubject:     b.handleDeleteSubjectConfirm,
		cbDeleteSubjectYes:  b.handleDeleteSubjectExecute,

		cbAddLecturePick:         b.handleAddLecturePick,
		cbAddLectureSubject:      b.handleAddLectureStart,
		cbEditLecturePickSubject: b.handleEditLecturePickSubject,
		cbEditLectureSubject:     b.handleEditLecturePick,
		cbEditLecture:            b.handleEditLectureStart,
		cbDeleteLecturePick:      b.handleDeleteLecturePickSubject,
		cbDeleteLectureSubject:   b.handleDeleteLecturePick,
		cbDeleteLecture:          b.handleDeleteLectureConfirm,
		cbDeleteLectureYes:       b.handleDeleteLectureExecute,

		cbManageLinks:   b.handleManageLinks,
		cbAddLink:       b.handleAddLinkStart,
		cbLinkMenu:      b.handleLinkMenu,
		cbEditLinkTitle: b.handleEditLinkTitleStart,
		cbEditLinkURL:   b.handleEditLinkURLStart,
		cbLinkUp:        b.handleLinkUp,
		cbLinkDown:      b.handleLinkDown,
		cbDeleteLink:    b.handleDeleteLinkConfirm,
		cbDeleteLinkYes: b.handleDeleteLinkExecute,

		cbBroadcast: b.handleBroadcastStart,
		cbStats:     b.handleStats,

		cbAdmins:         b.handleAdminsMenu,
		cbAddAdmin:       b.handleAddAdminStart,
		cbRemoveAdmin:    b.handleRemoveAdminStart,
		cbRemoveAdminFor: b.handleRemoveAdminConfirm,
		cbRemoveAdminYes: b.handleRemoveAdminExecute,

		cbMaintenanceOn:  b.handleMaintenanceOn,
		cbMaintenanceOff: b.handleMaintenanceOff,
	}
	for key, h := range adminOnly {
		_ = reg.RegisterCallback(key, b.requireIdle(middleware.WithAdminCheck(adminOpts, h)))
	}
}

// requireIdle keeps an active conversation step in charge of the dialog:
// any stateless button other than home is ignored until the flow finishes
// or the user cancels.
func (b *Bot) requireIdle(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.states.InProgress(c.Sender().ID) {
			return nil
		}
		return h(c)
	}
}

// registerUserMiddleware records every interacting user so broadcasts
// reach them later. Registration is idempotent; failures only log.
func (b *Bot) registerUserMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sender := c.Sender(); sender != nil {
			if err := b.store.RegisterUser(context.Background(), sender.ID); err != nil {
				logger.TG.Warn("user registration failed",
					slog.String("event", "register_user"),
					slog.Int64("user_id", sender.ID),
					slog.String("err", err.Error()),
				)
			}
		}
		return next(c)
	}
}

func (b *Bot) onStart(ctx context.Context, rt tg.Runtime) error {
	b.out.Bind(rt.Bot)

	if b.cfg.Backup.Enabled {
		b.stopBackup = make(chan struct{})
		interval := time.Duration(b.cfg.Backup.IntervalHours) * time.Hour
		go b.backupLoop(ctx, interval, b.stopBackup)
	}
	return nil
}

func (b *Bot) onStop(ctx context.Context, rt tg.Runtime) error {
	if b.stopBackup != nil {
		close(b.stopBackup)
		b.stopBackup = nil
	}
	return nil
}

func (b *Bot) backupLoop(ctx context.Context, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := b.backup.Run(ctx); err != nil {
				logger.SVCBackup.Error("backup run failed",
					slog.String("event", "backup.run"),
					slog.String("err", err.Error()),
				)
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
