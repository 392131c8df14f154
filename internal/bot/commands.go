package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tg "github.com/m3rciful/tutorbot/core/telegram"
	"github.com/m3rciful/tutorbot/core/telegram/commands"
	"github.com/m3rciful/tutorbot/core/telegram/helpers"
	"github.com/m3rciful/tutorbot/internal/engine"
	"github.com/m3rciful/tutorbot/internal/i18n"
	"github.com/m3rciful/tutorbot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// BuildRegistry declares the full command set. Non-entry commands route
// through the engine like any other input, so the transition table stays
// the single dispatch point.
func (b *Bot) BuildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Start or restart the tutoring session",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     b.engineCommand("menu"),
		Description: "Show the main menu",
	})
	reg.RegisterCommand("/lesson", commands.Command{
		Handler:     b.engineCommand("lesson"),
		Description: "Browse lessons",
		Aliases:     []string{"lessons"},
	})
	reg.RegisterCommand("/quiz", commands.Command{
		Handler:     b.engineCommand("quiz"),
		Description: "Take a quiz",
	})
	reg.RegisterCommand("/code", commands.Command{
		Handler:     b.engineCommand("code"),
		Description: "Execute Python code",
	})
	reg.RegisterCommand("/info", commands.Command{
		Handler:     b.engineCommand("info"),
		Description: "Show your profile and score",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.engineCommand("cancel"),
		Description: "End the session",
	})

	reg.RegisterCommand("/users", commands.Command{
		Handler:     b.handleListUsers,
		Description: "List registered learners",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/adduser", commands.Command{
		Handler:     b.handleAddUser,
		Description: "Register a learner: /adduser <id> <first> <last> <lang>",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(b.handleUnknownText)
	return reg
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID
	msgs, err := b.engine.OnSessionStart(ctx, userID, profileFrom(c))
	if err != nil {
		return err
	}
	return b.deliver(c, userID, msgs)
}

func (b *Bot) engineCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.handleEvent(c, engine.Input{Command: name, Text: c.Text(), Args: c.Args()})
	}
}

// handleUnknownText answers text from users without a live conversation.
func (b *Bot) handleUnknownText(c tele.Context) error {
	return helpers.SendText(c, i18n.T(session.LangEN, i18n.MsgUnknownCommand))
}

func (b *Bot) handleListUsers(c tele.Context) error {
	if b.directory == nil {
		return helpers.SendText(c, "Learner roster is not available with this storage backend.")
	}
	recs, err := b.directory.List(helpers.BuildContext(c))
	if err != nil {
		return fmt.Errorf("bot: list learners: %w", err)
	}
	return helpers.SendText(c, FormatRoster(recs))
}

func (b *Bot) handleAddUser(c tele.Context) error {
	if b.directory == nil {
		return helpers.SendText(c, "Learner roster is not available with this storage backend.")
	}
	rec, err := ParseAddUserArgs(c.Args())
	if err != nil {
		return helpers.SendText(c, "Usage: /adduser <id> <first> <last> <lang>")
	}
	if err := b.directory.Put(helpers.BuildContext(c), rec); err != nil {
		return fmt.Errorf("bot: add learner %d: %w", rec.ID, err)
	}
	return helpers.SendText(c, fmt.Sprintf("✅ Learner %d (%s %s, %s) registered.", rec.ID, rec.FirstName, rec.LastName, rec.Lang))
}

// FormatRoster renders the learner list for the admin command.
func FormatRoster(recs []*session.Record) string {
	if len(recs) == 0 {
		return "No learners registered yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Learners (%d):\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(&sb, "\n🔑 %d — %s %s", r.ID, r.FirstName, r.LastName)
		if r.Username != "" {
			fmt.Fprintf(&sb, " (@%s)", r.Username)
		}
		fmt.Fprintf(&sb, "\n   lang=%s joined=%s score=%d/%d", r.Lang, r.JoinedAt.Format("2006-01-02"), r.CorrectCount, r.TotalCount)
	}
	return sb.String()
}

// ParseAddUserArgs validates /adduser arguments into a fresh record.
func ParseAddUserArgs(args []string) (*session.Record, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("bot: adduser needs 4 args, got %d", len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("bot: invalid learner id %q", args[0])
	}
	lang := session.ParseLang(args[3])
	return &session.Record{
		ID:        id,
		FirstName: args[1],
		LastName:  args[2],
		Lang:      lang,
		JoinedAt:  time.Now().UTC(),
		State:     session.StateMenu,
	}, nil
}
