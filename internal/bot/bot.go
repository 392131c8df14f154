// Package bot adapts the conversation engine to the Telegram transport:
// it routes commands and free text into the engine and renders the
// engine's messages as reply-keyboard sends.
package bot

import (
	"context"

	"github.com/m3rciful/tutorbot/core/telegram/helpers"
	"github.com/m3rciful/tutorbot/core/telegram/keyboard"
	"github.com/m3rciful/tutorbot/internal/engine"
	"github.com/m3rciful/tutorbot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// Bot bridges telebot updates and the engine. It implements the text
// router's FSM interface so any message from a user with a live session
// lands in ManagerHandler.
type Bot struct {
	engine    *engine.Engine
	store     session.Store
	directory session.Directory
	adminID   int64
}

// New builds the adapter. directory may be nil when the store cannot
// enumerate learners; the admin roster commands then report that.
func New(eng *engine.Engine, store session.Store, directory session.Directory, adminID int64) *Bot {
	return &Bot{
		engine:    eng,
		store:     store,
		directory: directory,
		adminID:   adminID,
	}
}

// InProgress reports whether the sender has a live conversation.
func (b *Bot) InProgress(userID int64) bool {
	return b.store.Has(context.Background(), userID)
}

// ManagerHandler feeds one free-text update into the engine.
func (b *Bot) ManagerHandler(c tele.Context) error {
	return b.handleEvent(c, engine.Input{Text: c.Text()})
}

func (b *Bot) handleEvent(c tele.Context, in engine.Input) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	msgs, err := b.engine.HandleEvent(ctx, userID, profileFrom(c), in)
	if err != nil {
		return err
	}
	return b.deliver(c, userID, msgs)
}

// deliver sends the engine's messages in order. When the conversation
// ended during this event the reply keyboard is removed with the final
// message, matching the farewell flow.
func (b *Bot) deliver(c tele.Context, userID int64, msgs []engine.Message) error {
	ended := !b.store.Has(helpers.BuildContext(c), userID)
	for i, m := range msgs {
		last := i == len(msgs)-1
		var markup *tele.ReplyMarkup
		switch {
		case len(m.Keyboard) > 0:
			markup = keyboard.ReplyButtons(m.Keyboard...)
		case last && ended:
			markup = keyboard.RemoveKeyboard()
		}
		if err := helpers.SendWithKeyboard(c, m.Body, markup); err != nil {
			return err
		}
	}
	return nil
}

func profileFrom(c tele.Context) session.Profile {
	u := c.Sender()
	if u == nil {
		return session.Profile{}
	}
	return session.Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}
