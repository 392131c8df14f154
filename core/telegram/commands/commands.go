// Package commands defines the declarative shape of a bot command as
// registered with the telegram registry.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a handler to the metadata the registry and the command
// menu need.
type Command struct {
	Handler tele.HandlerFunc
	// Description appears in the Telegram command menu.
	Description string
	// AdminOnly gates the command behind the admin middleware and hides
	// it from the public menu.
	AdminOnly bool
	// Hidden keeps the command out of the menu without restricting it.
	Hidden  bool
	Aliases []string
}
