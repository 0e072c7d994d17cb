package domain

import "strings"

// Command is a local slash command typed instead of a chat message.
type Command int

const (
	CmdNone Command = iota
	CmdHelp
	CmdQuit
	CmdClear
	CmdUsers
	CmdPing
	CmdUnknown
)

// ParseCommand classifies a submitted input line. Lines not starting with
// a slash are ordinary messages (CmdNone).
func ParseCommand(line string) Command {
	if !strings.HasPrefix(line, "/") {
		return CmdNone
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "/help":
		return CmdHelp
	case "/quit":
		return CmdQuit
	case "/clear":
		return CmdClear
	case "/users":
		return CmdUsers
	case "/ping":
		return CmdPing
	default:
		return CmdUnknown
	}
}
