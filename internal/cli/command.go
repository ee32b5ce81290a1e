package cli

import (
	"strings"
)

// Command is one of the actions offered by the main menu.
type Command int

const (
	CommandAdd Command = iota + 1
	CommandDelete
	CommandSearch
	CommandList
	CommandChangeStatus
	CommandLoad
	CommandSave
	CommandExit
)

// Commands lists every command in menu order.
var Commands = []Command{
	CommandAdd,
	CommandDelete,
	CommandSearch,
	CommandList,
	CommandChangeStatus,
	CommandLoad,
	CommandSave,
	CommandExit,
}

var commandTitles = map[Command]string{
	CommandAdd:          "Add a new book",
	CommandDelete:       "Delete a book",
	CommandSearch:       "Search books",
	CommandList:         "List all books",
	CommandChangeStatus: "Change book status",
	CommandLoad:         "Load books from file",
	CommandSave:         "Save books to file",
	CommandExit:         "Exit",
}

// Key is the menu key the user types to choose c.
func (c Command) Key() string {
	return string(rune('0' + int(c)))
}

func (c Command) String() string {
	if t, ok := commandTitles[c]; ok {
		return t
	}
	return "Unknown"
}

// ParseCommand maps a menu key to its command.
func ParseCommand(s string) (Command, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Commands {
		if c.Key() == s {
			return c, true
		}
	}
	return 0, false
}
