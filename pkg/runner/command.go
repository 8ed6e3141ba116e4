package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind names what a parsed input line asks for.
type CommandKind string

const (
	CmdUtterance CommandKind = "utterance"
	CmdQuick     CommandKind = "quick"
	CmdSeat      CommandKind = "seat"
	CmdBook      CommandKind = "book"
	CmdItem      CommandKind = "item"
	CmdHold      CommandKind = "hold"
	CmdYes       CommandKind = "yes"
	CmdNo        CommandKind = "no"
	CmdBuy       CommandKind = "buy"
	CmdHelp      CommandKind = "help"
	CmdQuit      CommandKind = "quit"
)

// ErrUnknownCommand is returned for a slash command the runner does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line.
type Command struct {
	Kind  CommandKind
	Text  string
	ID    string
	Index int
}

var argKinds = map[string]CommandKind{
	"seat": CmdSeat,
	"book": CmdBook,
	"item": CmdItem,
	"hold": CmdHold,
	"buy":  CmdBuy,
}

var bareKinds = map[string]CommandKind{
	"yes":  CmdYes,
	"y":    CmdYes,
	"no":   CmdNo,
	"n":    CmdNo,
	"help": CmdHelp,
	"quit": CmdQuit,
	"exit": CmdQuit,
}

// ParseCommand turns a line into a Command. Lines not starting with "/" are
// utterances verbatim.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CmdUtterance, Text: line}, nil
	}

	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	if kind, ok := bareKinds[name]; ok {
		return Command{Kind: kind}, nil
	}
	if kind, ok := argKinds[name]; ok {
		if len(args) != 1 {
			return Command{}, fmt.Errorf("/%s needs exactly one id", name)
		}
		return Command{Kind: kind, ID: args[0]}, nil
	}
	if name == "quick" {
		if len(args) != 1 {
			return Command{}, errors.New("/quick needs a number")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("/quick: %w", err)
		}
		return Command{Kind: CmdQuick, Index: n}, nil
	}
	return Command{}, fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
}
