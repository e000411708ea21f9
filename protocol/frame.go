// Package protocol defines the newline-delimited wire grammar exchanged
// between server and clients, as typed frames with a strict parser.
//
// Server -> client:
//
//	ROLE|<role>|<0|1>
//	TURN
//	MSG|<seq>|<from>|<text>
//	INFO|<text>
//	SHUTDOWN
//
// Client -> server:
//
//	MSG|<text>
//	QUIT
//
// Lines are UTF-8 and framed by a single trailing '\n'. The text field of a
// content frame may itself contain '|'.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"turnchat/domain"
	"turnchat/errors"
)

const sep = "|"

// Frame is one wire unit, either direction. Encode renders the line
// without its trailing delimiter.
type Frame interface {
	Encode() string
}

// RoleAssign tells a client its identity. Starts marks the opening turn.
type RoleAssign struct {
	Role   domain.Role
	Starts bool
}

func (f RoleAssign) Encode() string {
	flag := "0"
	if f.Starts {
		flag = "1"
	}
	return "ROLE" + sep + string(f.Role) + sep + flag
}

// TurnGrant hands the turn to the recipient.
type TurnGrant struct{}

func (TurnGrant) Encode() string { return "TURN" }

// Delivery carries a sequenced content message to its single recipient.
// It is never sent back to the sender.
type Delivery struct {
	Seq  uint64
	From domain.Role
	Text string
}

func (f Delivery) Encode() string {
	return "MSG" + sep + strconv.FormatUint(f.Seq, 10) + sep + string(f.From) + sep + f.Text
}

// Notice is a free-text informational frame (peer offline, peer left...).
type Notice struct {
	Text string
}

func (f Notice) Encode() string { return "INFO" + sep + f.Text }

// Shutdown tells the recipient the session is over and it should close.
type Shutdown struct{}

func (Shutdown) Encode() string { return "SHUTDOWN" }

// Content is a client content message from the current turn holder.
type Content struct {
	Text string
}

func (f Content) Encode() string { return "MSG" + sep + f.Text }

// Quit is the explicit voluntary leave signal.
type Quit struct{}

func (Quit) Encode() string { return "QUIT" }

// ParseClient decodes one inbound line from a client. Blank lines yield
// ErrBlankLine; anything outside the grammar yields ErrUnknownFrame so the
// handler can log and keep reading.
func ParseClient(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, errors.ErrBlankLine
	}
	if line == "QUIT" {
		return Quit{}, nil
	}
	if text, ok := strings.CutPrefix(line, "MSG"+sep); ok {
		return Content{Text: text}, nil
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
}

// ParseServer decodes one inbound line on the client side.
func ParseServer(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, errors.ErrBlankLine
	}
	switch {
	case line == "TURN":
		return TurnGrant{}, nil
	case line == "SHUTDOWN":
		return Shutdown{}, nil
	}
	tag, rest, ok := strings.Cut(line, sep)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
	}
	switch tag {
	case "ROLE":
		role, flag, ok := strings.Cut(rest, sep)
		if !ok || !domain.Role(role).Valid() || (flag != "0" && flag != "1") {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
		}
		return RoleAssign{Role: domain.Role(role), Starts: flag == "1"}, nil
	case "MSG":
		fields := strings.SplitN(rest, sep, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
		}
		seq, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil || !domain.Role(fields[1]).Valid() {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
		}
		return Delivery{Seq: seq, From: domain.Role(fields[1]), Text: fields[2]}, nil
	case "INFO":
		return Notice{Text: rest}, nil
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, line)
}
