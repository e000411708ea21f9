package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"turnchat/domain"
	"turnchat/errors"
)

func TestParseClient_Content(t *testing.T) {
	frame, err := ParseClient("MSG|hello")
	require.NoError(t, err)
	require.Equal(t, Content{Text: "hello"}, frame)
}

func TestParseClient_ContentKeepsPipes(t *testing.T) {
	// The text field may itself contain the separator
	frame, err := ParseClient("MSG|a|b|c")
	require.NoError(t, err)
	require.Equal(t, Content{Text: "a|b|c"}, frame)
}

func TestParseClient_EmptyContent(t *testing.T) {
	frame, err := ParseClient("MSG|")
	require.NoError(t, err)
	require.Equal(t, Content{Text: ""}, frame)
}

func TestParseClient_Quit(t *testing.T) {
	frame, err := ParseClient("QUIT")
	require.NoError(t, err)
	require.Equal(t, Quit{}, frame)
}

func TestParseClient_BlankLine(t *testing.T) {
	for _, line := range []string{"", "   ", "\r"} {
		_, err := ParseClient(line)
		require.ErrorIs(t, err, errors.ErrBlankLine)
	}
}

func TestParseClient_UnknownFrames(t *testing.T) {
	for _, line := range []string{"HELLO", "MSG", "quit", "TURN", "ROLE|first|1"} {
		_, err := ParseClient(line)
		require.ErrorIs(t, err, errors.ErrUnknownFrame, "line %q", line)
	}
}

func TestParseServer_RoleAssign(t *testing.T) {
	frame, err := ParseServer("ROLE|first|1")
	require.NoError(t, err)
	require.Equal(t, RoleAssign{Role: domain.RoleFirst, Starts: true}, frame)

	frame, err = ParseServer("ROLE|second|0")
	require.NoError(t, err)
	require.Equal(t, RoleAssign{Role: domain.RoleSecond, Starts: false}, frame)
}

func TestParseServer_RoleAssign_Invalid(t *testing.T) {
	for _, line := range []string{"ROLE|third|1", "ROLE|first|2", "ROLE|first", "ROLE|"} {
		_, err := ParseServer(line)
		require.ErrorIs(t, err, errors.ErrUnknownFrame, "line %q", line)
	}
}

func TestParseServer_Delivery(t *testing.T) {
	frame, err := ParseServer("MSG|42|second|hello|world")
	require.NoError(t, err)
	require.Equal(t, Delivery{Seq: 42, From: domain.RoleSecond, Text: "hello|world"}, frame)
}

func TestParseServer_Delivery_Invalid(t *testing.T) {
	for _, line := range []string{"MSG|x|first|t", "MSG|1|third|t", "MSG|1|first", "MSG|hello"} {
		_, err := ParseServer(line)
		require.ErrorIs(t, err, errors.ErrUnknownFrame, "line %q", line)
	}
}

func TestParseServer_SimpleFrames(t *testing.T) {
	frame, err := ParseServer("TURN")
	require.NoError(t, err)
	require.Equal(t, TurnGrant{}, frame)

	frame, err = ParseServer("SHUTDOWN")
	require.NoError(t, err)
	require.Equal(t, Shutdown{}, frame)

	frame, err = ParseServer("INFO|peer left")
	require.NoError(t, err)
	require.Equal(t, Notice{Text: "peer left"}, frame)
}

func TestEncode_RoundTripsThroughParse(t *testing.T) {
	req := require.New(t)

	server := []Frame{
		RoleAssign{Role: domain.RoleFirst, Starts: true},
		TurnGrant{},
		Delivery{Seq: 7, From: domain.RoleSecond, Text: "oi | tudo bem"},
		Notice{Text: "second is offline"},
		Shutdown{},
	}
	for _, frame := range server {
		parsed, err := ParseServer(frame.Encode())
		req.NoError(err, "frame %#v", frame)
		req.Equal(frame, parsed)
	}

	client := []Frame{Content{Text: "hello"}, Quit{}}
	for _, frame := range client {
		parsed, err := ParseClient(frame.Encode())
		req.NoError(err, "frame %#v", frame)
		req.Equal(frame, parsed)
	}
}

func TestEncode_WireFormat(t *testing.T) {
	require.Equal(t, "ROLE|first|1", RoleAssign{Role: domain.RoleFirst, Starts: true}.Encode())
	require.Equal(t, "ROLE|second|0", RoleAssign{Role: domain.RoleSecond}.Encode())
	require.Equal(t, "MSG|1|first|hello", Delivery{Seq: 1, From: domain.RoleFirst, Text: "hello"}.Encode())
	require.Equal(t, "MSG|hello", Content{Text: "hello"}.Encode())
	require.Equal(t, "INFO|bye", Notice{Text: "bye"}.Encode())
	require.Equal(t, "TURN", TurnGrant{}.Encode())
	require.Equal(t, "QUIT", Quit{}.Encode())
	require.Equal(t, "SHUTDOWN", Shutdown{}.Encode())
}
