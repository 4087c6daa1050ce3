// Package protocol defines the wire vocabulary of the chat relay: client
// command verbs, server reply verbs, line parsing, reply formatting, and
// the per-command error code table shared by server and client.
package protocol

import (
	"fmt"
	"strings"

	"chat-relay/errors"
)

// ClientCommand is an uppercase verb sent by a client.
type ClientCommand string

const (
	CmdJoin        ClientCommand = "JOIN"
	CmdSendPrivate ClientCommand = "SEND_PRIVATE"
	CmdSendGroup   ClientCommand = "SEND_GROUP"
	CmdParticipate ClientCommand = "PARTICIPATE"
	CmdHistory     ClientCommand = "HISTORY"
	CmdListGroups  ClientCommand = "LIST_GROUPS"
	CmdListUsers   ClientCommand = "LIST_USERS"
)

// ServerVerb is an uppercase verb sent by the server.
type ServerVerb string

const (
	VerbOK             ServerVerb = "OK"
	VerbError          ServerVerb = "ERROR"
	VerbReceivePrivate ServerVerb = "RECEIVE_PRIVATE"
	VerbReceiveGroup   ServerVerb = "RECEIVE_GROUP"
	VerbHistory        ServerVerb = "HISTORY"
	VerbListGroups     ServerVerb = "LIST_GROUPS"
	VerbListUsers      ServerVerb = "LIST_USERS"
)

// Request is one parsed client line.
//
// Target holds the recipient, group, or chosen name depending on the
// command. Content holds the free-form trailing text of SEND_PRIVATE and
// SEND_GROUP, which may itself contain spaces.
type Request struct {
	Command ClientCommand
	Target  string
	Content string
}

// ParseRequest splits a line on the first space into <command> <rest> and
// validates argument arity for the recognized verbs.
//
// An unknown verb yields errors.ErrUnknownCommand, a recognized verb with
// missing arguments yields errors.ErrMalformedCommand. Per protocol both
// conditions are logged by the caller and answered with silence.
func ParseRequest(line string) (Request, error) {
	verb, rest, hasRest := strings.Cut(line, " ")

	cmd := ClientCommand(verb)
	switch cmd {
	case CmdListGroups, CmdListUsers:
		// Anything after the verb is ignored, as the reference server does.
		return Request{Command: cmd}, nil

	case CmdJoin, CmdParticipate, CmdHistory:
		if !hasRest || rest == "" {
			return Request{}, fmt.Errorf("%s: %w", cmd, errors.ErrMalformedCommand)
		}
		return Request{Command: cmd, Target: rest}, nil

	case CmdSendPrivate, CmdSendGroup:
		target, content, hasContent := strings.Cut(rest, " ")
		if !hasRest || target == "" || !hasContent {
			return Request{}, fmt.Errorf("%s: %w", cmd, errors.ErrMalformedCommand)
		}
		return Request{Command: cmd, Target: target, Content: content}, nil

	default:
		return Request{}, fmt.Errorf("%q: %w", verb, errors.ErrUnknownCommand)
	}
}

// OK formats the success reply.
func OK() string {
	return string(VerbOK)
}

// Error formats an ERROR reply for a wire code.
func Error(code int) string {
	return fmt.Sprintf("%s %d", VerbError, code)
}

// ReceivePrivate formats the unsolicited line pushed to the recipient of a
// direct message.
func ReceivePrivate(sender, content string) string {
	return fmt.Sprintf("%s %s %s", VerbReceivePrivate, sender, content)
}

// ReceiveGroup formats the unsolicited line pushed to group members.
func ReceiveGroup(group, sender, content string) string {
	return fmt.Sprintf("%s %s %s %s", VerbReceiveGroup, group, sender, content)
}

// HistoryReply joins history records with "|". A record containing "|"
// corrupts the boundaries on the client side; the protocol defines no
// escaping and this implementation does not invent one.
func HistoryReply(records []string) string {
	return fmt.Sprintf("%s %s", VerbHistory, strings.Join(records, "|"))
}

// ListGroupsReply formats the fixed group directory.
func ListGroupsReply(names []string) string {
	return fmt.Sprintf("%s %s", VerbListGroups, strings.Join(names, " "))
}

// ListUsersReply formats the current display names.
func ListUsersReply(names []string) string {
	return fmt.Sprintf("%s %s", VerbListUsers, strings.Join(names, " "))
}
