package protocol

import (
	stderrors "errors"

	"chat-relay/errors"
)

// Wire error codes are small integers scoped to the command that produced
// them: the same integer means different things for JOIN and SEND_GROUP.
// This table is the single source of truth for both directions: the
// server serializes domain errors through WireCode, the client translates
// received codes through Describe.
type codeMapping struct {
	command ClientCommand
	code    int
	err     error
	message string
}

var codeTable = []codeMapping{
	{CmdJoin, 1, errors.ErrNameTaken, "The username is already in use."},

	{CmdSendPrivate, 1, errors.ErrRecipientNotFound, "The recipient is not connected."},
	{CmdSendPrivate, 2, errors.ErrMessageTooLong, "The message exceeds 100 characters."},
	{CmdSendPrivate, 3, errors.ErrSenderUnknown, "The client has not connected to the server using `JOIN`."},

	{CmdSendGroup, 1, errors.ErrInvalidGroup, "The specified group does not exist."},
	{CmdSendGroup, 2, errors.ErrMessageTooLong, "The message exceeds 100 characters."},
	{CmdSendGroup, 3, errors.ErrSenderUnknown, "The client has not connected to the server using `JOIN`."},
	{CmdSendGroup, 4, errors.ErrNotMember, "The client is not a participant in the specified group."},

	{CmdParticipate, 1, errors.ErrInvalidGroup, "The specified group does not exist."},
	{CmdParticipate, 2, errors.ErrSenderUnknown, "The client has not connected to the server using `JOIN`."},

	{CmdHistory, 1, errors.ErrNotMember, "The client is not a member of the specified group."},
	{CmdHistory, 2, errors.ErrSenderUnknown, "The client has not connected to the server using `JOIN`."},
	{CmdHistory, 3, errors.ErrInvalidGroup, "The specified group does not exist."},
}

// WireCode resolves a domain error to the integer transmitted in an
// ERROR reply for the given command. The second return is false when the
// error has no code for that command.
func WireCode(cmd ClientCommand, err error) (int, bool) {
	for _, m := range codeTable {
		if m.command == cmd && stderrors.Is(err, m.err) {
			return m.code, true
		}
	}
	return 0, false
}

// Describe translates a received wire code back into a human readable
// message, given the last command the client sent.
func Describe(cmd ClientCommand, code int) (string, bool) {
	for _, m := range codeTable {
		if m.command == cmd && m.code == code {
			return m.message, true
		}
	}
	return "", false
}
