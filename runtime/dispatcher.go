package runtime

import (
	"log/slog"
	"unicode/utf8"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/history"
	"chat-relay/observability"
	"chat-relay/protocol"
)

// Dispatcher interprets inbound lines and drives the per-session protocol
// state machine: a session is UNJOINED until its first successful JOIN and
// JOINED afterwards. Commands that target other users require JOINED;
// LIST_GROUPS and LIST_USERS work in either state.
type Dispatcher struct {
	registry   *Registry
	router     *Router
	store      history.Store
	monitoring *observability.Monitoring
	log        *slog.Logger
}

func NewDispatcher(
	registry *Registry,
	router *Router,
	store history.Store,
	monitoring *observability.Monitoring,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		router:     router,
		store:      store,
		monitoring: monitoring,
		log:        log,
	}
}

// Dispatch processes one inbound line for the session and returns the
// reply line. ok is false when the protocol prescribes silence: unknown
// verbs and arity violations are logged and never answered.
func (d *Dispatcher) Dispatch(sess *Session, line string) (reply string, ok bool) {
	req, err := protocol.ParseRequest(line)
	if err != nil {
		d.monitoring.IncrIgnoredClientLines()
		d.log.Debug("Ignoring invalid client line", "remote", sess.Remote, "err", err)
		return "", false
	}

	switch req.Command {
	case protocol.CmdJoin:
		return d.handleJoin(sess, req)
	case protocol.CmdSendPrivate:
		return d.handleSendPrivate(sess, req)
	case protocol.CmdSendGroup:
		return d.handleSendGroup(sess, req)
	case protocol.CmdParticipate:
		return d.handleParticipate(sess, req)
	case protocol.CmdHistory:
		return d.handleHistory(sess, req)
	case protocol.CmdListGroups:
		return protocol.ListGroupsReply(domain.Groups()), true
	case protocol.CmdListUsers:
		return protocol.ListUsersReply(d.registry.ListNames()), true
	}
	return "", false
}

func (d *Dispatcher) handleJoin(sess *Session, req protocol.Request) (string, bool) {
	if err := d.registry.Register(sess.ID, req.Target); err != nil {
		return d.fail(sess, req.Command, err)
	}
	d.log.Info("Client joined", "name", req.Target, "remote", sess.Remote)
	return protocol.OK(), true
}

func (d *Dispatcher) handleSendPrivate(sess *Session, req protocol.Request) (string, bool) {
	if !sess.Joined() {
		return d.fail(sess, req.Command, errors.ErrSenderUnknown)
	}
	if utf8.RuneCountInString(req.Content) > domain.MaxMessageRunes {
		return d.fail(sess, req.Command, errors.ErrMessageTooLong)
	}
	if err := d.router.SendPrivate(sess, req.Target, req.Content); err != nil {
		return d.fail(sess, req.Command, err)
	}
	return protocol.OK(), true
}

func (d *Dispatcher) handleSendGroup(sess *Session, req protocol.Request) (string, bool) {
	if !sess.Joined() {
		return d.fail(sess, req.Command, errors.ErrSenderUnknown)
	}
	if utf8.RuneCountInString(req.Content) > domain.MaxMessageRunes {
		return d.fail(sess, req.Command, errors.ErrMessageTooLong)
	}
	if err := d.router.SendGroup(sess, req.Target, req.Content); err != nil {
		return d.fail(sess, req.Command, err)
	}
	return protocol.OK(), true
}

func (d *Dispatcher) handleParticipate(sess *Session, req protocol.Request) (string, bool) {
	if !sess.Joined() {
		return d.fail(sess, req.Command, errors.ErrSenderUnknown)
	}
	if !domain.IsValidGroup(req.Target) {
		return d.fail(sess, req.Command, errors.ErrInvalidGroup)
	}
	d.registry.Join(sess.ID, req.Target)
	d.log.Info("Client participates", "name", sess.Name(), "group", req.Target)
	return protocol.OK(), true
}

func (d *Dispatcher) handleHistory(sess *Session, req protocol.Request) (string, bool) {
	if !sess.Joined() {
		return d.fail(sess, req.Command, errors.ErrSenderUnknown)
	}
	if !domain.IsValidGroup(req.Target) {
		return d.fail(sess, req.Command, errors.ErrInvalidGroup)
	}
	if !d.registry.IsMember(sess.ID, req.Target) {
		return d.fail(sess, req.Command, errors.ErrNotMember)
	}

	records, err := d.store.ReadAll(req.Target)
	if err != nil {
		// A broken log is an operator problem, not a client error: reply
		// with an empty history.
		d.log.Error("History read failed", "group", req.Target, "err", err)
		records = nil
	}
	return protocol.HistoryReply(records), true
}

// fail maps a domain error to the command-scoped wire code. An error with
// no code for the command would be a programming error; it is logged and
// answered with silence rather than a bogus integer.
func (d *Dispatcher) fail(sess *Session, cmd protocol.ClientCommand, err error) (string, bool) {
	code, ok := protocol.WireCode(cmd, err)
	if !ok {
		d.log.Error("No wire code for error", "command", cmd, "err", err)
		return "", false
	}
	d.log.Debug("Command rejected",
		"command", cmd, "remote", sess.Remote, "code", code, "err", err)
	return protocol.Error(code), true
}
