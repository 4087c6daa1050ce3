package runtime

import (
	"log/slog"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/history"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/protocol"
)

// Router resolves a send target to live sessions and performs delivery.
//
// Delivery is fire-and-forget: once a line is handed to a recipient's
// outbound queue the send counts as successful for the caller, whatever
// happens to the recipient's socket afterwards.
type Router struct {
	registry   *Registry
	store      history.Store
	moderator  *moderation.Moderator // nil when moderation is disabled
	monitoring *observability.Monitoring
	log        *slog.Logger
}

func NewRouter(
	registry *Registry,
	store history.Store,
	moderator *moderation.Moderator,
	monitoring *observability.Monitoring,
	log *slog.Logger,
) *Router {
	return &Router{
		registry:   registry,
		store:      store,
		moderator:  moderator,
		monitoring: monitoring,
		log:        log,
	}
}

// SendPrivate delivers content from sender to the named recipient.
func (r *Router) SendPrivate(sender *Session, recipient, content string) error {
	target := r.registry.FindByName(recipient)
	if target == nil {
		return errors.ErrRecipientNotFound
	}

	msg := domain.PrivateMessage{
		Sender:    sender.Name(),
		Recipient: recipient,
		Content:   r.moderate(content),
	}
	if err := target.Enqueue(protocol.ReceivePrivate(msg.Sender, msg.Content)); err != nil {
		r.log.Debug("Private relay dropped, recipient gone",
			"recipient", recipient, "err", err)
	}
	r.monitoring.IncrPrivateRelayed()
	return nil
}

// SendGroup validates the group and the sender's membership, fans the
// message out to every other current member, then appends it to history.
// A persistence failure is logged and swallowed: the relay already
// happened and must not be failed retroactively.
func (r *Router) SendGroup(sender *Session, group, content string) error {
	if !domain.IsValidGroup(group) {
		return errors.ErrInvalidGroup
	}
	if !r.registry.IsMember(sender.ID, group) {
		return errors.ErrNotMember
	}

	content = r.moderate(content)
	msg := domain.NewGroupMessage(group, sender.Name(), content)
	for _, member := range r.registry.MembersOf(group) {
		if member.ID == sender.ID {
			continue
		}
		if err := member.Enqueue(protocol.ReceiveGroup(msg.Group, msg.Sender, msg.Content)); err != nil {
			r.log.Debug("Group relay dropped, member gone",
				"group", group, "member", member.Name(), "err", err)
		}
	}

	if err := r.store.Append(msg.Group, msg.Sender, msg.Content); err != nil {
		r.monitoring.IncrHistoryAppendFailed()
		r.log.Error("History append failed", "group", group, "err", err)
	}
	r.monitoring.IncrGroupRelayed()
	return nil
}

func (r *Router) moderate(content string) string {
	if r.moderator == nil {
		return content
	}
	sanitized, found := r.moderator.Censor(content)
	if len(found) > 0 {
		r.monitoring.IncrModeratedMessages()
		r.log.Info("Message content censored",
			"patterns", len(found), "lang", moderation.DetectLanguage(content))
	}
	return sanitized
}
