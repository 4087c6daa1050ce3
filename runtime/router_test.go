package runtime

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/errors"
	"chat-relay/history"
	"chat-relay/mocks"
	"chat-relay/moderation"
	"chat-relay/observability"
)

func newRouterUnderTest(t *testing.T, store history.Store, moderator *moderation.Moderator) (*Router, *Registry) {
	t.Helper()
	registry := NewRegistry()
	router := NewRouter(registry, store, moderator, observability.NewMonitoring(), slog.Default())
	return router, registry
}

func joined(t *testing.T, registry *Registry, name string) *Session {
	t.Helper()
	s := NewSession(name+":1", 8, slog.Default())
	registry.Add(s)
	require.NoError(t, registry.Register(s.ID, name))
	return s
}

func TestRouter_SendGroup_Appends_To_History_After_Fanout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	router, registry := newRouterUnderTest(t, store, nil)

	alice := joined(t, registry, "alice")
	bob := joined(t, registry, "bob")
	registry.Join(alice.ID, "HEIG-VD")
	registry.Join(bob.ID, "HEIG-VD")

	store.EXPECT().Append("HEIG-VD", "alice", "hi").Return(nil).Times(1)

	req.NoError(router.SendGroup(alice, "HEIG-VD", "hi"))
	req.Equal("RECEIVE_GROUP HEIG-VD alice hi", relayed(t, bob))
	requireNoRelay(t, alice)
}

func TestRouter_SendGroup_Swallows_Append_Failures(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	router, registry := newRouterUnderTest(t, store, nil)

	alice := joined(t, registry, "alice")
	bob := joined(t, registry, "bob")
	registry.Join(alice.ID, "HEIG-VD")
	registry.Join(bob.ID, "HEIG-VD")

	store.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("disk full")).Times(1)

	// Delivery already happened; persistence trouble stays server-side.
	req.NoError(router.SendGroup(alice, "HEIG-VD", "hi"))
	req.Equal("RECEIVE_GROUP HEIG-VD alice hi", relayed(t, bob))
}

func TestRouter_SendGroup_Validates_Group_And_Membership(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl) // no Append expected
	router, registry := newRouterUnderTest(t, store, nil)

	alice := joined(t, registry, "alice")

	req.ErrorIs(router.SendGroup(alice, "NOPE", "hi"), errors.ErrInvalidGroup)
	req.ErrorIs(router.SendGroup(alice, "HEIG-VD", "hi"), errors.ErrNotMember)
}

func TestRouter_SendPrivate_Is_Fire_And_Forget(t *testing.T) {
	req := require.New(t)
	router, registry := newRouterUnderTest(t, history.NewFileStore(t.TempDir(), slog.Default()), nil)

	alice := joined(t, registry, "alice")
	bob := joined(t, registry, "bob")

	req.NoError(router.SendPrivate(alice, "bob", "hello"))
	req.Equal("RECEIVE_PRIVATE alice hello", relayed(t, bob))

	// A closed recipient does not fail the sender.
	bob.Close()
	req.NoError(router.SendPrivate(alice, "bob", "still there?"))

	req.ErrorIs(router.SendPrivate(alice, "nobody", "hi"), errors.ErrRecipientNotFound)
}

func TestRouter_Moderation_Censors_Relayed_And_Persisted_Content(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	req.NoError(err)
	router, registry := newRouterUnderTest(t, store, moderator)

	alice := joined(t, registry, "alice")
	bob := joined(t, registry, "bob")
	registry.Join(alice.ID, "SPORT")
	registry.Join(bob.ID, "SPORT")

	store.EXPECT().Append("SPORT", "alice", "the ****** bites").Return(nil).Times(1)

	req.NoError(router.SendGroup(alice, "SPORT", "the badger bites"))
	req.Equal("RECEIVE_GROUP SPORT alice the ****** bites", relayed(t, bob))

	req.NoError(router.SendPrivate(alice, "bob", "badger!"))
	req.Equal("RECEIVE_PRIVATE alice ******!", relayed(t, bob))
}
