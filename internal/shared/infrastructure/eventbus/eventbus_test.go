package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemodouble/godlife/internal/shared/infrastructure/eventbus"
)

type recordingHandler struct {
	keys     []string
	messages []*eventbus.Message
	err      error
}

func (h *recordingHandler) RoutingKeys() []string {
	return h.keys
}

func (h *recordingHandler) Handle(ctx context.Context, msg *eventbus.Message) error {
	h.messages = append(h.messages, msg)
	return h.err
}

type toggleRequest struct {
	RoutineID string `json:"routine_id"`
}

func TestNewMessage_Decode(t *testing.T) {
	msg, err := eventbus.NewMessage("chat.checkin.toggled", "owner-1", toggleRequest{RoutineID: "r-1"})
	require.NoError(t, err)

	assert.Equal(t, "chat.checkin.toggled", msg.RoutingKey)
	assert.Equal(t, "owner-1", msg.OwnerID)
	assert.False(t, msg.SentAt.IsZero())

	var req toggleRequest
	require.NoError(t, msg.Decode(&req))
	assert.Equal(t, "r-1", req.RoutineID)
}

func TestRegistry_Register(t *testing.T) {
	registry := eventbus.NewRegistry(nil)
	registry.Register(&recordingHandler{keys: []string{"chat.report.requested", "chat.settings.changed"}})
	registry.Register(&recordingHandler{keys: []string{"chat.report.requested"}})

	assert.Len(t, registry.Handlers("chat.report.requested"), 2)
	assert.Len(t, registry.Handlers("chat.settings.changed"), 1)
	assert.Empty(t, registry.Handlers("chat.unknown"))
	assert.Equal(t, []string{"chat.report.requested", "chat.settings.changed"}, registry.RoutingKeys())
}

func TestRegistry_DispatchRunsEveryHandler(t *testing.T) {
	registry := eventbus.NewRegistry(nil)
	failing := &recordingHandler{keys: []string{"chat.report.requested"}, err: errors.New("report failed")}
	ok := &recordingHandler{keys: []string{"chat.report.requested"}}
	registry.Register(failing)
	registry.Register(ok)

	msg := &eventbus.Message{RoutingKey: "chat.report.requested"}
	err := registry.Dispatch(context.Background(), msg)

	assert.ErrorContains(t, err, "report failed")
	assert.Len(t, failing.messages, 1)
	assert.Len(t, ok.messages, 1)
}

func TestRegistry_DispatchWithoutHandlers(t *testing.T) {
	registry := eventbus.NewRegistry(nil)
	assert.NoError(t, registry.Dispatch(context.Background(), &eventbus.Message{RoutingKey: "chat.unknown"}))
}

func TestInProcessBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	handler := &recordingHandler{keys: []string{"chat.settings.changed"}}
	bus.Register(handler)

	msg, err := eventbus.NewMessage("", "owner-1", map[string]string{})
	require.NoError(t, err)
	payload, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "chat.settings.changed", payload))
	require.Len(t, handler.messages, 1)
	assert.Equal(t, "chat.settings.changed", handler.messages[0].RoutingKey, "routing key falls back to the publish key")
	assert.Equal(t, msg.ID, handler.messages[0].ID)
}

func TestInProcessBus_PublishSwallowsFailures(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	handler := &recordingHandler{keys: []string{"chat.report.requested"}, err: errors.New("boom")}
	bus.Register(handler)

	assert.NoError(t, bus.Publish(context.Background(), "chat.report.requested", []byte("not json")))
	assert.Empty(t, handler.messages)

	assert.NoError(t, bus.Publish(context.Background(), "chat.report.requested", []byte(`{"owner_id":"owner-1"}`)))
	assert.Len(t, handler.messages, 1)
}

func TestInProcessBus_SendReturnsErrors(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	bus.Register(&recordingHandler{keys: []string{"chat.report.requested"}, err: errors.New("boom")})

	err := bus.Send(context.Background(), &eventbus.Message{RoutingKey: "chat.report.requested"})
	assert.ErrorContains(t, err, "boom")
	assert.NotNil(t, bus.Registry())
	assert.NoError(t, bus.Close())
}

func TestInProcessBus_StartBlocksUntilCancelled(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, bus.Start(ctx), context.Canceled)
}
