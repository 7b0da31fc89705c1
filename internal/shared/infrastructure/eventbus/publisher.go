package eventbus

import "context"

// Exchange names shared with the chat transport.
const (
	InboundExchange  = "godlife.inbound"  // chat requests into godlife
	OutboundExchange = "godlife.outbound" // replies and reminders out of godlife
)

// Publisher sends an encoded payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
