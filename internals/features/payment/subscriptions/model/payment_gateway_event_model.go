package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GatewayProviderMidtrans = "midtrans"

	GatewayEventReceived  = "received"
	GatewayEventProcessed = "processed"
	GatewayEventIgnored   = "ignored"
	GatewayEventFailed    = "failed"
)

/*
payment_gateway_events = log webhook dari payment gateway.
Bisa banyak row per order (tiap callback).
*/
type PaymentGatewayEvent struct {
	GatewayEventID             uuid.UUID  `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`
	GatewayEventSubscriptionID *uuid.UUID `gorm:"column:gateway_event_subscription_id;type:uuid;index" json:"gateway_event_subscription_id,omitempty"`

	GatewayEventProvider          string  `gorm:"column:gateway_event_provider;type:varchar(30);not null" json:"gateway_event_provider"`
	GatewayEventOrderID           string  `gorm:"column:gateway_event_order_id;type:varchar(100);not null;index" json:"gateway_event_order_id"`
	GatewayEventTransactionStatus string  `gorm:"column:gateway_event_transaction_status;type:varchar(40)" json:"gateway_event_transaction_status"`
	GatewayEventSignature         *string `gorm:"column:gateway_event_signature" json:"gateway_event_signature,omitempty"`

	GatewayEventPayload datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`

	GatewayEventStatus      string     `gorm:"column:gateway_event_status;type:varchar(20);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError       *string    `gorm:"column:gateway_event_error" json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }
