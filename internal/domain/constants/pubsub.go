// Package constants holds identifiers shared between configuration and infrastructure.
package constants

// Pub/Sub providers accepted in pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Attribute keys set on every published order message.
const (
	AttrEventType    = "event_type"
	AttrOrderID      = "order_id"
	AttrRestaurantID = "restaurant_id"
	AttrRequestID    = "request_id"
)
