package types

// Event is the structured record emitted when the loot box engine performs an
// observable state change. Attributes are flat strings so hosts can forward
// them to logs, chain event streams, or webhooks without further conversion.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
