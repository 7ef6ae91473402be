package validation

import (
	"time"

	"github.com/google/uuid"
)

// Context carries the tenant and actor identity every semantic validation
// requires. A missing tenant id is itself a validation failure.
type Context struct {
	TenantID      string    `json:"tenant_id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id,omitempty"`
	CorrelationID string    `json:"correlation_id"`
	ActorID       string    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewContext stamps a fresh validation context with a correlation id and
// timestamp.
func NewContext(tenantID, actorID, entityType string) Context {
	return Context{
		TenantID:      tenantID,
		ActorID:       actorID,
		EntityType:    entityType,
		CorrelationID: uuid.NewString(),
		OccurredAt:    time.Now().UTC(),
	}
}

// WithEntity returns a copy of the context bound to a concrete entity id.
func (c Context) WithEntity(entityID string) Context {
	c.EntityID = entityID
	return c
}
