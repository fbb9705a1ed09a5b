package auth

import (
	"encoding/json"
	"fmt"
)

// ClientContext represents the context of an API client in the database.
// This model persists client information and associated metadata.
type ClientContext struct {
	ClientID      string          `gorm:"type:varchar(100);column:client_id;primaryKey;not null" json:"client_id"`
	ClientContext json.RawMessage `gorm:"type:jsonb;column:client_context;serializer:json;not null" json:"client_context"`
}

// TableName specifies the database table name for ClientContext
func (c *ClientContext) TableName() string {
	return "client_contexts"
}

// AuthContext represents the authentication context available in a request.
// This is a transient context that is injected into the request by the auth
// middleware. It contains client information retrieved from the database
// based on the presented key.
type AuthContext struct {
	*ClientContext
}

// GetClientContextMap returns the client context as a map for convenient access.
// If no context exists, it returns an empty map.
func (ac *AuthContext) GetClientContextMap() (map[string]any, error) {
	contextMap := make(map[string]any)
	if ac == nil || ac.ClientContext == nil || len(ac.ClientContext.ClientContext) == 0 {
		return contextMap, nil
	}

	if err := json.Unmarshal(ac.ClientContext.ClientContext, &contextMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client context: %w", err)
	}

	return contextMap, nil
}
