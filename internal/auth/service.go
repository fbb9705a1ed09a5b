package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AuthService provides business logic for authentication and client context
// operations. It handles database interactions for client-related data.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db: db,
	}
}

// GetClientContext retrieves the client context from the database for a given
// client ID. Returns gorm.ErrRecordNotFound if the client is unknown.
func (as *AuthService) GetClientContext(clientID string) (*ClientContext, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client ID is empty")
	}

	var clientCtx ClientContext
	result := as.db.Where("client_id = ?", clientID).First(&clientCtx)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("client context not found", "client_id", clientID)
			return nil, result.Error
		}
		slog.Error("failed to fetch client context from database",
			"client_id", clientID,
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch client context: %w", result.Error)
	}

	return &clientCtx, nil
}

// UpsertClientContext creates or updates the client context.
// If the client doesn't exist, it will be created with the provided context.
// If it exists, the context will be updated.
//
// This is useful for provisioning clients.
func (as *AuthService) UpsertClientContext(clientID string, context json.RawMessage) error {
	if clientID == "" {
		return fmt.Errorf("client ID is empty")
	}

	if len(context) == 0 {
		return fmt.Errorf("client context is empty")
	}

	// Validate JSON format
	var jsonData interface{}
	if err := json.Unmarshal(context, &jsonData); err != nil {
		return fmt.Errorf("invalid JSON in client context: %w", err)
	}

	result := as.db.Save(&ClientContext{
		ClientID:      clientID,
		ClientContext: context,
	})

	if result.Error != nil {
		slog.Error("failed to upsert client context",
			"client_id", clientID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to upsert client context: %w", result.Error)
	}

	slog.Debug("client context upserted successfully",
		"client_id", clientID,
	)

	return nil
}
