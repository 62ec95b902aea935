package core

import (
	"context"
	"time"
)

// Client external api client. The secret is stored encrypted and is
// decrypted only transiently while verifying a request token.
type Client struct {
	ID              int64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt       time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	ClientID        string        `sql:"size:64;UNIQUE_INDEX:idx_clients_client_id" json:"client_id"`
	Name            string        `sql:"size:64;UNIQUE_INDEX:idx_clients_name" json:"name"`
	SecretEncrypted EncryptedBlob `sql:"EMBEDDED;EMBEDDED_PREFIX:secret_" json:"-"`
}

// ClientStore client store interface
type ClientStore interface {
	Create(ctx context.Context, client *Client) error
	Find(ctx context.Context, clientID string) (*Client, error)
}
