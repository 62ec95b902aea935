package request

import (
	"context"

	"cardmarket/core"
)

type key int

const (
	userKey key = iota
	clientKey
)

type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithUser context with user
func (c ContextX) WithUser(user *core.User) context.Context {
	return context.WithValue(c, userKey, user)
}

// GetUser get user from context
func (c ContextX) GetUser() (*core.User, bool) {
	user, ok := c.Value(userKey).(*core.User)
	return user, ok
}

// WithClient context with external client
func (c ContextX) WithClient(client *core.Client) context.Context {
	return context.WithValue(c, clientKey, client)
}

// GetClient get external client from context
func (c ContextX) GetClient() (*core.Client, bool) {
	client, ok := c.Value(clientKey).(*core.Client)
	return client, ok
}
