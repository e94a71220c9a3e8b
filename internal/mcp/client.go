// ABOUTME: Client routes invocations to connected servers by name.
// ABOUTME: Holds back-references only; server lifecycle stays with the caller.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrServerNotFound indicates the named server is not connected.
var ErrServerNotFound = errors.New("server not found")

// ErrServerNameTaken indicates a different server is already connected under the name.
var ErrServerNameTaken = errors.New("server name already connected")

// Client resolves (server name, capability name) pairs to connected servers
// and delegates invocations. It does not own the servers' lifecycle.
type Client struct {
	logger *slog.Logger

	mu      sync.RWMutex
	servers map[string]*Server
}

// NewClient creates a client with no connected servers.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		logger:  logger.With("component", "mcp", "role", "client"),
		servers: make(map[string]*Server),
	}
}

// Connect adds a server to the connected set. Connecting the same server
// again is a no-op; a different server under an existing name fails with
// ErrServerNameTaken.
func (c *Client) Connect(s *Server) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.servers[s.Name()]; ok {
		if existing == s {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrServerNameTaken, s.Name())
	}
	c.servers[s.Name()] = s
	c.logger.Debug("server connected", "server", s.Name())
	return nil
}

// Disconnect removes a server by name. Unknown names are a no-op.
func (c *Client) Disconnect(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.servers[name]; ok {
		delete(c.servers, name)
		c.logger.Debug("server disconnected", "server", name)
	}
}

// Connected returns the names of all connected servers.
func (c *Client) Connected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	return names
}

// ExecuteTool resolves the server by name and delegates the tool call.
// Invocations are independent: a failure leaves the connected set untouched.
func (c *Client) ExecuteTool(ctx context.Context, serverName, toolName string, params Params) (any, error) {
	server, err := c.resolve(serverName)
	if err != nil {
		return nil, err
	}
	return server.ExecuteTool(ctx, toolName, params)
}

// FetchResource resolves the server by name and delegates the fetch.
func (c *Client) FetchResource(ctx context.Context, serverName, resourceName string) (any, error) {
	server, err := c.resolve(serverName)
	if err != nil {
		return nil, err
	}
	return server.FetchResource(ctx, resourceName)
}

// resolve returns the connected server or ErrServerNotFound.
func (c *Client) resolve(name string) (*Server, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	server, ok := c.servers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	return server, nil
}
