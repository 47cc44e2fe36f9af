package identity_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identity "github.com/moodymap/go-identity"
)

// MockRoleProvider implements identity.RoleProvider
type MockRoleProvider struct {
	mock.Mock
}

func (m *MockRoleProvider) GetRoleByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if role, ok := args.Get(0).(*identity.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleProvider) GetRoleByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	if role, ok := args.Get(0).(*identity.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockExternalVerifier implements identity.ExternalVerifier
type MockExternalVerifier struct {
	mock.Mock
}

func (m *MockExternalVerifier) Verify(ctx context.Context, token string) (*identity.ExternalProfile, error) {
	args := m.Called(ctx, token)
	if profile, ok := args.Get(0).(*identity.ExternalProfile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

// capturingMailer records every hand-off instead of delivering.
type capturingMailer struct {
	to       []string
	subjects []string
	bodies   []string
}

func (m *capturingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

// capturingSink records activity events for assertions.
type capturingSink struct {
	events []identity.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event identity.ActivityEvent) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) has(eventType identity.ActivityEventType) bool {
	for _, event := range c.events {
		if event.EventType == eventType {
			return true
		}
	}
	return false
}
