// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"context"

	"lead_outreach_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Identity represents the operator behind a request. Tokens are issued by an
// external identity provider; this service only reads the verified claims.
type Identity interface {
	// Subject returns the token subject.
	Subject() string
	// Email returns the operator email claim, if present.
	Email() string
	// IsAuthenticated returns true if a verified token was presented.
	IsAuthenticated() bool
}

type identity struct {
	subject       string
	email         string
	authenticated bool
}

func (i *identity) Subject() string       { return i.subject }
func (i *identity) Email() string         { return i.email }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if operator info is not present.
func GetIdentity(c *gin.Context) Identity {
	subject := c.GetString(ContextSubjectKey)
	if subject == "" {
		return &identity{authenticated: false}
	}
	return &identity{
		subject:       subject,
		email:         c.GetString(ContextEmailKey),
		authenticated: true,
	}
}

// RequestContext returns the request context enriched with the operator subject
// so service-level logging can attribute lifecycle changes.
func RequestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if id := GetIdentity(c); id.IsAuthenticated() {
		ctx = context.WithValue(ctx, logger.OperatorKey, id.Subject())
	}
	if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, reqID)
	}
	return ctx
}
