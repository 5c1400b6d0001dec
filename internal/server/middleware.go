package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userIDKey = "userID"

// CORSMiddleware mirrors the browser front end's needs: wildcard-able origin,
// Authorization and Content-Type headers, preflight short-circuit.
func CORSMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves a bearer token into a user id when one is presented.
// Requests without a valid token proceed as anonymous callers; report and
// chat routes accept both.
func OptionalAuth(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if id, err := authSvc.VerifyToken(strings.TrimSpace(token)); err == nil {
				c.Set(userIDKey, id)
			}
		}
		c.Next()
	}
}

// MaxBodySize caps request bodies, multipart uploads included.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// callerID returns the authenticated user id, or nil for anonymous callers.
func callerID(c *gin.Context) *primitive.ObjectID {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(primitive.ObjectID)
	if !ok {
		return nil
	}
	return &id
}
