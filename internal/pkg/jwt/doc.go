// Package jwt issues and verifies the HS512 access tokens handed out after a
// successful login verification, and carries verified claims through the request context.
package jwt
