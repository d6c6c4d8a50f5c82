package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/protocol"
)

// ConnectionState tracks per-connection authentication state.
type ConnectionState struct {
	identity      *core.Identity
	authenticated bool
	tokenExpiry   time.Time
}

// IsAuthenticated returns true if the connection has been authenticated and
// its token has not expired.
func (cs *ConnectionState) IsAuthenticated() bool {
	if !cs.authenticated {
		return false
	}
	return cs.tokenExpiry.IsZero() || time.Now().Before(cs.tokenExpiry)
}

// Identity returns the connection's identity, or nil if not authenticated.
func (cs *ConnectionState) Identity() *core.Identity {
	return cs.identity
}

type authResult struct {
	identity  core.Identity
	expiresAt time.Time
	err       error
}

// validateJWT validates an HMAC-signed JWT and extracts identity claims.
func validateJWT(cfg *config.AuthConfig, tokenString string) authResult {
	if cfg == nil || !cfg.Enabled {
		return authResult{err: errors.New("authentication not configured")}
	}

	nameClaim := cfg.NameClaim
	if nameClaim == "" {
		nameClaim = config.DefaultNameClaim
	}
	emailClaim := cfg.EmailClaim
	if emailClaim == "" {
		emailClaim = config.DefaultEmailClaim
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if cfg.JWTSecret == "" {
			return nil, errors.New("no JWT secret configured")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	if err != nil {
		return authResult{err: fmt.Errorf("invalid token: %w", err)}
	}
	if !token.Valid {
		return authResult{err: errors.New("invalid token")}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authResult{err: errors.New("invalid token claims")}
	}

	if cfg.Issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != cfg.Issuer {
			return authResult{err: fmt.Errorf("invalid issuer: expected %s, got %s", cfg.Issuer, issuer)}
		}
	}

	if cfg.Audience != "" {
		audiences, _ := claims.GetAudience()
		if !slices.Contains(audiences, cfg.Audience) {
			return authResult{err: fmt.Errorf("invalid audience: expected %s", cfg.Audience)}
		}
	}

	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return authResult{err: fmt.Errorf("token missing identity claims (%s or %s)", nameClaim, emailClaim)}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return authResult{
		identity:  core.Identity{Name: name, Email: email},
		expiresAt: expiresAt,
	}
}

// isAuthCommand reports whether line starts with the AUTH keyword.
func isAuthCommand(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "AUTH")
}

// parseAuthCommand parses an AUTH command and returns the auth type and token.
// Supported formats:
//   - AUTH JWT <token>
func parseAuthCommand(line string) (authType, token string, err error) {
	if !isAuthCommand(line) {
		return "", "", errors.New("not an AUTH command")
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", errors.New("invalid AUTH command: expected AUTH <type> <credentials>")
	}

	authType = strings.ToUpper(parts[1])
	token = parts[2]

	switch authType {
	case "JWT":
		return authType, token, nil
	default:
		return "", "", fmt.Errorf("unsupported auth type: %s", authType)
	}
}

// handleAuth processes an AUTH command, updating state on success.
func (s *Server) handleAuth(line string, state *ConnectionState) protocol.Response {
	failed := func(err error) protocol.Response {
		resp := protocol.Error(err.Error())
		resp.Type = "auth"
		return resp
	}

	_, token, err := parseAuthCommand(line)
	if err != nil {
		return failed(err)
	}

	result := validateJWT(s.authConfig, token)
	if result.err != nil {
		s.logger.Warn("authentication failed", "error", result.err)
		return failed(result.err)
	}

	state.identity = &result.identity
	state.authenticated = true
	state.tokenExpiry = result.expiresAt

	ar := protocol.AuthResponse{
		Authenticated: true,
		Identity:      result.identity.String(),
	}
	if !result.expiresAt.IsZero() {
		ar.ExpiresIn = int64(time.Until(result.expiresAt).Seconds())
	}

	s.logger.Info("client authenticated", "identity", ar.Identity)
	return protocol.Success("auth", ar)
}
