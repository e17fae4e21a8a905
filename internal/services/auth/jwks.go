package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized - missing required permissions")
	ErrJWKSFetch    = errors.New("failed to fetch JWKS")
)

// Permissions understood by the editor API
const (
	PermissionRead  = "masks:read"
	PermissionWrite = "masks:write"
	PermissionAdmin = "masks:admin"
)

// DefaultCacheDuration is how long fetched signing keys are trusted
const DefaultCacheDuration = time.Hour

// Claims represents the bearer JWT claims with custom app_metadata
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`

	AppMetadata AppMetadata `json:"app_metadata"`

	jwt.RegisteredClaims
}

// AppMetadata contains provisioned permissions
type AppMetadata struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

// HasPermission checks if the user has a specific permission
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.AppMetadata.Permissions, permission)
}

// HasAnyPermission checks if the user has any of the specified permissions
func (c *Claims) HasAnyPermission(permissions ...string) bool {
	for _, permission := range permissions {
		if c.HasPermission(permission) {
			return true
		}
	}
	return false
}

// JWK represents a JSON Web Key
type JWK struct {
	Kty string `json:"kty"` // Key type
	Kid string `json:"kid"` // Key ID
	Use string `json:"use"` // Public key use
	Alg string `json:"alg"` // Algorithm
	Crv string `json:"crv"` // Curve (for EC keys)
	X   string `json:"x"`   // X coordinate (for EC keys)
	Y   string `json:"y"`   // Y coordinate (for EC keys)
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Config configures token validation
type Config struct {
	JWKSURL  string
	Issuer   string
	Audience string
	// DevToken, when set, is accepted verbatim and maps to DevClaims.
	DevToken      string
	CacheDuration time.Duration
	HTTPClient    *http.Client
}

// Service validates ES256 bearer tokens against a JWKS endpoint
type Service struct {
	cfg       Config
	client    *http.Client
	logger    *slog.Logger
	keys      map[string]*ecdsa.PublicKey
	keysMutex sync.RWMutex
	lastFetch time.Time
}

// NewService creates an auth service. Keys are fetched up front when a JWKS
// URL is configured; a dev token alone is enough for local use.
func NewService(ctx context.Context, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.JWKSURL == "" && cfg.DevToken == "" {
		return nil, fmt.Errorf("JWKS URL or dev token is required")
	}
	if cfg.CacheDuration <= 0 {
		cfg.CacheDuration = DefaultCacheDuration
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	s := &Service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "auth"),
		keys:   make(map[string]*ecdsa.PublicKey),
	}

	if cfg.JWKSURL != "" {
		if err := s.fetchJWKS(ctx); err != nil {
			return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
		}
	}

	return s, nil
}

// fetchJWKS fetches and parses the JWKS from the URL
func (s *Service) fetchJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.JWKSURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "EC" || jwk.Alg != "ES256" {
			continue
		}
		pubKey, err := parseECKey(jwk)
		if err != nil {
			s.logger.Warn("skipping invalid JWK", "kid", jwk.Kid, "error", err)
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	s.keysMutex.Lock()
	s.keys = keys
	s.lastFetch = time.Now()
	s.keysMutex.Unlock()

	s.logger.Debug("JWKS refreshed", "keys", len(keys))
	return nil
}

// parseECKey converts a JWK to an ECDSA public key
func parseECKey(jwk JWK) (*ecdsa.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode X coordinate: %w", err)
	}

	yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}

// getPublicKey retrieves a public key by kid, refreshing JWKS if necessary
func (s *Service) getPublicKey(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	if s.cfg.JWKSURL == "" {
		return nil, fmt.Errorf("no JWKS configured")
	}

	s.keysMutex.RLock()
	key, exists := s.keys[kid]
	shouldRefresh := time.Since(s.lastFetch) > s.cfg.CacheDuration
	s.keysMutex.RUnlock()

	if !exists || shouldRefresh {
		if err := s.fetchJWKS(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}

		s.keysMutex.RLock()
		key, exists = s.keys[kid]
		s.keysMutex.RUnlock()
	}

	if !exists {
		return nil, fmt.Errorf("key with id %s not found", kid)
	}

	return key, nil
}

// ValidateToken validates a bearer token and returns its claims
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if s.cfg.DevToken != "" &&
		subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.cfg.DevToken)) == 1 {
		return DevClaims(), nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()})}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("no kid found in token header")
		}
		return s.getPublicKey(ctx, kid)
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Only manually provisioned users can use the API
	if !claims.HasAnyPermission(PermissionRead, PermissionWrite, PermissionAdmin) {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// DevClaims returns fixed claims for the development token
func DevClaims() *Claims {
	now := time.Now()
	return &Claims{
		Sub:   "dev-user-001",
		Email: "dev@mask-editor.local",
		Role:  "authenticated",
		AppMetadata: AppMetadata{
			Permissions: []string{PermissionRead, PermissionWrite, PermissionAdmin},
			Role:        "admin",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(365 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

// UserInfo represents public user information
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

// GetUserInfo extracts user info from claims
func GetUserInfo(claims *Claims) *UserInfo {
	return &UserInfo{
		ID:          claims.Sub,
		Email:       claims.Email,
		Permissions: claims.AppMetadata.Permissions,
		Role:        claims.AppMetadata.Role,
	}
}
