package flagsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/nido/internal/migrate"
)

// HTTPSource lee la config desde el servicio de flags vía GET JSON.
// Se autentica con un token de servicio HS256 de vida corta, firmado
// con el secreto compartido del servicio.
type HTTPSource struct {
	url      string
	secret   []byte
	issuer   string
	audience string
	client   *http.Client
}

// HTTPConfig configuración del source HTTP.
type HTTPConfig struct {
	URL string
	// Secret compartido para firmar el token de servicio (HS256).
	Secret string
	// Issuer del token. Default "nido".
	Issuer string
	// Audience del token. Default "flags".
	Audience string
	// Timeout del request. Default 5s.
	Timeout time.Duration
}

// NewHTTP crea el source HTTP.
func NewHTTP(cfg HTTPConfig) *HTTPSource {
	if cfg.Issuer == "" {
		cfg.Issuer = "nido"
	}
	if cfg.Audience == "" {
		cfg.Audience = "flags"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &HTTPSource{
		url:      cfg.URL,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (migrate.FlagConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return migrate.FlagConfig{}, err
	}
	tok, err := s.serviceToken()
	if err != nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: firmando token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: GET %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: GET %s: status %d", s.url, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return migrate.FlagConfig{}, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return migrate.FlagConfig{}, fmt.Errorf("flagsource: respuesta inválida: %w", err)
	}
	return doc.ToConfig()
}

// serviceToken firma un JWT de servicio de vida corta por request;
// no se cachea, firmar HS256 es barato.
func (s *HTTPSource) serviceToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
