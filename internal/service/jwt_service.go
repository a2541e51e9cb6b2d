package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName es el nombre de la cookie que transporta el token de sesion.
const SessionCookieName = "jwt"

const sessionTTL = 7 * 24 * time.Hour

// JWTService emite y valida tokens de sesion firmados.
type JWTService struct {
	secret       []byte
	ttl          time.Duration
	issuer       string
	secureCookie bool
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// NewJWTService crea el servicio de tokens. secureCookie debe ser false solo
// en desarrollo local, donde no hay HTTPS.
func NewJWTService(secret string, secureCookie bool) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		ttl:          sessionTTL,
		issuer:       "chatly",
		secureCookie: secureCookie,
	}
}

// Issue firma un token de sesion de 7 dias para el usuario dado.
func (s *JWTService) Issue(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	if strings.TrimSpace(userID) == "" {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida el token y devuelve el id de usuario embebido.
func (s *JWTService) Parse(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrJWTInvalid
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrJWTExpired
		}
		return "", ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return "", ErrJWTInvalid
	}
	return claims.UserID, nil
}

// SessionCookie construye la cookie de sesion con el token emitido.
// HttpOnly y SameSite=Strict siempre; Secure salvo en desarrollo.
func (s *JWTService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredCookie construye la cookie vacia que borra la sesion en el cliente.
// El token emitido sigue siendo valido hasta su expiracion natural: no hay
// revocacion del lado del servidor, cambiar el secreto es el kill switch.
func (s *JWTService) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return claims.Issuer == s.issuer
}
