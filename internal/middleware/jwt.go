package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// issued by the external identity provider and injects the token's subject
// and role claims into the request context.  The provided secret must match
// the provider's signing secret.  Handlers behind this middleware trust the
// resolved user id via `c.Get("user_id")` and the role via `c.Get("role")`;
// the core services never see the raw credential.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid Authorization header starts with "Bearer " followed
            // by the JWT.  Anything else is rejected outright.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 only; a token signed with any other method
            // is rejected even if its signature would verify.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
            }
            sub, ok := claims["sub"].(string)
            if !ok || sub == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid subject"})
            }

            // Store the subject (user id) and role claims for handlers and
            // downstream middleware.  Role may be absent for regular users.
            c.Set("user_id", sub)
            if role, ok := claims["role"].(string); ok {
                c.Set("role", role)
            }
            return next(c)
        }
    }
}

// UserID extracts the authenticated user id stored by JWTAuth.  The
// boolean is false when the request is unauthenticated.
func UserID(c echo.Context) (string, bool) {
    id, ok := c.Get("user_id").(string)
    return id, ok && id != ""
}
