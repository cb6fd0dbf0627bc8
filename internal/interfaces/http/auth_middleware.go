package http

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/auth"
	"github.com/jhoicas/estomatologia-api/internal/application/dto"
)

// Locals key del principal autenticado en Fiber.
const LocalPrincipal = "principal"

// AuthMiddleware acepta la credencial desde Authorization: Bearer, el campo "_token" del
// cuerpo JSON o el parámetro ?token=. Basta con que una de ellas sea válida.
// Si el gate no tiene credenciales configuradas, deja pasar como anónimo.
func AuthMiddleware(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !gate.Enabled() {
			c.Locals(LocalPrincipal, auth.Anonymous)
			return c.Next()
		}
		candidates := credentials(c)
		if len(candidates) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
		}
		for _, cred := range candidates {
			if p, err := gate.Authorize(cred); err == nil {
				c.Locals(LocalPrincipal, p)
				return c.Next()
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
}

// credentials devuelve las credenciales presentes en la petición, en orden de preferencia.
func credentials(c *fiber.Ctx) []string {
	var out []string
	if h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if tk := strings.TrimSpace(parts[1]); tk != "" {
				out = append(out, tk)
			}
		}
	}
	if body := c.Body(); len(body) > 0 && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var b struct {
			Token string `json:"_token"`
		}
		if json.Unmarshal(body, &b) == nil {
			if tk := strings.TrimSpace(b.Token); tk != "" {
				out = append(out, tk)
			}
		}
	}
	if tk := strings.TrimSpace(c.Query("token")); tk != "" {
		out = append(out, tk)
	}
	return out
}

// RequireRole autoriza por rol. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// GetPrincipal devuelve el principal del contexto (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}

// GetRole devuelve el rol del principal, o "" si no hay.
func GetRole(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.Role
	}
	return ""
}
