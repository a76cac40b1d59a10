package auth

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"crescer_backend/internals/configs"
	helper "crescer_backend/internals/helpers"
)

// AuthMiddleware valida o JWT e guarda as claims no contexto da request
// (user_id, user_role, username, escola_id). As claims substituem o antigo
// estado global de sessão: cada componente lê o tenant do request, nunca de
// uma variável de processo.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := helper.GetRawAccessToken(c)
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token de acesso ausente")
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET vazio")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		storeClaimsToLocals(c, claims)
		return c.Next()
	}
}

func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("claim exp ausente")
	}
	expTime := time.Unix(int64(exp), 0)
	if time.Now().After(expTime.Add(leeway)) {
		return fmt.Errorf("token expirado em %s", expTime)
	}
	return nil
}

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if v, ok := claims["user_id"].(string); ok {
		c.Locals("user_id", v)
	}
	if v, ok := claims["role"].(string); ok {
		c.Locals("user_role", v)
	}
	if v, ok := claims["username"].(string); ok {
		c.Locals("username", v)
	}
	// escola_id é opcional: superadmin autentica sem escola.
	if v, ok := claims["escola_id"].(string); ok {
		c.Locals("escola_id", v)
	}
}
