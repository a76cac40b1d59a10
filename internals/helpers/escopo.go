package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
)

// Escopo carrega o contexto de tenant resolvido a partir das claims do token.
// Bypass só é verdadeiro para o superadmin (console cross-tenant); todo query
// builder deve passar por Filtrar antes de tocar o banco.
type Escopo struct {
	EscolaID uuid.UUID
	Role     string
	UserID   uuid.UUID
	Username string
	Bypass   bool
}

func uuidFromLocals(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	v := c.Locals(key)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// EscopoDoToken monta o Escopo do request. Sem escola resolvível (e sem role
// de bypass) recusa antes de qualquer acesso ao Ledger.
func EscopoDoToken(c *fiber.Ctx) (Escopo, error) {
	role, _ := c.Locals("user_role").(string)
	username, _ := c.Locals("username").(string)

	e := Escopo{
		Role:     role,
		Username: username,
		Bypass:   role == constants.RoleSuperadmin,
	}
	if id, ok := uuidFromLocals(c, "user_id"); ok {
		e.UserID = id
	}
	if id, ok := uuidFromLocals(c, "escola_id"); ok {
		e.EscolaID = id
	}

	if !e.Bypass && e.EscolaID == uuid.Nil {
		return Escopo{}, fiber.NewError(fiber.StatusForbidden,
			"Acesso negado. Usuário não associado a uma escola.")
	}
	return e, nil
}

// EscopoAdmin é igual ao EscopoDoToken mas exige escola mesmo para superadmin
// (operações de escrita sempre acontecem dentro de uma escola).
func EscopoAdmin(c *fiber.Ctx) (Escopo, error) {
	e, err := EscopoDoToken(c)
	if err != nil {
		return Escopo{}, err
	}
	if e.EscolaID == uuid.Nil {
		return Escopo{}, fiber.NewError(fiber.StatusForbidden,
			"Apenas administradores de uma escola podem executar esta operação.")
	}
	return e, nil
}

// Filtrar aplica o WHERE de tenant, exceto em bypass.
func (e Escopo) Filtrar(q *gorm.DB, coluna string) *gorm.DB {
	if e.Bypass {
		return q
	}
	return q.Where(coluna+" = ?", e.EscolaID)
}
