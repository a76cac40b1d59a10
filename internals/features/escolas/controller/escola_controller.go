package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/escolas/dto"
	"crescer_backend/internals/features/escolas/model"
	usuarioModel "crescer_backend/internals/features/usuarios/model"
)

// EscolaController é o console do superadmin: provisiona escolas e o
// primeiro admin de cada uma.
type EscolaController struct {
	DB *gorm.DB
}

func NewEscolaController(db *gorm.DB) *EscolaController {
	return &EscolaController{DB: db}
}

var validate = validator.New()

// Create provisiona a escola e o admin inicial na mesma transação.
func (ctrl *EscolaController) Create(c *fiber.Ctx) error {
	var req dto.CriarEscolaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados da escola incompletos ou inválidos")
	}

	var escola model.EscolaModel
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&usuarioModel.UsuarioModel{}).
			Where("usuario_username = ?", req.AdminUsername).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errUsernameEmUso
		}

		escola = model.EscolaModel{EscolaNome: strings.TrimSpace(req.Nome)}
		if err := tx.Create(&escola).Error; err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminSenha), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := usuarioModel.UsuarioModel{
			UsuarioUsername:  strings.TrimSpace(req.AdminUsername),
			UsuarioSenhaHash: string(hash),
			UsuarioRole:      constants.RoleAdmin,
			UsuarioEscolaID:  &escola.EscolaID,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		if errors.Is(err, errUsernameEmUso) {
			return helper.JsonError(c, fiber.StatusConflict, "Username do administrador já está em uso")
		}
		log.Printf("[ERROR] criar escola: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao criar escola")
	}
	return helper.JsonCreated(c, "Escola criada com sucesso", escola)
}

var errUsernameEmUso = errors.New("username em uso")

func (ctrl *EscolaController) List(c *fiber.Ctx) error {
	var escolas []model.EscolaModel
	if err := ctrl.DB.Order("escola_nome ASC").Find(&escolas).Error; err != nil {
		log.Printf("[ERROR] listar escolas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar escolas")
	}
	return helper.JsonOK(c, "ok", escolas)
}

func (ctrl *EscolaController) Update(c *fiber.Ctx) error {
	escolaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.AtualizarEscolaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nome da escola inválido")
	}

	res := ctrl.DB.Model(&model.EscolaModel{}).
		Where("escola_id = ?", escolaID).
		Update("escola_nome", strings.TrimSpace(req.Nome))
	if res.Error != nil {
		log.Printf("[ERROR] atualizar escola: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao atualizar escola")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	return helper.JsonUpdated(c, "Escola atualizada com sucesso", nil)
}

// Delete desativa a escola (soft delete). Os dados ficam no banco para
// auditoria; o tenant deixa de autenticar.
func (ctrl *EscolaController) Delete(c *fiber.Ctx) error {
	escolaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res := ctrl.DB.Where("escola_id = ?", escolaID).Delete(&model.EscolaModel{})
	if res.Error != nil {
		log.Printf("[ERROR] excluir escola: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir escola")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	return helper.JsonDeleted(c, "Escola desativada", nil)
}
