package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/usuarios/dto"
	"crescer_backend/internals/features/usuarios/model"
	"crescer_backend/internals/features/usuarios/service"
)

type UsuarioController struct {
	DB *gorm.DB
}

func NewUsuarioController(db *gorm.DB) *UsuarioController {
	return &UsuarioController{DB: db}
}

var validate = validator.New()

// Login autentica e devolve o access token. O token também vai em cookie
// httpOnly para o frontend web.
func (ctrl *UsuarioController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Usuário e senha são obrigatórios")
	}

	usuario, err := service.Autenticar(ctrl.DB, req.Username, req.Senha)
	if err != nil {
		if errors.Is(err, service.ErrCredencialInvalida) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Usuário ou senha inválidos")
		}
		log.Printf("[ERROR] login: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao autenticar")
	}

	token, err := service.GerarAccessToken(usuario)
	if err != nil {
		log.Printf("[ERROR] emitir token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao gerar token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	info := dto.UsuarioInfo{
		UsuarioID: usuario.UsuarioID.String(),
		Username:  usuario.UsuarioUsername,
		Role:      usuario.UsuarioRole,
	}
	if usuario.UsuarioEscolaID != nil {
		s := usuario.UsuarioEscolaID.String()
		info.EscolaID = &s
	}
	return helper.JsonOK(c, "Login realizado com sucesso", dto.LoginResponse{
		AccessToken: token,
		Usuario:     info,
	})
}

// Logout só limpa o cookie; o token segue válido até expirar.
func (ctrl *UsuarioController) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logout realizado", nil)
}

// Me devolve o perfil do usuário autenticado.
func (ctrl *UsuarioController) Me(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	var usuario model.UsuarioModel
	if err := ctrl.DB.Where("usuario_id = ?", escopo.UserID).First(&usuario).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Usuário não encontrado")
	}

	info := dto.UsuarioInfo{
		UsuarioID: usuario.UsuarioID.String(),
		Username:  usuario.UsuarioUsername,
		Role:      usuario.UsuarioRole,
	}
	if usuario.UsuarioEscolaID != nil {
		s := usuario.UsuarioEscolaID.String()
		info.EscolaID = &s
	}
	return helper.JsonOK(c, "ok", info)
}

// TrocarSenha troca a senha do próprio usuário (primeiro acesso do aluno
// promove aluno_pendente a aluno).
func (ctrl *UsuarioController) TrocarSenha(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}
	if escopo.UserID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Sessão inválida")
	}

	var req dto.TrocarSenhaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nova senha deve ter pelo menos 8 caracteres")
	}

	if err := service.TrocarSenha(ctrl.DB, escopo.UserID, req.SenhaAtual, req.NovaSenha); err != nil {
		if errors.Is(err, service.ErrCredencialInvalida) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Senha atual incorreta")
		}
		log.Printf("[ERROR] trocar senha: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao trocar senha")
	}
	return helper.JsonUpdated(c, "Senha alterada com sucesso", nil)
}
