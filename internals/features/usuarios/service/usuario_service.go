package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crescer_backend/internals/configs"
	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/usuarios/model"
)

var (
	ErrUsernameEmUso      = errors.New("username já está em uso")
	ErrCredencialInvalida = errors.New("usuário ou senha inválidos")
)

// CriarCredencialAluno cria o login do aluno dentro da transação de
// matrícula: username = ra_sef, senha inicial = data de nascimento
// no formato ddmmaaaa, papel aluno_pendente até o primeiro acesso.
func CriarCredencialAluno(tx *gorm.DB, raSef string, nascimento time.Time, alunoID, escolaID uuid.UUID) (*model.UsuarioModel, error) {
	var existente model.UsuarioModel
	err := tx.Where("usuario_username = ?", raSef).First(&existente).Error
	if err == nil {
		return nil, ErrUsernameEmUso
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nascimento.Format("02012006")), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := model.UsuarioModel{
		UsuarioUsername:  raSef,
		UsuarioSenhaHash: string(hash),
		UsuarioRole:      constants.RoleAlunoPendente,
		UsuarioAlunoID:   &alunoID,
		UsuarioEscolaID:  &escolaID,
	}
	if err := tx.Create(&usuario).Error; err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Autenticar valida username/senha e devolve o usuário. Erro de
// credencial é sempre o mesmo, sem distinguir usuário inexistente.
func Autenticar(db *gorm.DB, username, senha string) (*model.UsuarioModel, error) {
	var usuario model.UsuarioModel
	if err := db.Where("usuario_username = ?", username).First(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialInvalida
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usuario.UsuarioSenhaHash), []byte(senha)) != nil {
		return nil, ErrCredencialInvalida
	}
	return &usuario, nil
}

// GerarAccessToken emite o JWT de acesso (2h) com as claims que o
// middleware espera em Locals.
func GerarAccessToken(usuario *model.UsuarioModel) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  usuario.UsuarioID.String(),
		"username": usuario.UsuarioUsername,
		"role":     usuario.UsuarioRole,
		"exp":      time.Now().Add(2 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	if usuario.UsuarioEscolaID != nil {
		claims["escola_id"] = usuario.UsuarioEscolaID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

// TrocarSenha troca a senha e promove aluno_pendente a aluno no primeiro
// acesso bem-sucedido.
func TrocarSenha(db *gorm.DB, usuarioID uuid.UUID, senhaAtual, novaSenha string) error {
	var usuario model.UsuarioModel
	if err := db.Where("usuario_id = ?", usuarioID).First(&usuario).Error; err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(usuario.UsuarioSenhaHash), []byte(senhaAtual)) != nil {
		return ErrCredencialInvalida
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	updates := map[string]any{"usuario_senha_hash": string(hash)}
	if usuario.UsuarioRole == constants.RoleAlunoPendente {
		updates["usuario_role"] = constants.RoleAluno
	}
	return db.Model(&model.UsuarioModel{}).
		Where("usuario_id = ?", usuarioID).
		Updates(updates).Error
}
