package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Senha    string `json:"senha" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	Usuario     UsuarioInfo `json:"usuario"`
}

type UsuarioInfo struct {
	UsuarioID string  `json:"usuario_id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	EscolaID  *string `json:"escola_id,omitempty"`
}

type TrocarSenhaRequest struct {
	SenhaAtual string `json:"senha_atual" validate:"required"`
	NovaSenha  string `json:"nova_senha" validate:"required,min=8"`
}
