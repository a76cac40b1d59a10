package dto

type CriarEscolaRequest struct {
	Nome string `json:"nome" validate:"required,min=3,max=120"`

	// Credencial do primeiro administrador da escola.
	AdminUsername string `json:"admin_username" validate:"required,min=3,max=50"`
	AdminSenha    string `json:"admin_senha" validate:"required,min=8"`
}

type AtualizarEscolaRequest struct {
	Nome string `json:"nome" validate:"required,min=3,max=120"`
}
