package constants

import "fmt"

const (
	RoleSuperadmin    = "superadmin"
	RoleAdmin         = "admin"
	RoleProfessor     = "professor"
	RoleAluno         = "aluno"
	RoleAlunoPendente = "aluno_pendente"
)

// Template de mensagem de erro por role
const (
	ErrSomenteAdmins     = "❌ Apenas administradores podem acessar %s."
	ErrSomenteSuperadmin = "❌ Apenas o superadmin pode acessar %s."
	ErrSomenteAlunos     = "❌ Apenas alunos podem acessar %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrSomenteAdmins, feature)
}

func RoleErrorSuperadmin(feature string) string {
	return fmt.Sprintf(ErrSomenteSuperadmin, feature)
}

func RoleErrorAluno(feature string) string {
	return fmt.Sprintf(ErrSomenteAlunos, feature)
}

// ==========================
// ✅ Grupos de roles
// ==========================
var (
	TodasRoles = []string{
		RoleSuperadmin,
		RoleAdmin,
		RoleProfessor,
		RoleAluno,
		RoleAlunoPendente,
	}

	AdminEAcima = []string{
		RoleAdmin,
		RoleSuperadmin,
	}

	EquipeEscola = []string{
		RoleProfessor,
		RoleAdmin,
		RoleSuperadmin,
	}

	SomenteSuperadmin = []string{
		RoleSuperadmin,
	}

	SomenteAlunos = []string{
		RoleAluno,
		RoleAlunoPendente,
	}
)
