package auth

import fbauth "firebase.google.com/go/v4/auth"

// MessageFor maps an authentication failure to the pt-BR message rendered by
// the frontend. Unknown failures get a generic message so token internals
// never leak to the client.
func MessageFor(err error) string {
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return "Este e-mail já está cadastrado"
	case fbauth.IsUserNotFound(err):
		return "Usuário não encontrado"
	case fbauth.IsIDTokenExpired(err):
		return "Sessão expirada. Faça login novamente."
	default:
		return "Falha na autenticação. Tente novamente."
	}
}
