package services

import "errors"

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrDuplicateUsername = errors.New("Nome de usuário já existe")
	ErrPasswordMismatch  = errors.New("password mismatch")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrWrongPassword     = errors.New("wrong current password")

	// ErrAuthFailed is returned for an unknown user and for a wrong password alike.
	ErrAuthFailed = errors.New("Usuário ou senha incorretos")

	ErrForbidden    = errors.New("Acesso negado. Apenas administradores podem gerenciar usuários.")
	ErrNotLoggedIn  = errors.New("Erro: Usuário não encontrado")
	ErrUserNotFound = errors.New("Erro: Usuário não encontrado na base de dados")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ValidationError carries the message shown to the user when input fails a
// rule. It matches ErrValidation and, when set, the rule's own sentinel.
type ValidationError struct {
	Message string
	rule    error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.rule == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.rule}
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func invalidRule(rule error, msg string) error {
	return &ValidationError{Message: msg, rule: rule}
}
