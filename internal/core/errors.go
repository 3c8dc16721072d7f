package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the service and the web layer.
var (
	// ErrNotFound means the id is well-formed but no product has it.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidID means the id is not a valid store identifier. It is a
	// client error distinct from ErrNotFound and is rejected before any
	// store lookup.
	ErrInvalidID = errors.New("invalid product id")

	// ErrInvalidCredentials means the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Upload pre-checks, surfaced before any row processing.
	ErrNoFile            = errors.New("no file provided")
	ErrEmptyFilename     = errors.New("empty filename")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field failure of a single validation
// pass. No partial write happens when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a store-level fault, e.g. lost connectivity during
// the importer's bulk write. It is terminal for the request and never
// retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UserMessage is the client-facing rendering of an error: a message in
// the application's wire language plus a stable code for support.
type UserMessage struct {
	Message string
	Code    string
}

// MapError converts an internal error into its user-facing message.
// Technical detail stays in the logs; only storage faults surface their
// cause, and only in the message text.
func MapError(err error) UserMessage {
	var vErr *ValidationError
	var sErr *StorageError

	switch {
	case errors.Is(err, ErrNotFound):
		return UserMessage{Message: "Produto não encontrado", Code: "PRODUCT_NOT_FOUND"}
	case errors.Is(err, ErrInvalidID):
		return UserMessage{Message: "ID do produto inválido", Code: "INVALID_ID"}
	case errors.Is(err, ErrNoFile):
		return UserMessage{Message: "Nenhum arquivo enviado", Code: "NO_FILE"}
	case errors.Is(err, ErrEmptyFilename):
		return UserMessage{Message: "Nenhum arquivo selecionado", Code: "EMPTY_FILENAME"}
	case errors.Is(err, ErrUnsupportedFormat):
		return UserMessage{Message: "Formato de arquivo inválido. Por favor, envie um arquivo .csv", Code: "UNSUPPORTED_FORMAT"}
	case errors.Is(err, ErrInvalidCredentials):
		return UserMessage{Message: "Usuário ou senha inválidos.", Code: "INVALID_CREDENTIALS"}
	case errors.As(err, &vErr):
		return UserMessage{Message: vErr.Error(), Code: "VALIDATION_FAILED"}
	case errors.As(err, &sErr):
		return UserMessage{Message: fmt.Sprintf("Erro ao inserir dados no banco: %v", sErr.Err), Code: "STORAGE_FAULT"}
	default:
		return UserMessage{Message: "Erro interno", Code: "INTERNAL"}
	}
}
