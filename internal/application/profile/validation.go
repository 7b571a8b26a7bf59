package profile

import (
	"regexp"
	"strings"
)

// Campos validados.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate revisa nombre y email y devuelve los errores por campo (vacío = válido).
func Validate(name, email string) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		errs[FieldName] = "el nombre es requerido"
	}
	switch trimmed := strings.TrimSpace(email); {
	case trimmed == "":
		errs[FieldEmail] = "el email es requerido"
	case !emailPattern.MatchString(trimmed):
		errs[FieldEmail] = "ingrese un email válido"
	}
	return errs
}
