package util

import (
	"errors"
	"net/mail"
	"strings"
)

// MinPasswordLength es el mínimo aceptado por el proveedor de identidad.
const MinPasswordLength = 6

// ValidateEmail devuelve error para emails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("El email es obligatorio")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("El email no es válido")
	}
	return nil
}

// ValidatePassword verifica los requisitos mínimos de contraseña.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("La contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

// RequireString garantiza un texto no vacío.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("El campo " + field + " es obligatorio")
	}
	return nil
}
