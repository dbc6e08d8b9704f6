package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// HashToken produce el SHA-256 base64 de un token para usarlo como clave.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyCacheKey arma la clave bajo la que se cachea la verificación de un token.
func VerifyCacheKey(hash string) string {
	return fmt.Sprintf("verify:%s", hash)
}
