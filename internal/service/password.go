package service

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashPassword genera un hash bcrypt con salt aleatorio.
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// CheckPassword verifica un password contra su hash almacenado.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
