package security

import (
	"property-tracker/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost : фиксированная стоимость хэширования паролей
const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", util.LogError("ошибка хэширования пароля", err)
	}
	return string(hash), nil
}

// CheckPassword : сравнивает пароль с хэшем.
// Возвращает false при несовпадении и при некорректном хэше, без паники.
func CheckPassword(password string, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
