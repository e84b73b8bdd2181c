package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes bcrypt 只接受不超过 72 字节的输入
const MaxPasswordBytes = 72

// ErrPasswordTooLong 密码超过 MaxPasswordBytes
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// BcryptHasher 单向哈希；Cost 为 0 时使用 bcrypt.DefaultCost
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(pw string) (string, error) {
	if len(pw) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
