// Package auth проверяет подпись initData из Telegram Mini App.
//
// Схема из документации Bot API: secret = HMAC-SHA256("WebAppData", токен бота),
// подпись = hex(HMAC-SHA256(secret, строка из отсортированных key=value через \n)).
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// WebAppUser — подписанный профиль из поля user.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Verify сверяет подпись initData с токеном бота. Закрыта по умолчанию:
// пустая строка, мусор вместо query, отсутствующий hash — всё "не подлинно",
// без паник и без деталей почему.
func Verify(initData, botToken string) bool {
	if initData == "" {
		return false
	}
	vals, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}
	received := vals.Get("hash")
	if received == "" {
		return false
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vals.Get(k))
	}
	checkString := strings.Join(parts, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	expected := hex.EncodeToString(hmacSHA256(secret, []byte(checkString)))

	return hmac.Equal([]byte(expected), []byte(received))
}

// User возвращает подписанный профиль пользователя или nil,
// если подпись не сошлась или поля user нет.
func User(initData, botToken string) *WebAppUser {
	if !Verify(initData, botToken) {
		return nil
	}
	vals, err := url.ParseQuery(initData)
	if err != nil {
		return nil
	}
	raw := vals.Get("user")
	if raw == "" {
		return nil
	}
	var u WebAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	if u.ID == 0 {
		return nil
	}
	return &u
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
