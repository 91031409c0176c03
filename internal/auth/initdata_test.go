package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-TOKEN"

// signInitData подписывает параметры так же, как это делает Telegram.
func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+values.Get(k))
	}
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	secret := mac.Sum(nil)

	mac = hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func validInitData(t *testing.T) string {
	t.Helper()
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	v.Set("user", `{"id":42,"first_name":"Иван","last_name":"Петров","username":"ivanp"}`)
	v.Set("hash", signInitData(v, testToken))
	return v.Encode()
}

func TestVerify_Valid(t *testing.T) {
	require.True(t, Verify(validInitData(t), testToken))
}

func TestVerify_WrongSecret(t *testing.T) {
	require.False(t, Verify(validInitData(t), "another:TOKEN"))
}

// Порча любого одного символа payload должна ломать подпись.
func TestVerify_AnySingleCharFlip(t *testing.T) {
	data := validInitData(t)
	for i := 0; i < len(data); i++ {
		mutated := []byte(data)
		if mutated[i] == 'z' {
			mutated[i] = 'y'
		} else {
			mutated[i] = 'z'
		}
		require.False(t, Verify(string(mutated), testToken),
			"flip at position %d must fail verification", i)
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"garbage":      "%zz%%%",
		"no hash":      "auth_date=1700000000&user=%7B%22id%22%3A1%7D",
		"only hash":    "hash=deadbeef",
		"empty hash":   "auth_date=1&hash=",
		"bogus fields": "hash=abc&foo=bar",
	}
	for name, data := range cases {
		require.False(t, Verify(data, testToken), name)
	}
}

func TestUser_Extraction(t *testing.T) {
	u := User(validInitData(t), testToken)
	require.NotNil(t, u)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "ivanp", u.Username)
	require.Equal(t, "Иван", u.FirstName)
}

func TestUser_NilOnBadSignature(t *testing.T) {
	require.Nil(t, User(validInitData(t), "wrong:TOKEN"))
}

func TestUser_NilWithoutUserField(t *testing.T) {
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	v.Set("hash", signInitData(v, testToken))
	require.Nil(t, User(v.Encode(), testToken))
}
