package tinkoff

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Keys holding nested structures or the token itself never take part in signing.
var unsignedKeys = map[string]struct{}{
	"Receipt": {},
	"Shops":   {},
	"DATA":    {},
	"Token":   {},
}

const passwordKey = "Password"

type Signer struct {
	password string
}

func NewSigner(password string) *Signer {
	return &Signer{password: password}
}

// Sign computes the request token: sha256 over values of the sorted
// parameter set with the terminal password mixed in as "Password".
func (s *Signer) Sign(params map[string]any) string {
	signing := make(map[string]string, len(params)+1)
	for key, value := range params {
		if _, skip := unsignedKeys[key]; skip {
			continue
		}
		signing[key] = stringify(value)
	}
	signing[passwordKey] = s.password

	keys := make([]string, 0, len(signing))
	for key := range signing {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(signing[key])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Verify checks a token received from the gateway against the scalar fields it came with.
func (s *Signer) Verify(fields map[string]any, token string) bool {
	if token == "" {
		return false
	}
	expected := s.Sign(fields)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(token))) == 1
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
