package ecpay

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// dotNetEscapes maps Go's query escaping back to .NET's UrlEncode output.
// ECPay hashes the .NET form, where these characters stay literal, a space
// becomes "+", and "~" (which QueryEscape leaves alone) becomes "%7e".
var dotNetEscapes = strings.NewReplacer(
	"%2d", "-",
	"%5f", "_",
	"%2e", ".",
	"%21", "!",
	"%2a", "*",
	"%28", "(",
	"%29", ")",
	"%20", "+",
	"~", "%7e",
)

// CheckMacValue computes the SHA-256 integrity signature over the given
// parameters. The CheckMacValue field itself is excluded; remaining keys are
// sorted ascending, joined as key=value pairs, wrapped with the hash key and
// IV, URL-encoded .NET style, lowercased, hashed, and returned as uppercase
// hex.
func (c *Config) CheckMacValue(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "CheckMacValue" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("HashKey=")
	sb.WriteString(c.HashKey)
	for _, k := range keys {
		sb.WriteByte('&')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString("&HashIV=")
	sb.WriteString(c.HashIV)

	encoded := strings.ToLower(url.QueryEscape(sb.String()))
	encoded = dotNetEscapes.Replace(encoded)

	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Sign adds the CheckMacValue field to the parameter set
func (c *Config) Sign(params map[string]string) map[string]string {
	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["CheckMacValue"] = c.CheckMacValue(params)
	return signed
}

// Verify recomputes the signature over the callback parameters and compares
// it against the CheckMacValue they carry. Comparison is case-sensitive on
// the uppercase hex form.
func (c *Config) Verify(params map[string]string) bool {
	received, ok := params["CheckMacValue"]
	if !ok || received == "" {
		return false
	}
	return c.CheckMacValue(params) == received
}
