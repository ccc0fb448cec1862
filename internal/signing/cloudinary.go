// Package signing builds Cloudinary upload signatures.
//
// Cloudinary recomputes the digest on its side from the same parameters, so
// the serialization here must match theirs byte for byte: keys sorted, joined
// as k=v with '&', the API secret appended without a separator, SHA-1, lowercase hex.
package signing

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Params is the signable parameter set. Empty values are skipped.
type Params map[string]string

// UploadParams returns the parameter set signed for a folder upload.
func UploadParams(folder string, timestamp int64) Params {
	p := Params{"timestamp": strconv.FormatInt(timestamp, 10)}
	if folder != "" {
		p["folder"] = folder
	}
	return p
}

// StringToSign serializes p the way Cloudinary does before hashing.
func StringToSign(p Params) string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p[k])
	}
	return b.String()
}

// Sign returns the hex SHA-1 of StringToSign(p) followed by secret.
func Sign(p Params, secret string) string {
	sum := sha1.Sum([]byte(StringToSign(p) + secret))
	return hex.EncodeToString(sum[:])
}
