package powerschool

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// The portal's login page javascript never submits the raw password.
// It derives two keyed digests from it client-side and submits those
// instead, so logging in over plain HTTP requires reproducing the
// derivation exactly.

// B64MD5 returns the Base64 encoding of the MD5 digest of the
// password with the two trailing padding characters stripped, which is
// the form the login script feeds into the keyed digest. An MD5 digest
// is 16 bytes so its Base64 form always ends in exactly "=="; anything
// else means the derivation no longer matches the portal's script.
func B64MD5(password string) (string, error) {
	sum := md5.Sum([]byte(password))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	if !strings.HasSuffix(encoded, "==") {
		return "", fmt.Errorf("md5 digest encoded to %q, expected two trailing padding characters", encoded)
	}
	return encoded[:len(encoded)-2], nil
}

// HexHmacMD5 returns the lowercase hex HMAC-MD5 digest of input keyed
// by key.
func HexHmacMD5(key, input string) string {
	mac := hmac.New(md5.New, []byte(key))
	mac.Write([]byte(input))
	return hex.EncodeToString(mac.Sum(nil))
}
