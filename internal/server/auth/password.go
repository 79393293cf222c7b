package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/avoronova/postboard-auth/internal/common"
)

// argon2id parameters. These match the interactive-login profile from the
// argon2 docs; the salt and the parameters travel inside the encoded hash, so
// changing them only affects newly hashed passwords.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16

	// Upper bound accepted when decoding stored hashes, so a corrupted or
	// hostile row cannot make verification allocate gigabytes.
	maxArgonMemory = 1 << 21
)

// HashPassword hashes a plaintext password with argon2id and a fresh random
// salt, returning the standard PHC-formatted string
// "$argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>".
func HashPassword(password string) (string, error) {
	salt, err := common.GenerateRandByteArray(argonSaltLen)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return encoded, nil
}

// VerifyPassword reports whether encoded was produced from password. The
// comparison is constant-time over the derived keys. A malformed encoded
// string verifies as false; storage corruption is for the caller to log, not
// something this function can distinguish from a forged hash.
func VerifyPassword(password, encoded string) bool {
	salt, key, time, memory, threads, err := decodeHash(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeHash(encoded string) (salt, key []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	// argon2.IDKey panics on zero rounds or threads, and a zero-length key
	// would make the constant-time compare accept any password. A corrupted
	// row must verify as false, so reject such parameters here.
	if time < 1 || threads < 1 {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2id parameters t=%d,p=%d", time, threads)
	}
	if memory < 8*uint32(threads) || memory > maxArgonMemory {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2id memory parameter m=%d", memory)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if len(key) == 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("empty argon2id hash segment")
	}

	return salt, key, time, memory, threads, nil
}
