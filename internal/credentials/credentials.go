// Package credentials hashes and verifies user passwords.
//
// Stored credentials are argon2id strings in the PHC format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<key>
//
// Values that do not carry the $argon2id$ prefix are legacy plaintext
// records. They still verify (in constant time) and NeedsRehash reports
// them so callers can upgrade the record after a successful login.
package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const prefix = "$argon2id$"

var ErrInvalidHash = errors.New("invalid argon2id hash")

type params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLen     uint32
	keyLen      uint32
}

// Upper bounds for parameters read from stored hashes.
const (
	maxMemory      = 64 * 1024
	maxIterations  = 10
	maxParallelism = 8
	maxKeyLen      = 64
)

var defaultParams = params{
	memory:      19 * 1024,
	iterations:  2,
	parallelism: 1,
	saltLen:     16,
	keyLen:      32,
}

// Hash returns an argon2id PHC string for password.
func Hash(password string) (string, error) {
	return hashWithParams(password, defaultParams)
}

// MustHash is Hash for seed data; it panics if the system RNG fails.
func MustHash(password string) string {
	h, err := Hash(password)
	if err != nil {
		panic(err)
	}
	return h
}

// Verify reports whether candidate matches stored. A malformed argon2id value
// is an error; an empty stored value never matches.
func Verify(stored, candidate string) (bool, error) {
	if stored == "" {
		return false, nil
	}
	if !IsHashed(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
	}

	p, salt, key, err := parse(stored)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(candidate), salt, p.iterations, p.memory, p.parallelism, p.keyLen)
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

// IsHashed reports whether stored is an argon2id string.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, prefix)
}

// NeedsRehash is true for legacy plaintext values and for hashes made with
// parameters other than the current defaults.
func NeedsRehash(stored string) bool {
	if !IsHashed(stored) {
		return true
	}
	p, _, _, err := parse(stored)
	if err != nil {
		return true
	}
	return p.memory != defaultParams.memory || p.iterations != defaultParams.iterations || p.parallelism != defaultParams.parallelism
}

func hashWithParams(password string, p params) (string, error) {
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		prefix,
		argon2.Version,
		p.memory,
		p.iterations,
		p.parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func parse(hash string) (params, []byte, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return params{}, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	var p params
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return params{}, nil, nil, fmt.Errorf("%w: bad parameter %q", ErrInvalidHash, kv)
		}
		switch k {
		case "m", "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return params{}, nil, nil, fmt.Errorf("%w: bad %s", ErrInvalidHash, k)
			}
			if k == "m" {
				p.memory = uint32(n)
			} else {
				p.iterations = uint32(n)
			}
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				return params{}, nil, nil, fmt.Errorf("%w: bad p", ErrInvalidHash)
			}
			p.parallelism = uint8(n)
		default:
			return params{}, nil, nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidHash, k)
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params{}, nil, nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params{}, nil, nil, fmt.Errorf("%w: key", ErrInvalidHash)
	}
	if len(salt) == 0 || len(key) == 0 || p.iterations == 0 || p.parallelism == 0 {
		return params{}, nil, nil, ErrInvalidHash
	}
	if p.memory > maxMemory || p.iterations > maxIterations || p.parallelism > maxParallelism || len(key) > maxKeyLen {
		return params{}, nil, nil, fmt.Errorf("%w: parameters out of range", ErrInvalidHash)
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}
