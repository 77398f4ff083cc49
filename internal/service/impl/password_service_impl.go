package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"budget/internal/service"

	"golang.org/x/crypto/argon2"
)

const algoArgon2id = "argon2id"

// Argon2Params is the hashing policy. It is stored as JSON next to each hash
// so old credentials verify with the cost they were created with.
type Argon2Params struct {
	Time    uint32 `json:"t"`
	Memory  uint32 `json:"m"` // KiB
	Threads uint8  `json:"p"`
	KeyLen  uint32 `json:"k"`
	SaltLen uint32 `json:"s"`
}

func (p Argon2Params) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

type PasswordServiceImpl struct {
	version int
	policy  Argon2Params
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return NewPasswordServiceWithParams(1, Argon2Params{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	})
}

// NewPasswordServiceWithParams pins the policy and its version. Bump the
// version whenever the policy changes so logins rehash.
func NewPasswordServiceWithParams(version int, policy Argon2Params) *PasswordServiceImpl {
	return &PasswordServiceImpl{version: version, policy: policy}
}

func (p *PasswordServiceImpl) Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error) {
	switch {
	case password == "":
		return nil, nil, nil, "", 0, ErrEmptyPassword
	case len(password) < minPasswordLength:
		return nil, nil, nil, "", 0, ErrPasswordLength
	}
	salt = make([]byte, p.policy.SaltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, "", 0, fmt.Errorf("read salt: %w", err)
	}
	if paramsJSON, err = json.Marshal(p.policy); err != nil {
		return nil, nil, nil, "", 0, err
	}
	return p.policy.derive(password, salt), salt, paramsJSON, algoArgon2id, p.version, nil
}

// Verify checks password against cred. rehashNeeded is only reported for a
// matching password whose stored policy or version is out of date.
func (p *PasswordServiceImpl) Verify(password string, cred service.PasswordCredential) (rehashNeeded bool, ok bool) {
	if cred.GetAlgo() != algoArgon2id {
		return false, false
	}
	var stored Argon2Params
	if err := json.Unmarshal(cred.GetParamsJSON(), &stored); err != nil {
		return false, false
	}
	ok = subtle.ConstantTimeCompare(stored.derive(password, cred.GetSalt()), cred.GetHash()) == 1
	return ok && (stored != p.policy || cred.GetPasswordVer() != p.version), ok
}
