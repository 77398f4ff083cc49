package impl

import (
	"testing"

	"budget/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapPolicy = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func hashCredential(t *testing.T, p *PasswordServiceImpl, password string) *domain.PasswordCredential {
	t.Helper()
	hash, salt, params, algo, ver, err := p.Hash(password)
	require.NoError(t, err)
	return &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}
}

func TestPasswordHashAndVerify(t *testing.T) {
	p := NewPasswordServiceWithParams(1, cheapPolicy)
	cred := hashCredential(t, p, "correct horse")
	assert.Equal(t, "argon2id", cred.Algo)
	assert.Len(t, cred.Salt, 8)
	assert.Len(t, cred.Hash, 16)

	rehash, ok := p.Verify("correct horse", cred)
	assert.True(t, ok)
	assert.False(t, rehash)

	rehash, ok = p.Verify("wrong horse!", cred)
	assert.False(t, ok)
	assert.False(t, rehash)
}

func TestPasswordVerifyRequestsRehashOnPolicyChange(t *testing.T) {
	old := NewPasswordServiceWithParams(1, cheapPolicy)
	cred := hashCredential(t, old, "correct horse")

	stronger := cheapPolicy
	stronger.Time = 2
	for name, p := range map[string]*PasswordServiceImpl{
		"params":  NewPasswordServiceWithParams(1, stronger),
		"version": NewPasswordServiceWithParams(2, cheapPolicy),
	} {
		t.Run(name, func(t *testing.T) {
			rehash, ok := p.Verify("correct horse", cred)
			assert.True(t, ok)
			assert.True(t, rehash)
		})
	}
}

func TestPasswordRejects(t *testing.T) {
	p := NewPasswordServiceWithParams(1, cheapPolicy)

	_, _, _, _, _, err := p.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	_, _, _, _, _, err = p.Hash("seven77")
	assert.ErrorIs(t, err, ErrPasswordLength)

	cred := hashCredential(t, p, "correct horse")
	cred.Algo = "bcrypt"
	_, ok := p.Verify("correct horse", cred)
	assert.False(t, ok)

	cred = hashCredential(t, p, "correct horse")
	cred.ParamsJSON = []byte("{")
	_, ok = p.Verify("correct horse", cred)
	assert.False(t, ok)
}
