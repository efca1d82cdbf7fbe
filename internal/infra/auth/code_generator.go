package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"blogsphere/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

type randomCodeGenerator struct{}

// NewCodeGenerator returns a generator backed by crypto/rand.
func NewCodeGenerator() service.CodeGenerator {
	return &randomCodeGenerator{}
}

// Generate draws a uniform code from [100000, 999999].
func (g *randomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", errors.Wrap(err, "read random code")
	}

	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
