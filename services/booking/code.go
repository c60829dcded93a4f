package booking

import (
	"context"
	"fmt"
	"math/rand"
)

const (
	codePrefix  = "BK"
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 8
	codeRetries = 5
)

// CodeChecker reports whether a booking code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator produces unique human-shareable booking codes of the form
// "BK" followed by eight uppercase alphanumerics.
type CodeGenerator struct {
	checker CodeChecker
}

// NewCodeGenerator constructs a generator backed by the given checker.
func NewCodeGenerator(checker CodeChecker) *CodeGenerator {
	return &CodeGenerator{checker: checker}
}

// Generate returns a fresh booking code, regenerating on collision. The
// bookings collection carries a unique index on booking_code, so even a code
// that races past this check fails at insert rather than duplicating.
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeRetries; attempt++ {
		code := randomCode()
		exists, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("error checking booking code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique booking code after %d attempts", codeRetries)
}

func randomCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return codePrefix + string(buf)
}
