// Package attestation issues the transaction identifiers recorded when a
// proposal is submitted.
package attestation

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
)

// TxIDPrefix marks identifiers issued by the mock ledger
const TxIDPrefix = "ALGO"

// txIDSuffixLen is the number of characters after the prefix
const txIDSuffixLen = 13

const txIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Bytes at or above this are rejected so every symbol is equally likely
const maxUnbiasedByte = 256 - 256%len(txIDAlphabet)

// Issuer records a submission on an external ledger and returns its transaction id
type Issuer interface {
	Issue(ctx context.Context, proposalID string) (string, error)
}

// MockIssuer fabricates ledger transaction ids without any network call
type MockIssuer struct {
	random io.Reader
}

// NewMockIssuer creates a MockIssuer drawing from crypto/rand
func NewMockIssuer() *MockIssuer {
	return &MockIssuer{random: rand.Reader}
}

// Issue returns "ALGO" followed by 13 random characters from [0-9A-Z]
func (m *MockIssuer) Issue(ctx context.Context, proposalID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	suffix := make([]byte, 0, txIDSuffixLen)
	buf := make([]byte, txIDSuffixLen*2)
	for len(suffix) < txIDSuffixLen {
		if _, err := io.ReadFull(m.random, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			suffix = append(suffix, txIDAlphabet[int(b)%len(txIDAlphabet)])
			if len(suffix) == txIDSuffixLen {
				break
			}
		}
	}
	return TxIDPrefix + string(suffix), nil
}
