package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequenceFollowsHighestCode(t *testing.T) {
	seq, err := nextSequence("REQ-20260830-", "REQ-20260830-0002")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestNextSequenceNotAffectedByDeletedLowerCodes(t *testing.T) {
	// After REQ-20260830-0001 is deleted, the highest surviving code is
	// still -0002, so the next code must be -0003 rather than reusing
	// -0002 and tripping the unique index.
	seq, err := nextSequence("REQ-20260830-", "REQ-20260830-0002")
	assert.NoError(t, err)
	assert.NotEqual(t, int64(2), seq)
	assert.Equal(t, int64(3), seq)
}

func TestNextSequenceCrossesFourDigitBoundary(t *testing.T) {
	seq, err := nextSequence("REQ-20260830-", "REQ-20260830-9999")
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), seq)
}

func TestNextSequenceRejectsMalformedCode(t *testing.T) {
	_, err := nextSequence("REQ-20260830-", "REQ-20260830-XYZ")
	assert.Error(t, err)
}
