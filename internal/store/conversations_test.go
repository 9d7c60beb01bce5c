package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePairSortsAndTrims(t *testing.T) {
	a, b, err := NormalizePair("  zoe ", "amelie")
	require.NoError(t, err)
	assert.Equal(t, "amelie", a)
	assert.Equal(t, "zoe", b)

	// Both orders normalize to the same pair.
	a2, b2, err := NormalizePair("amelie", "zoe")
	require.NoError(t, err)
	assert.Equal(t, a, a2)
	assert.Equal(t, b, b2)
}

func TestNormalizePairRejectsSelf(t *testing.T) {
	_, _, err := NormalizePair("amelie", " amelie ")
	assert.ErrorIs(t, err, ErrSelfConversation)
}

func TestNormalizePairRejectsEmpty(t *testing.T) {
	_, _, err := NormalizePair("", "amelie")
	assert.Error(t, err)

	_, _, err = NormalizePair("amelie", "   ")
	assert.Error(t, err)
}

func TestConversationHasParticipant(t *testing.T) {
	conv := Conversation{ParticipantA: "amelie", ParticipantB: "zoe"}

	assert.True(t, conv.HasParticipant("amelie"))
	assert.True(t, conv.HasParticipant("zoe"))
	assert.False(t, conv.HasParticipant("mallory"))
}
