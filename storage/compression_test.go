package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeText_RejectsNegativeMinimumBytes(t *testing.T) {
	_, _, err := EncodeText("hello", -1)
	assert.ErrorContains(t, err, "non-negative")
}

func TestEncodeText_SmallPayloadStaysPlain(t *testing.T) {
	textValue, compressed, err := EncodeText("hello", MinimumCompressBytes)
	require.NoError(t, err)
	assert.Equal(t, "hello", textValue)
	assert.Nil(t, compressed)
}

func TestEncodeText_LargePayloadCompresses(t *testing.T) {
	payload := "<TEI>" + strings.Repeat("episode ", 1500) + "</TEI>"

	textValue, compressed, err := EncodeText(payload, MinimumCompressBytes)
	require.NoError(t, err)
	assert.Equal(t, CompressedTextSentinel, textValue)
	require.NotNil(t, compressed)
	assert.Less(t, len(compressed), len(payload))
}

func TestDecodeText_RoundTripsCompressedPayload(t *testing.T) {
	payload := "<TEI>" + strings.Repeat("episode ", 1500) + "</TEI>"
	textValue, compressed, err := EncodeText(payload, 0)
	require.NoError(t, err)
	require.NotNil(t, compressed)

	decoded, err := DecodeText(textValue, compressed, "test.field")
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeText_PlainPayloadPassesThrough(t *testing.T) {
	decoded, err := DecodeText("hello", nil, "test.field")
	require.NoError(t, err)
	assert.Equal(t, "hello", decoded)
}

func TestDecodeText_RejectsSentinelWithoutCompressedBytes(t *testing.T) {
	_, err := DecodeText(CompressedTextSentinel, nil, "test.field")
	require.ErrorIs(t, err, ErrCompressionFailed)
	assert.ErrorContains(t, err, "test.field")
}

func TestDecodeText_RejectsCompressedBytesWithoutSentinel(t *testing.T) {
	_, compressed, err := EncodeText(strings.Repeat("x", 4096), 0)
	require.NoError(t, err)
	require.NotNil(t, compressed)

	_, err = DecodeText("plain", compressed, "test.field")
	require.ErrorIs(t, err, ErrCompressionFailed)
}

func TestDecodeText_RejectsCorruptPayload(t *testing.T) {
	_, err := DecodeText(CompressedTextSentinel, []byte{0x01, 0x02, 0x03}, "test.field")
	require.ErrorIs(t, err, ErrCompressionFailed)
}
