// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

const (
	// MinimumCompressBytes is the UTF-8 byte size at or above which
	// compression is considered for a text payload.
	MinimumCompressBytes = 1024

	// CompressedTextSentinel marks a text value whose payload lives in
	// the companion compressed record.
	CompressedTextSentinel = "__zstd__"
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// EncodeText returns the pair of storage values for a text payload.
//
// Payloads of at least minimumBytes UTF-8 bytes whose compressed form is
// smaller are stored compressed: the returned text value is then
// CompressedTextSentinel and the compressed bytes are non-nil. Smaller
// payloads, and payloads that do not shrink, keep their original text
// value with nil compressed bytes.
func EncodeText(text string, minimumBytes int) (string, []byte, error) {
	if minimumBytes < 0 {
		return "", nil, fmt.Errorf("minimum bytes must be non-negative, got %d", minimumBytes)
	}
	raw := []byte(text)
	if len(raw) < minimumBytes {
		return text, nil, nil
	}
	compressed := zstdEncoder.EncodeAll(raw, make([]byte, 0, len(raw)))
	if len(compressed) >= len(raw) {
		return text, nil, nil
	}
	return CompressedTextSentinel, compressed, nil
}

// DecodeText decodes a possibly-compressed storage pair back into text.
// fieldName identifies the payload in error messages.
//
// Returns ErrCompressionFailed when the sentinel and compressed bytes
// are inconsistent with each other, or when decompression fails.
func DecodeText(textValue string, compressed []byte, fieldName string) (string, error) {
	if compressed == nil {
		if textValue == CompressedTextSentinel {
			return "", fmt.Errorf("%w: sentinel text value for %s present without compressed bytes",
				ErrCompressionFailed, fieldName)
		}
		return textValue, nil
	}
	if textValue != CompressedTextSentinel {
		return "", fmt.Errorf("%w: compressed bytes for %s present without sentinel text value",
			ErrCompressionFailed, fieldName)
	}
	decompressed, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decompress payload for %s: %w", ErrCompressionFailed, fieldName, err)
	}
	if !utf8.Valid(decompressed) {
		return "", fmt.Errorf("%w: payload for %s is not valid UTF-8", ErrCompressionFailed, fieldName)
	}
	return string(decompressed), nil
}
