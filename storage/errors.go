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
	"errors"
	"fmt"

	"github.com/poiesic/canonica/core"
)

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrTransactionFailed indicates that a transaction failed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery indicates invalid query parameters.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")

	// ErrCompressionFailed indicates a payload compression/decompression failure.
	ErrCompressionFailed = errors.New("compression failed")

	// ErrIntegrity indicates an integrity constraint violation detected
	// while flushing a unit of work. The more specific sentinels below
	// all match ErrIntegrity under errors.Is.
	ErrIntegrity = errors.New("integrity violation")

	// ErrDuplicateSlug indicates that a staged series profile carries a
	// slug already held by another profile.
	ErrDuplicateSlug = fmt.Errorf("%w: duplicate series slug", ErrIntegrity)

	// ErrForeignKeyAbsent indicates that a staged entity references a
	// record that exists neither in storage nor earlier in the same
	// unit of work.
	ErrForeignKeyAbsent = fmt.Errorf("%w: referenced record absent", ErrIntegrity)

	// ErrWeightCheckFailed indicates that a staged source document
	// carries a weight outside [0, 1].
	ErrWeightCheckFailed = fmt.Errorf("%w: %w", ErrIntegrity, core.ErrWeightOutOfRange)
)
