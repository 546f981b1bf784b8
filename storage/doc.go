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


// Package storage provides the storage abstraction layer for canonica.
//
// This package defines repository and unit-of-work interfaces that decouple
// storage implementation from ingestion logic. It allows for different
// storage backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Interface Boundary
//
// Everything above the storage layer depends only on the interfaces defined
// here; the BadgerDB types never leak upward. The badger package bundles its
// implementations behind interface-typed fields:
//
//	repos, err := badger.NewRepositories(path)
//	episode, err := repos.Episodes.GetCanonicalEpisode(ctx, id)
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends (SQL, in-memory, etc.)
//   - Testing: Consumers can use fake implementations without modification
//
// # Architecture
//
// The storage layer splits reads from writes:
//
//   - Per-entity repositories: read access (series profiles, TEI headers,
//     canonical episodes, ingestion jobs, source documents, approval events)
//   - UnitOfWork: staged writes applied atomically, with integrity checks
//     (unique series slug, source weight bounds, referential integrity)
//     enforced at flush time
//   - UnitOfWorkFactory: opens units of work against a backend
//
// # Usage
//
// Open a set of repositories:
//
//	repos, err := badger.NewRepositories("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines. A UnitOfWork instance is
// owned by a single goroutine between Begin and Commit/Rollback.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
