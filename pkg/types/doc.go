/*
Package types provides the core interfaces and data structures shared across
ObjectSink components.

# Architecture Overview

ObjectSink streams serialized file output into object storage through three
layers with well-defined contracts between them:

	┌─────────────────────────────────────────────┐
	│            Format Writer                    │
	│   (columnar serializer, external caller)    │
	└─────────────────────────────────────────────┘
	                      │ Write / Complete
	┌─────────────────────────────────────────────┐
	│         Object Writer Adapter               │
	│             (pkg/writer)                    │
	└─────────────────────────────────────────────┘
	                      │ Put / Shutdown
	┌─────────────────────────────────────────────┐
	│        Buffered Storage Writer              │
	│          (internal/bufwriter)               │
	└─────────────────────────────────────────────┘
	                      │ ObjectStore operations
	┌─────────────────────────────────────────────┐
	│     Backend (S3, MinIO, in-memory)          │
	└─────────────────────────────────────────────┘

# Core Interfaces

ObjectStore:
Abstracts path-addressed object storage with whole-object and multipart
write support. Implementations live under internal/storage.

BufferedWriter:
The capability set consumed by the adapter: accept bytes, then flush and
commit. Any implementation of these two operations is substitutable without
changing the adapter.

# Interface Contracts

1. Operations accept context.Context for cancellation and timeouts
2. All operations return explicit errors following Go conventions
3. ObjectStore implementations must be safe for concurrent callers
4. BufferedWriter implementations are single-caller by contract
*/
package types
