// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

// Package pool defines the sports-pool document model and the collection
// contract shared by every resource repository.
package pool
