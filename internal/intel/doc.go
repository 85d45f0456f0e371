// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package intel contains the content-intelligence pipeline: it turns a local
// interaction history into a preference profile, groups catalog items into
// similarity clusters, and ranks candidates with a multi-factor predictive
// score adjusted for situational context.
//
// The package defines the shared data model (InteractionRecord, UserProfile,
// FeatureVector, ContentCluster, ScoredCandidate) and the component
// interfaces (ProfileBuilder, FeatureExtractor, Clusterer, Scorer,
// ContextDeriver, Ranker, Classifier). Implementations live in the
// subpackages profile, feature, cluster, scoring, situation and reranking;
// the Engine in this package orchestrates them per request.
//
// Design constraints:
//
//   - No I/O. The pipeline is a synchronous, CPU-bound computation over
//     immutable snapshots supplied by the HistoryProvider and
//     CatalogProvider collaborators.
//   - No hidden state. Profile, clusters and scores are recomputed from the
//     data handed to each call; identical input yields identical output
//     (clustering is deterministic under the default seeded initializer).
//   - No locks required internally: nothing mutates shared state, so any
//     number of requests may run concurrently over the same snapshot.
//
// This package has no dependencies on other internal packages so the
// pipeline can be embedded or tested in isolation; wiring happens in
// cmd/server.
package intel
