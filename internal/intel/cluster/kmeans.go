// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package cluster partitions feature vectors into similarity clusters with
// k-means. The default initializer is k-means++ over a seeded source, so
// identical input and seed give identical clusters; the legacy uniform
// initializer remains available as an explicit opt-in.
package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/reelsense/reelsense/internal/intel"
)

// KMeans clusters feature vectors by Euclidean distance.
type KMeans struct {
	cfg        intel.ClusteringConfig
	classifier intel.Classifier
}

// NewKMeans creates a clusterer. The classifier names clusters by the
// dominant inferred category among members.
func NewKMeans(cfg intel.ClusteringConfig, classifier intel.Classifier) *KMeans {
	return &KMeans{cfg: cfg, classifier: classifier}
}

// Cluster partitions the pool into at most k clusters. vectors[i] encodes
// items[i]. Pools smaller than MinClusterSize skip clustering entirely and
// come back as a single cluster with confidence 1.0. Every input vector
// lands in exactly one cluster; clusters left empty after assignment are
// retained with a zero centroid.
func (km *KMeans) Cluster(items []intel.CandidateItem, vectors []intel.FeatureVector, k int) []intel.ContentCluster {
	n := len(vectors)
	if n == 0 {
		return []intel.ContentCluster{}
	}

	maxK := km.cfg.MaxClusters
	if byPoolSize := n / km.cfg.MinClusterSize; byPoolSize < maxK {
		maxK = byPoolSize
	}

	if n < km.cfg.MinClusterSize || maxK < 2 {
		return []intel.ContentCluster{km.singleCluster(items, vectors)}
	}

	if k < 2 {
		k = maxK
	}
	if k > maxK {
		k = maxK
	}

	dims := len(vectors[0].Values)
	rng := rand.New(rand.NewSource(km.cfg.Seed)) //nolint:gosec // seeded source for reproducible clustering

	var centroids [][]float64
	if km.cfg.Init == intel.InitUniform {
		centroids = km.initUniform(vectors, k, dims, rng)
	} else {
		centroids = km.initPlusPlus(vectors, k, rng)
	}

	assignments := make([]int, n)
	for iter := 0; iter < km.cfg.MaxIterations; iter++ {
		for i, v := range vectors {
			assignments[i] = nearestCentroid(v.Values, centroids)
		}

		next := recomputeCentroids(vectors, assignments, k, dims)

		if maxCentroidMove(centroids, next) < km.cfg.ConvergenceThreshold {
			centroids = next
			break
		}
		centroids = next
	}

	return km.buildClusters(items, vectors, assignments, centroids)
}

// singleCluster is the fallback for pools too small to partition.
func (km *KMeans) singleCluster(items []intel.CandidateItem, vectors []intel.FeatureVector) intel.ContentCluster {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0].Values)
	}

	centroid := make([]float64, dims)
	ids := make([]string, len(vectors))
	for i, v := range vectors {
		ids[i] = v.VideoID
		for d, val := range v.Values {
			centroid[d] += val
		}
	}
	if len(vectors) > 0 {
		for d := range centroid {
			centroid[d] /= float64(len(vectors))
		}
	}

	return intel.ContentCluster{
		ID:             0,
		Name:           km.dominantCategory(items),
		MemberVideoIDs: ids,
		Centroid:       centroid,
		Confidence:     1.0,
	}
}

// initPlusPlus seeds centroids with k-means++: each new centroid is drawn
// with probability proportional to its squared distance from the nearest
// existing centroid.
func (km *KMeans) initPlusPlus(vectors []intel.FeatureVector, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, copyVector(vectors[rng.Intn(n)].Values))

	dist2 := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := euclidean(v.Values, centroids[len(centroids)-1])
			d2 := d * d
			if len(centroids) == 1 || d2 < dist2[i] {
				dist2[i] = d2
			}
			total += dist2[i]
		}

		if total == 0 {
			// All points coincide with existing centroids.
			centroids = append(centroids, copyVector(vectors[rng.Intn(n)].Values))
			continue
		}

		target := rng.Float64() * total
		var acc float64
		chosen := n - 1
		for i, d2 := range dist2 {
			acc += d2
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, copyVector(vectors[chosen].Values))
	}

	return centroids
}

// initUniform samples each centroid dimension uniformly within the
// per-dimension min/max of the input. Matches the legacy initializer; runs
// are only reproducible under a fixed seed.
func (km *KMeans) initUniform(vectors []intel.FeatureVector, k, dims int, rng *rand.Rand) [][]float64 {
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	copy(mins, vectors[0].Values)
	copy(maxs, vectors[0].Values)
	for _, v := range vectors[1:] {
		for d, val := range v.Values {
			if val < mins[d] {
				mins[d] = val
			}
			if val > maxs[d] {
				maxs[d] = val
			}
		}
	}

	centroids := make([][]float64, k)
	for c := range centroids {
		centroid := make([]float64, dims)
		for d := range centroid {
			centroid[d] = mins[d] + rng.Float64()*(maxs[d]-mins[d])
		}
		centroids[c] = centroid
	}
	return centroids
}

// recomputeCentroids sets each centroid to the per-dimension mean of its
// members. Empty clusters get a zero vector and are retained.
func recomputeCentroids(vectors []intel.FeatureVector, assignments []int, k, dims int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d, val := range v.Values {
			sums[c][d] += val
		}
	}

	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

// buildClusters materializes the final clusters with names and confidence.
func (km *KMeans) buildClusters(items []intel.CandidateItem, vectors []intel.FeatureVector, assignments []int, centroids [][]float64) []intel.ContentCluster {
	k := len(centroids)
	members := make([][]int, k)
	for i, c := range assignments {
		members[c] = append(members[c], i)
	}

	// Mean distance to the owning centroid over all points, for the
	// cohesion denominator.
	var globalSum float64
	for i, v := range vectors {
		globalSum += euclidean(v.Values, centroids[assignments[i]])
	}
	globalMean := globalSum / float64(len(vectors))

	clusters := make([]intel.ContentCluster, k)
	for c := 0; c < k; c++ {
		ids := make([]string, len(members[c]))
		clusterItems := make([]intel.CandidateItem, len(members[c]))
		var intraSum float64
		for j, i := range members[c] {
			ids[j] = vectors[i].VideoID
			clusterItems[j] = items[i]
			intraSum += euclidean(vectors[i].Values, centroids[c])
		}

		clusters[c] = intel.ContentCluster{
			ID:             c,
			Name:           km.dominantCategory(clusterItems),
			MemberVideoIDs: ids,
			Centroid:       centroids[c],
			Confidence:     cohesionConfidence(intraSum, len(members[c]), globalMean),
		}
	}
	return clusters
}

// cohesionConfidence is 1 minus the cluster's mean intra-distance over the
// global mean distance, clamped to [0, 1]. Degenerate cases: a zero global
// mean means every point sits on its centroid (confidence 1.0); an empty
// cluster has no evidence (confidence 0).
func cohesionConfidence(intraSum float64, size int, globalMean float64) float64 {
	if size == 0 {
		return 0
	}
	if globalMean == 0 {
		return 1.0
	}
	conf := 1.0 - (intraSum/float64(size))/globalMean
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// dominantCategory names a group by its most frequent inferred category.
// Ties break lexicographically for determinism.
func (km *KMeans) dominantCategory(items []intel.CandidateItem) string {
	if len(items) == 0 {
		return ""
	}

	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[km.classifier.Classify(item.Title)]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

// nearestCentroid returns the index of the closest centroid.
func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := euclidean(v, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// maxCentroidMove returns the largest distance any centroid moved.
func maxCentroidMove(prev, next [][]float64) float64 {
	var maxMove float64
	for c := range prev {
		if d := euclidean(prev[c], next[c]); d > maxMove {
			maxMove = d
		}
	}
	return maxMove
}

// euclidean computes the Euclidean distance between two vectors.
func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func copyVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Ensure KMeans implements the interface.
var _ intel.Clusterer = (*KMeans)(nil)
