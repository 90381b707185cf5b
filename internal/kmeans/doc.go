// Package kmeans implements the update half of variable-length k-means.
//
// Segmentation (package viterbi) assigns windows of the signal to codebook
// entries; Update moves every referenced entry to the mean of its windows and
// Respawn recovers dead entries by splitting the entries with the largest
// assigned error. The used set of each iteration is a roaring bitmap.
package kmeans
