// Package resource bounds the work a batch of encode jobs may do at once.
//
// A Controller hands out job slots (how many trainings run in parallel),
// tracks an optional memory budget for training buffers, and throttles
// artifact uploads to a byte rate.
package resource
