// Package matbench implements the benchmark-task harness for
// materials-science datasets: deterministic 5-fold cross-validation splits,
// blind test-fold extraction, prediction recording, per-fold scoring, and
// validated round-trip serialization of results documents.
//
// Harness flow:
//   - A Registry supplies static metadata and fixed fold splits per dataset.
//   - A Task owns one dataset's table (fetched once through a
//     dataset.Loader) and its per-fold recorded results.
//   - GetTrainAndValData / GetTestData expose the deterministic splits;
//     Record validates and stores predictions and computes fold scores.
//   - AsDocument / ToFile / FromDocument / FromFile round-trip the recorded
//     state as the canonical leaderboard document.
//
// Tasks are single-threaded and independently owned: each instance holds
// its own table and results, so distinct instances may be used from
// different goroutines without coordination, but a single instance must not
// be shared.
package matbench
