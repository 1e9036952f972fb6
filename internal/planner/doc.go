// Package planner computes migration plans for static topics.
//
// Two algorithms are provided:
//
//   - CreateOrExpand: place new global queue ids on the least-loaded target
//     brokers without touching existing ids (PlanCreateOrUpdate)
//   - Rebalance: move existing ids onto a new broker set so that every broker
//     is either a pure gainer or a pure loser in one step (PlanRebalance)
//
// Both algorithms work on deep copies of their input, bump the epoch to
// max(epoch+EpochStep, now) and verify their own output before returning it.
// A failed self-check is reported as types.ErrInternalInvariant.
//
// Callers must serialize planning per topic: the epoch fence only lets stale
// plans be detected after the fact.
package planner
