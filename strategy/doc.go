// Package strategy provides the load-balancing allocator used to place global
// queue ids of a static topic onto brokers.
//
// The Allocator is a greedy least-loaded balancer:
//
//   - Each new global queue id goes to a currently least-loaded broker
//   - Ties are broken by a random starting index chosen per pool refresh
//   - Already assigned ids never move
//
// After any number of UpToNum calls over a broker set that started balanced,
// no broker's load exceeds another's by more than one. With a fixed seed the
// assignment is fully deterministic.
package strategy
