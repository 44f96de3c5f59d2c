// Package reconcile implements the engine that keeps the live HamAlert
// trigger collection in line with named profiles and the permanent set.
//
// The engine is split into small, independently testable pieces:
//
//	ScoreProfile  coverage of one profile against a live set
//	Classify      partitions a live set into permanent / reference / unexpected
//	Planner       computes a switch plan and resolves unexpected triggers
//	Switcher      drives backup -> delete -> create -> marker update
//	Reporter      read-only status built from the scorer and classifier
//
// All collaborators (remote API, file stores, prompts) are injected as
// interfaces; the engine holds no process-wide state. Everything runs
// strictly sequentially. Remote calls and prompts are the only points where
// the flow blocks, and each takes a context.
//
// Remote mutation is a fail-fast loop with no compensating actions. There is
// deliberately no transactional guarantee: when a delete or create fails
// mid-switch, earlier calls stay applied and recovery relies on the snapshot
// written before the first mutation.
package reconcile
