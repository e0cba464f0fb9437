// Package async provides parallel execution of independent per-host work.
//
// [RunParallel] starts every task, waits for all of them, and reports the
// first failure. It is used to bootstrap bastion hosts concurrently.
package async
