// Aurorec - idempotent reconciliation for managed database clusters.
// Observe. Diff. Converge.
package main

func main() {
	Execute()
}
