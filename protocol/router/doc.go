/*
Package router compiles method-call dispatch programs.

A Router accumulates method registrations and optional bare-call
actions, then builds two programs: the approval program, which
handles every completion kind except clear-state, and the
clear-state program. Each program is an ordered dispatch tree:
bare-call entries first, guarded by "no call arguments supplied",
then one entry per registered method keyed on the 4-byte selector
in call-argument slot 0. Alongside the programs, Build emits a JSON
descriptor of the registered methods for off-chain callers.

Registration is fail-fast: methods that no completion kind permits,
duplicate signatures, and selector collisions are all rejected
before anything is inserted, so a Router that builds successfully
contains no unreachable or ambiguous entries.
*/
package router
