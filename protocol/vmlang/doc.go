/*
Package vmlang builds VM programs as expression trees.

An Expr describes a computation in terms of the VM's stack
semantics: leaves push constants or transaction fields, interior
nodes combine their operands, and statement forms (Seq, Cond,
Assert, Approve) sequence and branch. Assemble lowers a tree to
bytecode for a target VM version.

Trees are plain immutable values. Nothing here executes a program;
the VM itself is the consumer of the assembled bytecode.
*/
package vmlang
