// Package cpu implements the Simpleton machine and its assembler.
//
// The machine has eight 16-bit registers (r0-r4, sp, pc and psw), a
// 64K-word memory with a console port at the top address, and fourteen
// opcodes that all share a single three operand datapath: r = y op x.
// Immediate, absolute, and push/pop addressing are selected by using the
// pc, psw and sp registers indirectly.
//
// The assembler is a two pass assembler with #include preprocessing, local
// labels, forward references, compile-time $(...) expressions and two
// operand orderings: the classic "cmd r y x" dialect and the new
// "r = y cmd x" dialect.
package cpu
