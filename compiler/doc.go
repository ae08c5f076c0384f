/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	analyze (stack depth) + slots ->
	back/jvm ->
Jasmin Assembly (.j) ->
	jasmin ->
Class File (.class)

Abstract Syntax Tree (ast) ->
	slots ->
	back/llvm (via ir) ->
LLVM IR Text (.ll) ->
	llvm-as ->
Bitcode (.bc)

*/
package compiler
