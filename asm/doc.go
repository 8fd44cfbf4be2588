// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package asm provides utility functions to assemble and disassemble Intcode
// programs.
//
// Supported assembler mnemonics:
//
//	a, b are source operands, d is a destination operand.
//
//	opcode	asm		args	description
//	------	---		----	-----------------------------------------------
//	1	add		a b d	d = a + b
//	2	mul		a b d	d = a * b
//	3	in		d	d = next input value
//	4	out		a	output a
//	5	jnz, jt		a b	jump to b if a != 0
//	6	jz, jf		a b	jump to b if a == 0
//	7	lt		a b d	d = 1 if a < b, 0 otherwise
//	8	eq		a b d	d = 1 if a == b, 0 otherwise
//	9	arb		a	add a to the relative base
//	99	halt, hlt		stop the program
//
// Operands:
//
// The addressing mode of an operand is given by an optional prefix:
//
//	42	position mode: the value at address 42
//	#42	immediate mode: the value 42 itself
//	@42	relative mode: the value at address relative base + 42
//
// Destination operands cannot use immediate mode. Operands may be separated by
// commas, with or without white space. Commas are otherwise ignored, except
// within character literals:
//
//	add #1, 2, @-3
//	add #1,2,@-3
//	.dat ','
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space. That is:
//
//	( this is a valid comment )
//	( this is a
//	  rather long
//	  multiline comment )
//
// Literals and label/const identifiers:
//
// Input is split at white space into tokens. Operand values and data cells can
// be written as:
//
//	- a Go integer literal (see strconv.ParseInt)
//	- a Go character literal between single quotes, which is converted to the
//	  corresponding integer
//	- the name of a constant defined with .equ
//	- the name of a label, which is replaced by the label's address
//
// Where the parser is expecting an instruction, a token that is not a mnemonic
// or a directive is compiled as a raw data cell:
//
//	:table 1 2 'c' table	( compiles to 1,2,99,<address of table> )
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and can be used as
// operand values (without the ':' prefix). Forward references are fine:
//
//	jnz #1, #end
//	:end halt
//
// Local labels:
//
// Local labels work in the same way as in the GNU assembler. They are defined
// as a colon followed by a sequence of digits (i.e. :007, :0, :42). They can be
// defined multiple times. References to such labels must be suffixed with
// either a '-' (meaning backward reference to the last definition of this
// label), or a '+' (meaning a forward reference to the next definition of this
// label):
//
//	:1	jz #0, #1+	( jumps to the next :1 )
//	:1	jnz #1, #1-	( jumps to the previous :1 )
//
// Assembler directives:
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value.
//
//	.org <value>
//
// places the next instruction at the given address.
//
//	.dat <value>
//
// compiles the given value as-is.
//
// Disassembly:
//
// The disassembler decodes each cell as an instruction if it can. Cells that
// do not hold a valid instruction (unknown opcode, invalid mode, immediate
// destination, non-zero mode digit for a missing operand, or missing operand
// cells at the end of the image) are output as .dat directives. As a result,
// the output of DisassembleAll always assembles back to the same image.
package asm
