package emu

import "github.com/sarchlab/slicesim/insts"

// Operands is the (R, S) pair fed to the ALU.
type Operands struct {
	R Word
	S Word
}

// SelectOperands maps a source code to the ALU operands. It reads the
// register file but never modifies it.
func SelectOperands(src insts.Source, a, b uint8, d Word, rf *RegFile) Operands {
	switch src {
	case insts.SourceAQ:
		return Operands{R: rf.Read(a), S: rf.Q}
	case insts.SourceAB:
		return Operands{R: rf.Read(a), S: rf.Read(b)}
	case insts.SourceZQ:
		return Operands{R: 0, S: rf.Q}
	case insts.SourceZB:
		return Operands{R: 0, S: rf.Read(b)}
	case insts.SourceZA:
		return Operands{R: 0, S: rf.Read(a)}
	case insts.SourceDA:
		return Operands{R: d, S: rf.Read(a)}
	case insts.SourceDQ:
		return Operands{R: d, S: rf.Q}
	case insts.SourceDZ:
		return Operands{R: d, S: 0}
	default:
		return Operands{}
	}
}
