package emu

import "github.com/sarchlab/slicesim/insts"

// shiftOp is the decoded form of a shift destination.
type shiftOp struct {
	left    bool // direction; false shifts toward bit 0
	withAcc bool // Q shifts along with the register path
}

func decodeShift(dst insts.Destination) (shiftOp, bool) {
	if !dst.Shifts() {
		return shiftOp{}, false
	}
	return shiftOp{left: dst.ShiftsLeft(), withAcc: dst.ShiftsAccumulator()}, true
}

// Boundary holds the edge bits of the register written by a cycle and of Q.
// The 8-bit slice drives them on dedicated pins so that several slices can
// be chained into a wider shifter.
type Boundary struct {
	RegLSB bool
	RegMSB bool
	AccLSB bool
	AccMSB bool
}

// ShiftLink is the shifter between the ALU, the register file and Q.
type ShiftLink struct {
	width   Width
	enabled bool
}

// NewShiftLink creates a shifter. When linked is false the link mode is
// ignored and vacated bits are always 0.
func NewShiftLink(width Width, linked bool) *ShiftLink {
	return &ShiftLink{width: width, enabled: linked}
}

// Shift shifts reg (and acc, if op.withAcc) by one bit and refills the
// vacated bits according to mode. Bits are captured before shifting.
func (l *ShiftLink) Shift(op shiftOp, mode insts.LinkMode, reg, acc Word) (Word, Word) {
	mask := l.width.Mask()
	msb := l.width.MSB()

	reg &= mask
	acc &= mask

	regLSB, regMSB := reg&1 != 0, reg&msb != 0
	accLSB, accMSB := acc&1 != 0, acc&msb != 0

	if !l.enabled {
		mode = insts.LinkNone
	}

	newReg, newAcc := reg, acc

	if op.left {
		newReg = (reg << 1) & mask
		if op.withAcc {
			newAcc = (acc << 1) & mask
		}

		switch mode {
		case insts.LinkRot:
			newReg = setBit(newReg, 1, regMSB)
			if op.withAcc {
				newAcc = setBit(newAcc, 1, accMSB)
			}
		case insts.LinkCross:
			newReg = setBit(newReg, 1, accMSB)
			if op.withAcc {
				newAcc = setBit(newAcc, 1, regMSB)
			}
		case insts.LinkFeed:
			newReg = setBit(newReg, 1, accMSB)
		}

		return newReg, newAcc
	}

	newReg = reg >> 1
	if op.withAcc {
		newAcc = acc >> 1
	}

	switch mode {
	case insts.LinkRot:
		newReg = setBit(newReg, msb, regLSB)
		if op.withAcc {
			newAcc = setBit(newAcc, msb, accLSB)
		}
	case insts.LinkCross:
		newReg = setBit(newReg, msb, accLSB)
		if op.withAcc {
			newAcc = setBit(newAcc, msb, regLSB)
		}
	case insts.LinkFeed:
		if op.withAcc {
			newAcc = setBit(newAcc, msb, regLSB)
		}
	}

	return newReg, newAcc
}

func setBit(v, bit Word, on bool) Word {
	if on {
		return v | bit
	}
	return v &^ bit
}
