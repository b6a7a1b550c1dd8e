package body

import "encoding/binary"

// StubWeightThreshold is the meaningful-operation weight at or below
// which a construct-and-throw body counts as a deliberate stub rather
// than argument validation.
const StubWeightThreshold = 3

// Weights for the disambiguation walk. Branches weigh double: conditional
// flow ahead of the throw reads as real validation logic.
const (
	weightLoadArg = 1
	weightBranch  = 2
	weightCall    = 1
)

// MaxDefaultReturnBodyLen bounds the default-return detector: anything
// longer than this has room for real work before the return.
const MaxDefaultReturnBodyLen = 8

// MinimalBodyLen is the byte length at or below which a method body is
// considered an empty placeholder when it performs no calls or
// branches.
const MinimalBodyLen = 2

// IsStubThrow reports whether the body is a construct-and-throw stub.
//
// Detection is two-step. First the body must contain the adjacent pair
// construct-object + 4-byte operand + throw anywhere. Then the body is
// walked from the start, accumulating meaningful-operation weight until
// the throw is reached; at or below StubWeightThreshold the throw is a
// deliberate non-implementation, above it the construct-and-throw is
// treated as legitimate argument validation.
func IsStubThrow(b []byte) bool {
	if !containsConstructThrow(b) {
		return false
	}
	return weightBeforeThrow(b) <= StubWeightThreshold
}

// containsConstructThrow scans for construct-object immediately
// followed (after its operand) by throw.
func containsConstructThrow(b []byte) bool {
	for i := 0; i+5 < len(b); i++ {
		if Opcode(b[i]) == OpNewobj && Opcode(b[i+5]) == OpThrow {
			return true
		}
	}
	return false
}

// weightBeforeThrow walks from the start of the body and sums the
// meaningful-operation weights seen before the first throw.
func weightBeforeThrow(b []byte) int {
	weight := 0
	walk(b, func(op Opcode, _ int) bool {
		switch {
		case op == OpThrow:
			return false
		case op.IsLoadArg():
			weight += weightLoadArg
		case op.IsBranch():
			weight += weightBranch
		case op.IsCall():
			weight += weightCall
		}
		return true
	})
	return weight
}

// IsDefaultReturn reports whether a short body does nothing but return
// a hard-coded default (null, 0, or 1). Only meaningful for methods
// with a non-void return type; the caller gates on that.
func IsDefaultReturn(b []byte) bool {
	if len(b) == 0 || len(b) > MaxDefaultReturnBodyLen {
		return false
	}
	for i := 0; i+1 < len(b); i++ {
		op := Opcode(b[i])
		if (op == OpLdnull || op == OpLdc0 || op == OpLdc1) && Opcode(b[i+1]) == OpRet {
			return true
		}
	}
	return false
}

// IsMinimalBody reports whether the body is a tiny placeholder: at or
// below MinimalBodyLen bytes with no call or branch opcodes.
func IsMinimalBody(b []byte) bool {
	if len(b) == 0 || len(b) > MinimalBodyLen {
		return false
	}
	meaningful := false
	walk(b, func(op Opcode, _ int) bool {
		if op.IsCall() || op.IsBranch() {
			meaningful = true
			return false
		}
		return true
	})
	return !meaningful
}

// IsSingleReturn reports whether the entire body is one return, with
// nothing but padding no-ops before it.
func IsSingleReturn(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for i := 0; i < len(b)-1; i++ {
		if Opcode(b[i]) != OpNop {
			return false
		}
	}
	return Opcode(b[len(b)-1]) == OpRet
}

// UsedArgIndices returns the set of argument slots loaded anywhere in
// the body. Slot 0 is the receiver for instance methods.
func UsedArgIndices(b []byte) map[int]bool {
	used := make(map[int]bool)
	walk(b, func(op Opcode, operandAt int) bool {
		switch {
		case op >= OpLdarg0 && op <= OpLdarg3:
			used[int(op-OpLdarg0)] = true
		case op == OpLdargS:
			if operandAt < len(b) {
				used[int(b[operandAt])] = true
			}
		}
		return true
	})
	return used
}

// CallTokens returns the 4-byte member tokens referenced by call
// opcodes in the body, in order of appearance.
func CallTokens(b []byte) []uint32 {
	var tokens []uint32
	walk(b, func(op Opcode, operandAt int) bool {
		if op.IsCall() && operandAt+4 <= len(b) {
			tokens = append(tokens, binary.LittleEndian.Uint32(b[operandAt:operandAt+4]))
		}
		return true
	})
	return tokens
}
