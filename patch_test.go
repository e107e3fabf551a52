package memregion

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func TestInstructionSpan(t *testing.T) {
	t.Parallel()

	// push rbp; mov rbp, rsp; sub rsp, 0x10; ret
	code := []byte{0x55, 0x48, 0x89, 0xe5, 0x48, 0x83, 0xec, 0x10, 0xc3}

	cases := []struct {
		minimum int
		span    int
	}{
		{0, 0},
		{1, 1},
		{2, 4},
		{4, 4},
		{5, 8},
		{9, 9},
	}
	for _, tc := range cases {
		span, err := InstructionSpan(code, tc.minimum)
		require.NoError(t, err)
		require.Equal(t, tc.span, span, "minimum %d", tc.minimum)
	}

	_, err := InstructionSpan(code, 10)
	require.Error(t, err)
	_, err = InstructionSpan([]byte{0x48}, 1)
	require.Error(t, err)
	_, err = InstructionSpan([]byte{0x48, 0x89}, 1)
	require.ErrorIs(t, err, x86asm.ErrTruncated)
	_, err = InstructionSpan(code[:3], 2)
	require.Error(t, err)
}

func TestFuncAddress(t *testing.T) {
	t.Parallel()

	address, err := FuncAddress(TestFuncAddress)
	require.NoError(t, err)
	require.NotZero(t, address)

	_, err = FuncAddress(42)
	require.Error(t, err)

	var nilFunc func()
	_, err = FuncAddress(nilFunc)
	require.Error(t, err)
}
