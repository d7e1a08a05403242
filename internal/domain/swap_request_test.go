package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    SwapRequestStatus
		to      SwapRequestStatus
		allowed bool
	}{
		{SwapRequestStatusPending, SwapRequestStatusAccepted, true},
		{SwapRequestStatusPending, SwapRequestStatusRejected, true},
		{SwapRequestStatusPending, SwapRequestStatusApproved, false},
		{SwapRequestStatusAccepted, SwapRequestStatusApproved, true},
		{SwapRequestStatusAccepted, SwapRequestStatusRejected, true},
		{SwapRequestStatusAccepted, SwapRequestStatusPending, false},
		{SwapRequestStatusApproved, SwapRequestStatusRejected, false},
		{SwapRequestStatusApproved, SwapRequestStatusAccepted, false},
		{SwapRequestStatusRejected, SwapRequestStatusAccepted, false},
		{SwapRequestStatusRejected, SwapRequestStatusApproved, false},
	}

	for _, c := range cases {
		require.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSwapRequestStatusTerminal(t *testing.T) {
	require.True(t, SwapRequestStatusApproved.IsTerminal())
	require.True(t, SwapRequestStatusRejected.IsTerminal())
	require.False(t, SwapRequestStatusPending.IsTerminal())
	require.False(t, SwapRequestStatusAccepted.IsTerminal())

	// 终态不允许任何后续转移
	for _, terminal := range []SwapRequestStatus{SwapRequestStatusApproved, SwapRequestStatusRejected} {
		for _, next := range []SwapRequestStatus{SwapRequestStatusPending, SwapRequestStatusAccepted, SwapRequestStatusApproved, SwapRequestStatusRejected} {
			require.False(t, terminal.CanTransitionTo(next))
		}
	}
}

func TestValidateSwapProposal(t *testing.T) {
	t.Run("不能和自己换班", func(t *testing.T) {
		err := ValidateSwapProposal(1, 1, []ShiftCode{ShiftMorning}, nil)
		require.ErrorIs(t, err, ErrSelfSwap)
	})

	t.Run("双方都休息时不能换班", func(t *testing.T) {
		err := ValidateSwapProposal(1, 2, []ShiftCode{}, []ShiftCode{})
		require.ErrorIs(t, err, ErrBothIdle)
	})

	t.Run("单方休息可以换班", func(t *testing.T) {
		require.NoError(t, ValidateSwapProposal(1, 2, []ShiftCode{ShiftMorning}, []ShiftCode{}))
		require.NoError(t, ValidateSwapProposal(1, 2, []ShiftCode{}, []ShiftCode{ShiftNight}))
	})
}
