package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Nil(t, u.Pending)
}

func TestUser_RequestDefaultsToAuto(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, RemovalRequest{Strategy: StrategyAuto}, u.Request())

	u.Pending = &RemovalRequest{Strategy: StrategyFrequency}
	u.SetState(StateAwaitingPhoto)
	require.Equal(t, StrategyFrequency, u.Request().Strategy)

	u.Reset()
	require.Equal(t, StateMainMenu, u.State)
	require.Nil(t, u.Pending)
}
