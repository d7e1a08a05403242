package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func TestGenerateRandomSoftEntriesAlwaysValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		entries := GenerateRandomSoftEntries(2025, 2)
		require.NoError(t, domain.ValidateSoftRequestEntries(entries, 2025, 2))
	}
}

func TestGenerateRandomConstraintsAlwaysValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		constraints := GenerateRandomConstraints()
		require.NoError(t, domain.ValidateConstraints(constraints))
	}
}

func TestGenerateRandomNurse(t *testing.T) {
	nurse, err := GenerateRandomNurse("test-password", "hospital.example.com")
	require.NoError(t, err)
	require.NotEmpty(t, nurse.Username)
	require.NotEmpty(t, nurse.FullName)
	require.Contains(t, nurse.Email, "@hospital.example.com")
	require.True(t, nurse.Ward.IsValid())
	require.NotEqual(t, "test-password", nurse.PasswordHash)
}

func TestGenerateRandomFutureDate(t *testing.T) {
	for i := 0; i < 20; i++ {
		date := GenerateRandomFutureDate()
		require.NoError(t, domain.ValidateHardRequestDate(date, time.Now()))
	}
}
