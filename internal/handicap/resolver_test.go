package handicap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func modePtr(m Mode) *Mode { return &m }
func intPtr(v int) *int    { return &v }

func TestResolveDefaults(t *testing.T) {
	tests := []struct {
		name            string
		format          Format
		competitionMode Mode
		wantMode        Mode
		wantAllowance   Allowance
	}{
		{name: "singles stroke play", format: FormatSingles, competitionMode: ModeStrokePlay, wantMode: ModeStrokePlay, wantAllowance: 95},
		{name: "singles match play", format: FormatSingles, competitionMode: ModeMatchPlay, wantMode: ModeMatchPlay, wantAllowance: 100},
		{name: "fourball", format: FormatFourball, competitionMode: ModeMatchPlay, wantMode: ModeMatchPlay, wantAllowance: 90},
		{name: "foursomes", format: FormatFoursomes, competitionMode: ModeMatchPlay, wantMode: ModeMatchPlay, wantAllowance: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := Resolve(RoundOverrides{Format: tt.format}, tt.competitionMode)
			require.NoError(t, err)
			require.Equal(t, tt.wantMode, settings.Mode)
			require.Equal(t, tt.wantAllowance, settings.Allowance)
		})
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Run("mode override wins on singles", func(t *testing.T) {
		settings, err := Resolve(RoundOverrides{
			Format: FormatSingles,
			Mode:   modePtr(ModeStrokePlay),
		}, ModeMatchPlay)
		require.NoError(t, err)
		require.Equal(t, ModeStrokePlay, settings.Mode)
		// Default allowance follows the overridden mode, not the inherited one.
		require.Equal(t, Allowance(95), settings.Allowance)
	})

	t.Run("allowance override wins", func(t *testing.T) {
		settings, err := Resolve(RoundOverrides{
			Format:    FormatFourball,
			Allowance: intPtr(85),
		}, ModeMatchPlay)
		require.NoError(t, err)
		require.Equal(t, Allowance(85), settings.Allowance)
	})

	t.Run("both overrides on singles", func(t *testing.T) {
		settings, err := Resolve(RoundOverrides{
			Format:    FormatSingles,
			Mode:      modePtr(ModeStrokePlay),
			Allowance: intPtr(100),
		}, ModeMatchPlay)
		require.NoError(t, err)
		require.Equal(t, ModeStrokePlay, settings.Mode)
		require.Equal(t, Allowance(100), settings.Allowance)
	})
}

func TestResolveRejectsModeOverrideOnTeamFormats(t *testing.T) {
	for _, format := range []Format{FormatFourball, FormatFoursomes} {
		t.Run(string(format), func(t *testing.T) {
			_, err := Resolve(RoundOverrides{
				Format: format,
				Mode:   modePtr(ModeMatchPlay),
			}, ModeMatchPlay)
			require.ErrorIs(t, err, ErrInvalidOverrideForFormat)
		})
	}
}

func TestResolveRejectsBadAllowanceOverride(t *testing.T) {
	for _, allowance := range []int{49, 101, 93, 0, -5} {
		_, err := Resolve(RoundOverrides{
			Format:    FormatSingles,
			Allowance: intPtr(allowance),
		}, ModeMatchPlay)
		require.ErrorIs(t, err, ErrInvalidAllowance, "allowance %d", allowance)
	}
}

// Resolution is a pure function: the same inputs always produce the same
// settings, and the input struct is never mutated.
func TestResolveIsPure(t *testing.T) {
	overrides := RoundOverrides{Format: FormatSingles, Allowance: intPtr(80)}
	first, err := Resolve(overrides, ModeStrokePlay)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Resolve(overrides, ModeStrokePlay)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, 80, *overrides.Allowance)
}
