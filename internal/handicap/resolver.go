package handicap

// resolver.go — resolves the effective handicap settings for a round.
//
// Two values have to be pinned down before any Playing Handicap can be
// computed: the handicap mode (stroke play vs match play scoring of the
// handicap) and the allowance percentage. Both follow the same two-tier
// precedence: an explicit per-round override wins, otherwise the competition
// default (for the mode) or the standard WHS allowance table (for the
// percentage) applies. Modelling this as one pure function keeps the chain
// auditable: same inputs, same answer, every time.

// Format identifies how a round is contested.
type Format string

const (
	FormatSingles   Format = "singles"   // 1v1 — the only format where the handicap mode can be overridden
	FormatFourball  Format = "fourball"  // 2v2, each player plays their own ball, best ball counts
	FormatFoursomes Format = "foursomes" // 2v2, partners alternate shots on one ball
)

// Mode is the handicap scoring mode for a singles round.
// Fourball and foursomes are inherently match-play scored, so the mode only
// ever varies for singles.
type Mode string

const (
	ModeStrokePlay Mode = "stroke_play"
	ModeMatchPlay  Mode = "match_play"
)

// RoundOverrides carries the optional per-round configuration a round may
// declare. Nil pointers mean "inherit" — from the competition for the mode,
// from the standard table for the allowance.
type RoundOverrides struct {
	Format    Format
	Mode      *Mode // legal only when Format is singles
	Allowance *int  // raw percentage; validated against the 5%-step domain
}

// Settings is the fully resolved configuration the calculator consumes.
type Settings struct {
	Mode      Mode
	Allowance Allowance
}

// defaultAllowance returns the standard WHS allowance for a format/mode pair:
// singles stroke play 95%, singles match play 100%, fourball 90%, foursomes 50%.
func defaultAllowance(format Format, mode Mode) Allowance {
	switch format {
	case FormatFourball:
		return 90
	case FormatFoursomes:
		return 50
	default: // singles
		if mode == ModeStrokePlay {
			return 95
		}
		return 100
	}
}

// Resolve walks the precedence chain and returns the effective settings for a
// round. competitionMode is the competition-wide default play mode.
//
// Rules:
//   - A mode override on a non-singles round fails with
//     ErrInvalidOverrideForFormat: team formats are match-play scored by
//     definition, so a mode override there is a configuration mistake, not a
//     choice.
//   - An allowance override, when present, must still be a valid 5%-step
//     percentage; a round cannot override its way out of the WHS domain.
func Resolve(round RoundOverrides, competitionMode Mode) (Settings, error) {
	mode := competitionMode
	if round.Mode != nil {
		if round.Format != FormatSingles {
			return Settings{}, ErrInvalidOverrideForFormat
		}
		mode = *round.Mode
	}

	if round.Allowance != nil {
		allowance, err := NewAllowance(*round.Allowance)
		if err != nil {
			return Settings{}, err
		}
		return Settings{Mode: mode, Allowance: allowance}, nil
	}

	return Settings{Mode: mode, Allowance: defaultAllowance(round.Format, mode)}, nil
}
