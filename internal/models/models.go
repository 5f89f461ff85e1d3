// Package models defines the data structures that map to database tables.
// GORM uses these structs to generate SQL and map rows back to Go values; the
// struct field tags tell it column types, constraints, and relationships.
//
// The data model represents a team golf competition platform:
//   - A Competition is a cup contested between two sides over several Rounds
//   - Players enroll in a Competition and wait for organizer approval
//   - Each Round is played on a Course in a given format and holds Matches
//   - A Match pits players from the two sides against each other; when tees
//     are assigned, each player's Playing Handicap is computed and snapshotted
//   - Scores are entered per hole, double-checked against the marker's card,
//     and rolled up into a MatchStanding
//
// The handicap and match-play arithmetic itself lives in internal/handicap
// and internal/matchplay; this package only stores its inputs and outputs.
package models

import (
	"time"

	// UUID primary keys: safe to generate client-side and they don't leak
	// row counts the way auto-increment integers do.
	"github.com/google/uuid"

	"github.com/openfairway/team-cup/internal/handicap"
)

// --- Enums ---
// Go has no enum keyword; a named string type plus constants gives type
// safety while keeping values readable in the database. The format and
// handicap-mode enums live in internal/handicap because the resolver is
// defined over them; they are re-used here as column types.

// UserRole is a user's global permission level across the platform.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"     // Full access: manage users and competitions
	UserRoleOrganizer UserRole = "organizer" // Can create and run competitions
	UserRolePlayer    UserRole = "player"    // Regular player: enrolls and records scores
)

// CompetitionStatus tracks the lifecycle of a competition.
type CompetitionStatus string

const (
	CompetitionStatusUpcoming  CompetitionStatus = "upcoming"
	CompetitionStatusActive    CompetitionStatus = "active"
	CompetitionStatusCompleted CompetitionStatus = "completed"
)

// EnrollmentStatus tracks a player's path into a competition.
// Enrollment is requested by the player and decided by an organizer.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"  // Requested, awaiting organizer decision
	EnrollmentStatusApproved EnrollmentStatus = "approved" // Organizer accepted; player may be drafted into matches
	EnrollmentStatusRejected EnrollmentStatus = "rejected" // Organizer declined
)

// TeamSide identifies which of the two sides of the cup a player is on.
type TeamSide string

const (
	TeamSideA TeamSide = "team_a"
	TeamSideB TeamSide = "team_b"
)

// RoundStatus is the round lifecycle. Transitions are forward-only and move
// one step at a time; the rules live in lifecycle.go in this package.
type RoundStatus string

const (
	RoundStatusPendingTeams   RoundStatus = "pending_teams"   // Created; sides not yet settled
	RoundStatusPendingMatches RoundStatus = "pending_matches" // Sides settled; matches being formed, tees assignable
	RoundStatusScheduled      RoundStatus = "scheduled"       // Matches formed; tees still assignable
	RoundStatusInProgress     RoundStatus = "in_progress"     // Play under way; scoring open
	RoundStatusCompleted      RoundStatus = "completed"       // Terminal; nothing changes after this
)

// SessionSlot says when in the day a round is played. Cup days usually have
// a morning and an afternoon session with different formats.
type SessionSlot string

const (
	SessionSlotMorning   SessionSlot = "morning"
	SessionSlotAfternoon SessionSlot = "afternoon"
)

// MatchStatus is the (reduced) match lifecycle. A match never goes backwards.
type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// --- Models ---
// Each struct maps to a table; GORM snake_cases and pluralizes the name.

// User is a registered person. Created lazily on first authenticated request,
// keyed to the identity provider by AuthID.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthID      *string   `gorm:"uniqueIndex:idx_users_auth_id"` // Identity provider's user ID; nullable for legacy rows
	DisplayName string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex;not null"`
	Role        UserRole  `gorm:"type:user_role;not null;default:'player'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Competition is the top-level cup: two sides, a set of rounds, and the
// competition-wide default handicap mode that rounds inherit unless they
// carry their own override.
type Competition struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string            `gorm:"not null"`
	Description *string           // Optional long-form description
	PlayMode    handicap.Mode     `gorm:"type:play_mode;not null;default:'match_play'"` // Default handicap mode for singles rounds
	Status      CompetitionStatus `gorm:"type:competition_status;not null;default:'upcoming'"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null"`
	Creator     User         `gorm:"foreignKey:CreatedBy"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Enrollments []Enrollment `gorm:"foreignKey:CompetitionID"`
	Rounds      []Round      `gorm:"foreignKey:CompetitionID"`
}

// Enrollment links a User to a Competition with an approval workflow.
// A player requests enrollment (status "pending"); an organizer approves or
// rejects it and assigns the side. The unique index keeps one enrollment per
// user per competition.
type Enrollment struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompetitionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_competition_user"`
	Competition   Competition      `gorm:"foreignKey:CompetitionID"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_competition_user"`
	User          User             `gorm:"foreignKey:UserID"`
	Status        EnrollmentStatus `gorm:"type:enrollment_status;not null;default:'pending'"`
	Side          *TeamSide        `gorm:"type:team_side"`    // Assigned on approval; nil while pending/rejected
	HandicapIndex *float64         `gorm:"type:decimal(4,1)"` // Current WHS index, kept up to date by the player
	DecidedBy     *uuid.UUID       `gorm:"type:uuid"`         // Organizer who approved/rejected; nil while pending
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Round is one session of the cup: a date, a slot, a format, and a course.
// HandicapMode and AllowanceOverride are the two optional per-round settings
// the resolver consumes — both nil means "inherit" (competition play mode and
// standard allowance table respectively). A HandicapMode override is only
// legal for singles rounds; the handlers reject it elsewhere before this row
// is ever written.
type Round struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompetitionID     uuid.UUID       `gorm:"type:uuid;not null"`
	Competition       Competition     `gorm:"foreignKey:CompetitionID"`
	CourseID          uuid.UUID       `gorm:"type:uuid;not null"`
	Course            Course          `gorm:"foreignKey:CourseID"`
	PlayedOn          time.Time       `gorm:"not null"`
	Slot              SessionSlot     `gorm:"type:session_slot;not null"`
	Format            handicap.Format `gorm:"type:match_format;not null"`
	HandicapMode      *handicap.Mode  `gorm:"type:play_mode"` // Singles-only override; nil = inherit from competition
	AllowanceOverride *int            // Override of the standard allowance table; nil = use the table
	Status            RoundStatus     `gorm:"type:round_status;not null;default:'pending_teams'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Matches           []Match `gorm:"foreignKey:RoundID"`
}

// Match is one pairing within a round: one or two players per side depending
// on the round's format. Its players (and their handicap snapshots) live in
// MatchPlayer rows.
type Match struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID   uuid.UUID   `gorm:"type:uuid;not null"`
	Round     Round       `gorm:"foreignKey:RoundID"`
	Status    MatchStatus `gorm:"type:match_status;not null;default:'scheduled'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Players   []MatchPlayer  `gorm:"foreignKey:MatchID"`
	Standing  *MatchStanding `gorm:"foreignKey:MatchID"`
}

// MatchPlayer puts an enrolled player into a match on one side and carries
// their Playing Handicap snapshot.
//
// PlayingHandicap is a fact, not a cache: it is computed exactly once when a
// tee is assigned, from the index/slope/rating/par/allowance in force at that
// moment, and it does NOT move if the player's handicap index later changes.
// The only path to a new value is the explicit tee-reassignment endpoint,
// which overwrites the snapshot as a deliberate act. IndexAtAssignment
// records the input the snapshot was computed from, for the audit trail.
type MatchPlayer struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_match_user"`
	Match             Match      `gorm:"foreignKey:MatchID"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_match_user"`
	User              User       `gorm:"foreignKey:UserID"`
	Side              TeamSide   `gorm:"type:team_side;not null"`
	TeeID             *uuid.UUID `gorm:"type:uuid"` // Assigned in the pending_matches/scheduled window
	Tee               *Tee       `gorm:"foreignKey:TeeID"`
	PlayingHandicap   *int       // Snapshot; nil until a tee is assigned
	IndexAtAssignment *float64   `gorm:"type:decimal(4,1)"`      // The handicap index the snapshot was computed from
	CardSubmitted     bool       `gorm:"not null;default:false"` // Set once all 18 holes pass the marker check
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HoleScore is the per-hole scoring record for one side of a match: the
// side's counting gross score, the handicap strokes received on the hole, and
// the resulting net. One row per match per hole per side.
//
// Verified flips to true once the dual scorecard check has passed for every
// player on this side of the match; from then on the row is immutable (the
// handlers refuse updates to verified rows).
type HoleScore struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_hole_side"`
	Match           Match     `gorm:"foreignKey:MatchID"`
	HoleNumber      int       `gorm:"not null;uniqueIndex:idx_match_hole_side"` // 1–18
	Side            TeamSide  `gorm:"type:team_side;not null;uniqueIndex:idx_match_hole_side"`
	Gross           int       `gorm:"not null"`
	StrokesReceived int       `gorm:"not null"`
	Net             int       `gorm:"not null"`
	Verified        bool      `gorm:"not null;default:false"`
	EnteredBy       uuid.UUID `gorm:"type:uuid;not null"`
	Enterer         User      `gorm:"foreignKey:EnteredBy"`
	EnteredAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// PlayerHoleEntry is a player's OWN record of their gross score on one hole —
// the "entered" half of the dual scorecard check. It is deliberately separate
// from HoleScore: HoleScore holds the side's counting score for match scoring,
// while this table holds what each individual wrote on their own card. In
// fourball the two diverge on every hole where the partner's ball counted.
// In foursomes the side plays one ball, so by convention both partners record
// the shared gross on their own card.
type PlayerHoleEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_entry_match_player_hole"`
	Match      Match     `gorm:"foreignKey:MatchID"`
	PlayerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_entry_match_player_hole"`
	Player     User      `gorm:"foreignKey:PlayerID"`
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_entry_match_player_hole"` // 1–18
	Gross      int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MarkerAnnotation is the marker's independent record of a player's gross
// score on one hole. Each player's own entries are compared against these
// before their card can be submitted; the two players' checks never touch
// each other's rows.
type MarkerAnnotation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_marker_match_player_hole"`
	Match      Match     `gorm:"foreignKey:MatchID"`
	PlayerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_marker_match_player_hole"` // Whose score is being attested
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_marker_match_player_hole"`
	Gross      int       `gorm:"not null"`
	MarkerID   uuid.UUID `gorm:"type:uuid;not null"` // Who recorded it
	Marker     User      `gorm:"foreignKey:MarkerID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MatchStanding is the stored result of the match-play calculator for a
// match: holes won per side, holes halved, and the formatted status line.
// TeamAWon + TeamBWon + Halved always equals HolesPlayed.
type MatchStanding struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	HolesPlayed int       `gorm:"not null"`
	TeamAWon    int       `gorm:"not null"`
	TeamBWon    int       `gorm:"not null"`
	Halved      int       `gorm:"not null"`
	Status      string    `gorm:"not null"` // e.g. "Team A leads 2UP", "All Square thru 14"
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Course is a golf course where rounds are played.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	Country   string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tees      []Tee `gorm:"foreignKey:CourseID"` // Each tee set has its own rating, slope, and par
}

// Tee is one set of tee boxes on a course (e.g. "Blue", "White"). Course
// rating, slope, and par are properties of the tee, not the course — they are
// the inputs to the Playing Handicap formula.
type Tee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null"`
	Course       Course    `gorm:"foreignKey:CourseID"`
	Name         string    `gorm:"not null"`
	CourseRating float64   `gorm:"type:decimal(4,1);not null"` // Expected scratch score from this tee
	SlopeRating  int       `gorm:"not null"`                   // 55–155; difficulty for bogey golfers vs scratch
	Par          int       `gorm:"not null"`
	Holes        []Hole    `gorm:"foreignKey:TeeID"`
}

// Hole stores per-hole details for a tee set. StrokeIndex is the fixed
// difficulty ranking (1 = hardest) that decides which holes receive handicap
// strokes first; it is unique 1..18 within a tee set.
type Hole struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tee_hole"`
	Tee         Tee       `gorm:"foreignKey:TeeID"`
	HoleNumber  int       `gorm:"not null;uniqueIndex:idx_tee_hole"` // 1–18
	Par         int       `gorm:"not null"`
	StrokeIndex int       `gorm:"not null"` // 1–18, unique within the tee set
	Yardage     *int      // Optional; not every course publishes yardages
}
