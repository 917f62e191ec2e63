// Package exercise runs the training workflow: generating Java code with
// planted errors, checking the generation actually contains them, and
// moving student review attempts through grading, guidance, and the
// final report.
//
// The engine is persistence-free. Callers pass the state one step needs
// and store what comes back, so a session survives across CLI
// invocations.
package exercise

import (
	"errors"
	"math/rand"
	"time"

	"github.com/jpl-au/revdrill/internal/llm"
	"github.com/jpl-au/revdrill/internal/review"
	"github.com/jpl-au/revdrill/internal/taxonomy"
)

// Domains are the application settings generated programs are framed in.
// A generation without an explicit domain draws one at random.
var Domains = []string{
	"user_management",
	"file_processing",
	"data_validation",
	"calculation",
	"inventory_system",
	"notification_service",
	"logging",
	"banking",
	"e-commerce",
	"student_management",
}

const (
	// DefaultMaxAttempts caps implementation checks per generation.
	DefaultMaxAttempts = 3
	// DefaultMaxIterations caps review submissions per exercise.
	DefaultMaxIterations = 3
)

var (
	// ErrNoSelection is returned when error selection produces nothing to
	// plant, usually because every requested category is unknown.
	ErrNoSelection = errors.New("no errors selected for exercise")
	// ErrNoCode is returned when a generation completion carries no code.
	ErrNoCode = errors.New("no code in generation completion")
)

// Engine drives the workflow against a taxonomy catalog and the LLM
// roles behind it.
type Engine struct {
	catalog     *taxonomy.Catalog
	generator   llm.Client
	evaluator   llm.Client
	grader      *review.Grader
	rng         *rand.Rand
	maxAttempts int
}

// Options tunes an Engine.
type Options struct {
	// MaxAttempts caps implementation checks per generation. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int
	// Rand is the source for domain and error selection. Nil means a
	// time-seeded source; tests pass a fixed seed.
	Rand *rand.Rand
}

// New returns an Engine. generator writes code, evaluator checks it, and
// grader handles everything review-side.
func New(catalog *taxonomy.Catalog, generator, evaluator llm.Client, grader *review.Grader, opts Options) *Engine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		catalog:     catalog,
		generator:   generator,
		evaluator:   evaluator,
		grader:      grader,
		rng:         opts.Rand,
		maxAttempts: opts.MaxAttempts,
	}
}

// LevelDefaults maps a user level (basic, medium, senior) to the
// difficulty and length an exercise defaults to when neither flags nor
// configuration say otherwise.
func LevelDefaults(level string) (difficulty, length string) {
	switch level {
	case "senior":
		return "hard", "long"
	case "medium":
		return "medium", "medium"
	default:
		return "easy", "short"
	}
}
