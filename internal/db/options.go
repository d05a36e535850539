// ABOUTME: Shared construction options for the repositories.
// ABOUTME: Lets tests pin the clock, id generator, date layout and bcrypt cost.

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// DefaultDateLayout renders the short display date stored with each note.
const DefaultDateLayout = "Jan 2, 2006"

// Querier is the subset of *sql.DB the repositories need. *sql.Tx satisfies it too.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type options struct {
	now        func() time.Time
	newID      func() string
	dateLayout string
	location   *time.Location
	bcryptCost int
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// WithDateFormat sets the Go time layout and location used for Note.Date.
func WithDateFormat(layout string, loc *time.Location) Option {
	return func(o *options) {
		if layout != "" {
			o.dateLayout = layout
		}
		if loc != nil {
			o.location = loc
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

func buildOptions(defaultID func() string, opts []Option) options {
	o := options{
		now:        time.Now,
		newID:      defaultID,
		dateLayout: DefaultDateLayout,
		location:   time.Local,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newULID() string {
	return ulid.Make().String()
}

func newUUID() string {
	return uuid.New().String()
}
