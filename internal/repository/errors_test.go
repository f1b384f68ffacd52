package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil passes through", in: nil, want: nil},
		{
			name: "unique violation",
			in:   &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			want: ErrAlreadyExists,
		},
		{
			name: "foreign key violation",
			in:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			want: ErrConflict,
		},
		{
			name: "wrapped pg error",
			in:   fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}),
			want: ErrAlreadyExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPgError(tt.in))
		})
	}

	// unexpected codes and plain errors pass through unchanged
	plain := fmt.Errorf("connection reset")
	require.Equal(t, plain, MapPgError(plain))
	wrapped := fmt.Errorf("query: %w", &pgconn.PgError{Code: pgerrcode.SerializationFailure})
	require.Equal(t, wrapped, MapPgError(wrapped))
}
