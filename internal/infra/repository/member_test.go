//go:build unit

package repository_test

import (
	"context"
	"testing"

	"unihaven/internal/infra"
	"unihaven/internal/infra/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		stub := &stubDBTX{execTag: pgconn.NewCommandTag("INSERT 0 1")}
		repo := repository.NewMemberRepository(stub)

		require.NoError(t, repo.Create(ctx, "u9", "Kei", "hku"))
		assert.Equal(t, []any{"u9", "Kei", "hku"}, stub.lastArgs)
	})

	t.Run("duplicate uid maps to duplicate key", func(t *testing.T) {
		stub := &stubDBTX{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "members_pkey"}}
		repo := repository.NewMemberRepository(stub)

		err := repo.Create(ctx, "u1", "Ada", "hku")

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("unknown university maps to foreign key violation", func(t *testing.T) {
		stub := &stubDBTX{execErr: &pgconn.PgError{Code: "23503"}}
		repo := repository.NewMemberRepository(stub)

		err := repo.Create(ctx, "u9", "Kei", "nowhere")

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})
}

func TestMemberRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		stub := &stubDBTX{execTag: pgconn.NewCommandTag("DELETE 0")}
		repo := repository.NewMemberRepository(stub)

		err := repo.Delete(ctx, "ghost")

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestMemberRepository_FindByUID(t *testing.T) {
	t.Run("missing row maps to not found", func(t *testing.T) {
		stub := &stubDBTX{scan: func(...any) error { return pgx.ErrNoRows }}
		repo := repository.NewMemberRepository(stub)

		_, err := repo.FindByUID(context.Background(), "ghost")

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("found", func(t *testing.T) {
		stub := &stubDBTX{scan: func(dest ...any) error {
			*(dest[0].(*string)) = "u1"
			*(dest[1].(*string)) = "Ada"
			*(dest[2].(*string)) = "hku"
			return nil
		}}
		repo := repository.NewMemberRepository(stub)

		snap, err := repo.FindByUID(context.Background(), "u1")

		require.NoError(t, err)
		assert.Equal(t, "hku", snap.University)
	})
}
