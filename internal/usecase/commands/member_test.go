//go:build unit

package commands_test

import (
	"context"
	"testing"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/usecase/commands"
	"unihaven/tests/common/builder"
	"unihaven/tests/common/fake"

	"github.com/stretchr/testify/require"
)

func TestMemberCommands_Create(t *testing.T) {
	t.Parallel()

	t.Run("specialist creates member at own university", func(t *testing.T) {
		uow := fake.NewUoW()
		uc := commands.NewMemberCommands(uow)

		err := uc.Create(context.Background(), principal.NewSpecialist("hku", "7"), commands.CreateMemberRequest{UID: "u9", Name: "Mei"})

		require.NoError(t, err)
		require.True(t, uow.HasMember("u9"))
	})

	t.Run("member cannot create members", func(t *testing.T) {
		uow := fake.NewUoW()
		uc := commands.NewMemberCommands(uow)

		err := uc.Create(context.Background(), principal.NewMember("hku", "u1"), commands.CreateMemberRequest{UID: "u9", Name: "Mei"})

		require.ErrorIs(t, err, commands.ErrMemberSpecialistOnly)
	})

	t.Run("duplicate uid rejected", func(t *testing.T) {
		uow := fake.NewUoW()
		uow.SeedMember("u9", "Mei", "hku")
		uc := commands.NewMemberCommands(uow)

		err := uc.Create(context.Background(), principal.NewSpecialist("hku", "7"), commands.CreateMemberRequest{UID: "u9", Name: "Mei"})

		require.ErrorIs(t, err, commands.ErrMemberAlreadyExists)
	})
}

func TestMemberCommands_Delete(t *testing.T) {
	t.Parallel()

	t.Run("delete cascades to owned reservations", func(t *testing.T) {
		uow := fake.NewUoW()
		uow.SeedMember("u1", "Ada", "hku")
		res := builder.NewReservationBuilder().
			WithMember("u1", "hku").
			WithStatus(reservation.StatusConfirmed).
			Build()
		uow.SeedReservation(res)
		uc := commands.NewMemberCommands(uow)

		err := uc.Delete(context.Background(), principal.NewSpecialist("hku", "7"), "u1")

		require.NoError(t, err)
		require.False(t, uow.HasMember("u1"))
		require.False(t, uow.HasReservation(res.ID()))
	})

	t.Run("foreign specialist denied", func(t *testing.T) {
		uow := fake.NewUoW()
		uow.SeedMember("u1", "Ada", "hku")
		uc := commands.NewMemberCommands(uow)

		err := uc.Delete(context.Background(), principal.NewSpecialist("cu", ""), "u1")

		require.ErrorIs(t, err, commands.ErrMemberOtherUniversity)
		require.True(t, uow.HasMember("u1"))
	})

	t.Run("member cannot delete", func(t *testing.T) {
		uow := fake.NewUoW()
		uow.SeedMember("u1", "Ada", "hku")
		uc := commands.NewMemberCommands(uow)

		err := uc.Delete(context.Background(), principal.NewMember("hku", "u1"), "u1")

		require.ErrorIs(t, err, commands.ErrMemberSpecialistOnly)
	})

	t.Run("unknown member", func(t *testing.T) {
		uow := fake.NewUoW()
		uc := commands.NewMemberCommands(uow)

		err := uc.Delete(context.Background(), principal.NewSpecialist("hku", ""), "ghost")

		require.ErrorIs(t, err, commands.ErrMemberNotFound)
	})
}
