package commands

import (
	"context"

	"unihaven/internal/domain/principal"
	"unihaven/internal/infra"
	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/shared"
)

var (
	ErrMemberSpecialistOnly  = errs.New("only a specialist may manage members")
	ErrMemberAlreadyExists   = errs.New("member already exists")
	ErrMemberOtherUniversity = errs.New("member is managed by another university")
)

type CreateMemberRequest struct {
	UID  string
	Name string
}

type MemberCommands interface {
	Create(ctx context.Context, actor principal.Principal, req CreateMemberRequest) error
	// Delete is the one physical removal in the system; owned reservations
	// cascade per storage policy.
	Delete(ctx context.Context, actor principal.Principal, uid string) error
}

type memberCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewMemberCommands(uow shared.UnitOfWork) MemberCommands {
	return &memberCommandsImpl{uow: uow}
}

func (uc *memberCommandsImpl) Create(ctx context.Context, actor principal.Principal, req CreateMemberRequest) error {
	specialist, ok := actor.(principal.Specialist)
	if !ok {
		return ErrMemberSpecialistOnly
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Members are always created at the specialist's own university.
		err := tx.Members().Create(ctx, req.UID, req.Name, specialist.University())
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrMemberAlreadyExists
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *memberCommandsImpl) Delete(ctx context.Context, actor principal.Principal, uid string) error {
	specialist, ok := actor.(principal.Specialist)
	if !ok {
		return ErrMemberSpecialistOnly
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		member, err := tx.Reads().MemberByUID(ctx, uid)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrMemberNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if member.University != specialist.University() {
			return ErrMemberOtherUniversity
		}

		if err := tx.Members().Delete(ctx, uid); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
