package repository

import (
	"context"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/shared"
)

type MemberRepository struct {
	db db.DBTX
}

func NewMemberRepository(dbtx db.DBTX) *MemberRepository {
	return &MemberRepository{db: dbtx}
}

func (r *MemberRepository) Create(ctx context.Context, uid, name, university string) error {
	const q = `
		INSERT INTO members (uid, name, university_code)
		VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, q, uid, name, university)
	if err != nil {
		return infra.WrapRepoErr("failed to create member", err, infra.ClassifyPgError(err))
	}
	return nil
}

// Delete removes the member row; owned reservations go with it via the
// storage-level cascade.
func (r *MemberRepository) Delete(ctx context.Context, uid string) error {
	const q = `DELETE FROM members WHERE uid = $1`

	tag, err := r.db.Exec(ctx, q, uid)
	if err != nil {
		return infra.WrapRepoErr("failed to delete member", err, infra.ClassifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *MemberRepository) FindByUID(ctx context.Context, uid string) (*shared.MemberSnapshot, error) {
	const q = `SELECT uid, name, university_code FROM members WHERE uid = $1`

	var snap shared.MemberSnapshot
	err := r.db.QueryRow(ctx, q, uid).Scan(&snap.UID, &snap.Name, &snap.University)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}
	return &snap, nil
}
