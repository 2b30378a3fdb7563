//go:build unit

// Package fake provides an in-memory UnitOfWork for exercising command flows
// without Postgres. Reads return reconstructed copies the way a real store
// would, and state is restored wholesale when the transaction function fails,
// so rollback-dependent assertions hold.
package fake

import (
	"context"
	"maps"
	"sync"
	"time"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/rating"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

type reservationRow struct {
	ID              uuid.UUID
	AccommodationID uuid.UUID
	MemberUID       string
	University      string
	Start, End      time.Time
	Status          string
	CancelledBy     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ratingRow struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	MemberUID     string
	Score         int
	Comment       string
	CreatedAt     time.Time
}

type Job struct {
	Topic     string
	Recipient string
	Payload   []byte
	RunAt     time.Time
}

type UoW struct {
	mu sync.Mutex

	members        map[string]shared.MemberSnapshot
	accommodations map[uuid.UUID]shared.AccommodationSnapshot
	reservations   map[uuid.UUID]reservationRow
	ratings        map[uuid.UUID]ratingRow
	jobs           []Job
}

func NewUoW() *UoW {
	return &UoW{
		members:        map[string]shared.MemberSnapshot{},
		accommodations: map[uuid.UUID]shared.AccommodationSnapshot{},
		reservations:   map[uuid.UUID]reservationRow{},
		ratings:        map[uuid.UUID]ratingRow{},
	}
}

// ---- seeding and inspection helpers ----

func (u *UoW) SeedMember(uid, name, university string) {
	u.members[uid] = shared.MemberSnapshot{UID: uid, Name: name, University: university}
}

func (u *UoW) SeedAccommodation(snap shared.AccommodationSnapshot) {
	u.accommodations[snap.ID] = snap
}

func (u *UoW) SeedReservation(res *reservation.Reservation) {
	u.reservations[res.ID()] = toRow(res)
}

func (u *UoW) HasMember(uid string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.members[uid]
	return ok
}

func (u *UoW) HasReservation(id uuid.UUID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.reservations[id]
	return ok
}

func (u *UoW) HasRating(id uuid.UUID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.ratings[id]
	return ok
}

func (u *UoW) ReservationStatus(id uuid.UUID) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reservations[id].Status
}

func (u *UoW) ReservationCancelledBy(id uuid.UUID) *string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reservations[id].CancelledBy
}

func (u *UoW) Jobs() []Job {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Job(nil), u.jobs...)
}

func (u *UoW) JobsForTopic(topic string) []Job {
	var out []Job
	for _, j := range u.Jobs() {
		if j.Topic == topic {
			out = append(out, j)
		}
	}
	return out
}

// ---- shared.UnitOfWork ----

func (u *UoW) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	backupReservations := maps.Clone(u.reservations)
	backupRatings := maps.Clone(u.ratings)
	backupMembers := maps.Clone(u.members)
	backupJobs := append([]Job(nil), u.jobs...)

	if err := fn(context.Background(), &fakeTx{u: u}); err != nil {
		u.reservations = backupReservations
		u.ratings = backupRatings
		u.members = backupMembers
		u.jobs = backupJobs
		return err
	}
	return nil
}

func (u *UoW) Reads() shared.CommandReads {
	return &fakeReads{u: u}
}

// ---- shared.Tx ----

type fakeTx struct {
	u *UoW
}

func (t *fakeTx) Reservations() shared.ReservationRepository {
	return &fakeReservations{u: t.u}
}

func (t *fakeTx) Ratings() shared.RatingRepository {
	return &fakeRatings{u: t.u}
}

func (t *fakeTx) Accommodations() shared.AccommodationRepository {
	return &fakeAccommodations{u: t.u}
}

func (t *fakeTx) Members() shared.MemberRepository {
	return &fakeMembers{u: t.u}
}

func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotifications{u: t.u}
}

func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{u: t.u} }
func (t *fakeTx) DB() db.DBTX                { return nil }

// ---- reservations ----

type fakeReservations struct {
	u *UoW
}

func (r *fakeReservations) Create(_ context.Context, res *reservation.Reservation) error {
	r.u.reservations[res.ID()] = toRow(res)
	return nil
}

func (r *fakeReservations) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return fromRow(row)
}

func (r *fakeReservations) FindActiveOverlapping(_ context.Context, accommodationID uuid.UUID, stay reservation.Stay, excludeID *uuid.UUID) (*uuid.UUID, error) {
	for id, row := range r.u.reservations {
		if row.AccommodationID != accommodationID {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if !reservation.Status(row.Status).IsActive() {
			continue
		}
		existing, err := reservation.NewStay(row.Start, row.End)
		if err != nil {
			return nil, err
		}
		if existing.Overlaps(stay) {
			conflict := id
			return &conflict, nil
		}
	}
	return nil, nil
}

func (r *fakeReservations) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.u.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	r.u.reservations[res.ID()] = toRow(res)
	return nil
}

// ---- ratings ----

type fakeRatings struct {
	u *UoW
}

func (r *fakeRatings) Create(_ context.Context, rt *rating.Rating) error {
	for _, row := range r.u.ratings {
		if row.ReservationID == rt.ReservationID() {
			return infra.WrapRepoErr("duplicate rating", nil, infra.KindDuplicateKey)
		}
	}
	r.u.ratings[rt.ID()] = ratingRow{
		ID:            rt.ID(),
		ReservationID: rt.ReservationID(),
		MemberUID:     rt.MemberUID(),
		Score:         rt.Score().Value(),
		Comment:       rt.Comment().String(),
		CreatedAt:     rt.CreatedAt(),
	}
	return nil
}

func (r *fakeRatings) ExistsForReservation(_ context.Context, reservationID uuid.UUID) (bool, error) {
	for _, row := range r.u.ratings {
		if row.ReservationID == reservationID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRatings) FindByID(_ context.Context, id uuid.UUID) (*shared.RatingSnapshot, error) {
	row, ok := r.u.ratings[id]
	if !ok {
		return nil, infra.WrapRepoErr("rating not found", nil, infra.KindNotFound)
	}
	var comment *string
	if row.Comment != "" {
		c := row.Comment
		comment = &c
	}
	return &shared.RatingSnapshot{
		ID:            row.ID,
		ReservationID: row.ReservationID,
		MemberUID:     row.MemberUID,
		Score:         row.Score,
		Comment:       comment,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func (r *fakeRatings) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.ratings[id]; !ok {
		return infra.WrapRepoErr("rating not found", nil, infra.KindNotFound)
	}
	delete(r.u.ratings, id)
	return nil
}

// ---- accommodations ----

type fakeAccommodations struct {
	u *UoW
}

func (a *fakeAccommodations) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*shared.AccommodationSnapshot, error) {
	snap, ok := a.u.accommodations[id]
	if !ok {
		return nil, infra.WrapRepoErr("accommodation not found", nil, infra.KindNotFound)
	}
	copySnap := snap
	return &copySnap, nil
}

// ---- members ----

type fakeMembers struct {
	u *UoW
}

func (m *fakeMembers) Create(_ context.Context, uid, name, university string) error {
	if _, ok := m.u.members[uid]; ok {
		return infra.WrapRepoErr("member already exists", nil, infra.KindDuplicateKey)
	}
	m.u.members[uid] = shared.MemberSnapshot{UID: uid, Name: name, University: university}
	return nil
}

func (m *fakeMembers) Delete(_ context.Context, uid string) error {
	if _, ok := m.u.members[uid]; !ok {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}
	delete(m.u.members, uid)
	// storage-level cascade
	for id, row := range m.u.reservations {
		if row.MemberUID == uid {
			for rid, rt := range m.u.ratings {
				if rt.ReservationID == id {
					delete(m.u.ratings, rid)
				}
			}
			delete(m.u.reservations, id)
		}
	}
	return nil
}

// ---- notifications ----

type fakeNotifications struct {
	u *UoW
}

func (n *fakeNotifications) CreateJob(_ context.Context, topic, recipient string, payload []byte, runAt time.Time) error {
	n.u.jobs = append(n.u.jobs, Job{Topic: topic, Recipient: recipient, Payload: payload, RunAt: runAt})
	return nil
}

// ---- command reads ----

type fakeReads struct {
	u *UoW
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	row, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return &shared.ReservationSnapshot{
		ID:              row.ID,
		AccommodationID: row.AccommodationID,
		MemberUID:       row.MemberUID,
		University:      row.University,
		StartDate:       row.Start,
		EndDate:         row.End,
		Status:          row.Status,
		CancelledBy:     row.CancelledBy,
	}, nil
}

func (r *fakeReads) AccommodationByID(ctx context.Context, id uuid.UUID) (*shared.AccommodationSnapshot, error) {
	return (&fakeAccommodations{u: r.u}).FindByIDForUpdate(ctx, id)
}

func (r *fakeReads) MemberByUID(_ context.Context, uid string) (*shared.MemberSnapshot, error) {
	snap, ok := r.u.members[uid]
	if !ok {
		return nil, infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}
	copySnap := snap
	return &copySnap, nil
}

// ---- row conversion ----

func toRow(res *reservation.Reservation) reservationRow {
	var cancelledBy *string
	if k := res.CancelledBy(); k != nil {
		s := string(*k)
		cancelledBy = &s
	}
	return reservationRow{
		ID:              res.ID(),
		AccommodationID: res.AccommodationID(),
		MemberUID:       res.MemberUID(),
		University:      res.University(),
		Start:           res.Stay().Start(),
		End:             res.Stay().End(),
		Status:          res.Status().String(),
		CancelledBy:     cancelledBy,
		CreatedAt:       res.CreatedAt(),
		UpdatedAt:       res.UpdatedAt(),
	}
}

func fromRow(row reservationRow) (*reservation.Reservation, error) {
	stay, err := reservation.NewStay(row.Start, row.End)
	if err != nil {
		return nil, err
	}
	var by *principal.Kind
	if row.CancelledBy != nil {
		k := principal.Kind(*row.CancelledBy)
		by = &k
	}
	return reservation.ReconstructReservation(
		row.ID, row.AccommodationID, row.MemberUID, row.University,
		stay, reservation.Status(row.Status), by, row.CreatedAt, row.UpdatedAt,
	), nil
}
