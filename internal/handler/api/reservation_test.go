//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"unihaven/internal/domain/reservation"
	"unihaven/internal/handler/api"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/commands"
	"unihaven/internal/usecase/queries"
	"unihaven/tests/common/httptest"
	commandsmock "unihaven/tests/mock/commands"
	queriesmock "unihaven/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	memberToken     = "hku:member:u1"
	specialistToken = "hku:specialist:7"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	handler := api.NewReservationHandler(s.mockCommands, s.mockQueries)

	// The real role middleware runs in these tests; token resolution is part
	// of the surface under test.
	role := middleware.NewRoleMiddleware()
	group := s.router.Group("/api/reservations")
	group.Use(role.RequireRole())
	group.POST("", handler.CreateReservation)
	group.GET("", handler.ListReservations)
	group.GET("/:id", handler.GetReservation)
	group.PATCH("/:id", handler.ChangeStatus)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func sampleView(id uuid.UUID) *queries.ReservationView {
	return &queries.ReservationView{
		ID:                   id,
		AccommodationID:      uuid.New(),
		AccommodationAddress: "12 Oil Street, North Point",
		MemberUID:            "u1",
		MemberName:           "Ada",
		University:           "hku",
		StartDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:               "pending",
		CreatedAt:            time.Now().UTC(),
		UpdatedAt:            time.Now().UTC(),
	}
}

func createBody() map[string]any {
	return map[string]any{
		"accommodation_id": uuid.New().String(),
		"start_date":       "2026-03-01",
		"end_date":         "2026-03-08",
	}
}

// ================================================================================
// POST /api/reservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate_Success() {
	id := uuid.New()
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.CreateReservationResult{ReservationID: id}, nil).Times(1)
	s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), id).
		Return(sampleView(id), nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), memberToken)

	var resp struct {
		ID        uuid.UUID `json:"id"`
		StartDate string    `json:"start_date"`
		Status    string    `json:"status"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
	s.Equal(id, resp.ID)
	s.Equal("2026-03-01", resp.StartDate)
	s.Equal("pending", resp.Status)
}

func (s *ReservationHandlerTestSuite) TestCreate_NoRoleToken() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), "")

	httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Role token required")
}

func (s *ReservationHandlerTestSuite) TestCreate_BadRoleTokens() {
	for _, token := range []string{
		"hku-member-u1", // wrong delimiter
		"hku:member",    // member without id
		"xx:guest:1",    // unknown role type
		":member:u1",    // empty university
	} {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Invalid role token")
	}
}

func (s *ReservationHandlerTestSuite) TestCreate_RoleTokenViaQueryParam() {
	id := uuid.New()
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&commands.CreateReservationResult{ReservationID: id}, nil).Times(1)
	s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), id).
		Return(sampleView(id), nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
		"/api/reservations?role=hku:member:u1", createBody(), "")

	s.Equal(http.StatusCreated, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCreate_BadDateFormat() {
	body := createBody()
	body["start_date"] = "03/01/2026"

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", body, memberToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "YYYY-MM-DD")
}

func (s *ReservationHandlerTestSuite) TestCreate_InvalidStayOrder() {
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, reservation.ErrInvalidStay).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), memberToken)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCreate_OverlapConflict() {
	conflictID := uuid.New()
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errs.Mark(errs.Newf("dates overlap reservation %s", conflictID), commands.ErrOverlapConflict)).
		Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), memberToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "overlap")
}

func (s *ReservationHandlerTestSuite) TestCreate_NotOffered() {
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, commands.ErrNotOffered).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), memberToken)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCreate_AccommodationNotFound() {
	s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, commands.ErrAccommodationNotFound).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", createBody(), memberToken)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCreate_MissingRequiredFields() {
	body := createBody()
	delete(body, "accommodation_id")

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/reservations", body, memberToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
}

// ================================================================================
// GET /api/reservations/:id
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGet_Success() {
	id := uuid.New()
	s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).
		Return(sampleView(id), nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+id.String(), nil, memberToken)

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal(id, resp.ID)
}

func (s *ReservationHandlerTestSuite) TestGet_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).
		Return(nil, queries.ErrReservationNotFound).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+id.String(), nil, memberToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Reservation not found")
}

func (s *ReservationHandlerTestSuite) TestGet_AccessDenied() {
	id := uuid.New()
	s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).
		Return(nil, queries.ErrAccessDenied).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+id.String(), nil, memberToken)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ReservationHandlerTestSuite) TestGet_BadID() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/not-a-uuid", nil, memberToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid reservation ID format")
}

// ================================================================================
// GET /api/reservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestList_Success() {
	views := []*queries.ReservationView{sampleView(uuid.New()), sampleView(uuid.New())}
	s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(views, nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations?status=pending", nil, specialistToken)

	var resp []map[string]any
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Len(resp, 2)
}

func (s *ReservationHandlerTestSuite) TestList_BadAccommodationFilter() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations?accommodation_id=nope", nil, specialistToken)

	s.Equal(http.StatusBadRequest, w.Code)
}

// ================================================================================
// PATCH /api/reservations/:id
// ================================================================================

func (s *ReservationHandlerTestSuite) TestChangeStatus_Success() {
	id := uuid.New()
	s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), gomock.Any(), id, reservation.StatusConfirmed).
		Return(nil).Times(1)
	confirmed := sampleView(id)
	confirmed.Status = "confirmed"
	s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), id).
		Return(confirmed, nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/reservations/"+id.String(),
		map[string]any{"status": "confirmed"}, specialistToken)

	var resp struct {
		Status string `json:"status"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal("confirmed", resp.Status)
}

func (s *ReservationHandlerTestSuite) TestChangeStatus_TerminalRejected() {
	id := uuid.New()
	s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), gomock.Any(), id, gomock.Any()).
		Return(errs.Mark(errs.Newf("cannot change status from '%s'", "cancelled"), reservation.ErrTerminalStatus)).
		Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/reservations/"+id.String(),
		map[string]any{"status": "confirmed"}, specialistToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "cannot change status from 'cancelled'")
}

func (s *ReservationHandlerTestSuite) TestChangeStatus_NotOwner() {
	id := uuid.New()
	s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), gomock.Any(), id, gomock.Any()).
		Return(reservation.ErrNotOwner).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/reservations/"+id.String(),
		map[string]any{"status": "cancelled"}, memberToken)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ReservationHandlerTestSuite) TestChangeStatus_MemberCannotConfirm() {
	id := uuid.New()
	s.mockCommands.EXPECT().ChangeStatus(gomock.Any(), gomock.Any(), id, gomock.Any()).
		Return(reservation.ErrMemberCannotConfirm).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/reservations/"+id.String(),
		map[string]any{"status": "confirmed"}, memberToken)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ReservationHandlerTestSuite) TestChangeStatus_MissingStatus() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/reservations/"+uuid.New().String(),
		map[string]any{}, specialistToken)

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
}
