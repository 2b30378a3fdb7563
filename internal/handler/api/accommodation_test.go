//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"unihaven/internal/handler/api"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/usecase/queries"
	"unihaven/tests/common/httptest"
	queriesmock "unihaven/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AccommodationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAccommodationQueries
}

func (s *AccommodationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAccommodationQueries(s.mockCtrl)
	handler := api.NewAccommodationHandler(s.mockQueries)

	// Browse endpoints are public; no role middleware on this group.
	group := s.router.Group("/api/accommodations")
	group.GET("", handler.ListAccommodations)
	group.GET("/:id", handler.GetAccommodation)
}

func (s *AccommodationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAccommodationHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccommodationHandlerTestSuite))
}

func accommodationView(id uuid.UUID) *queries.AccommodationView {
	return &queries.AccommodationView{
		ID:             id,
		Address:        "12 Oil Street, North Point",
		AvailableFrom:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		AvailableUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		DailyPrice:     480,
		Beds:           2,
		Bedrooms:       1,
		Universities:   []string{"hku", "cu"},
	}
}

func (s *AccommodationHandlerTestSuite) TestList_Success() {
	views := []*queries.AccommodationView{accommodationView(uuid.New())}
	s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(views, nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/accommodations", nil, "")

	var resp []map[string]any
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Len(resp, 1)
	s.Equal("12 Oil Street, North Point", resp[0]["address"])
}

func (s *AccommodationHandlerTestSuite) TestList_FiltersForwarded() {
	s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter queries.AccommodationFilter) ([]*queries.AccommodationView, error) {
			s.Require().NotNil(filter.University)
			s.Equal("hku", *filter.University)
			s.Require().NotNil(filter.AvailableFrom)
			s.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *filter.AvailableFrom)
			return nil, nil
		}).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
		"/api/accommodations?university=HKU&available_from=2026-09-01", nil, "")

	s.Equal(http.StatusOK, w.Code)
}

func (s *AccommodationHandlerTestSuite) TestList_BadDateFilter() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
		"/api/accommodations?available_from=September", nil, "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AccommodationHandlerTestSuite) TestGet_Success() {
	id := uuid.New()
	s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
		Return(accommodationView(id), nil).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/accommodations/"+id.String(), nil, "")

	var resp struct {
		ID           uuid.UUID `json:"id"`
		Universities []string  `json:"universities"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal(id, resp.ID)
	s.Equal([]string{"hku", "cu"}, resp.Universities)
}

func (s *AccommodationHandlerTestSuite) TestGet_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
		Return(nil, queries.ErrAccommodationNotFound).Times(1)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/accommodations/"+id.String(), nil, "")

	httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Accommodation not found")
}

func (s *AccommodationHandlerTestSuite) TestGet_BadID() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/accommodations/42", nil, "")

	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid accommodation ID format")
}
