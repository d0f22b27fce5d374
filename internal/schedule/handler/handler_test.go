package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks ContractStore,Invalidator

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tempo/internal/schedule/handler/mocks"
	"tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	"tempo/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	contracts   *mocks.MockContractStore
	invalidator *mocks.MockInvalidator
	router      chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.contracts = mocks.NewMockContractStore(ctrl)
	s.invalidator = mocks.NewMockInvalidator(ctrl)
	s.router = chi.NewRouter()
	New(s.contracts, s.invalidator, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TestAssignContract() {
	contractID := id.ContractID(uuid.New())
	employeeID := id.EmployeeID(uuid.New())
	path := "/attendance/contracts/" + contractID.String()

	s.Run("assign saves and invalidates the cache", func() {
		gomock.InOrder(
			s.contracts.EXPECT().SaveContract(gomock.Any(), models.Contract{ID: contractID, EmployeeID: &employeeID}).Return(nil),
			s.invalidator.EXPECT().Invalidate(gomock.Any(), contractID).Return(nil),
		)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path, map[string]string{"employee_id": employeeID.String()}))

		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("empty employee unassigns", func() {
		s.contracts.EXPECT().SaveContract(gomock.Any(), models.Contract{ID: contractID}).Return(nil)
		s.invalidator.EXPECT().Invalidate(gomock.Any(), contractID).Return(errors.New("redis down"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path, map[string]string{"employee_id": ""}))

		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("malformed employee id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path, map[string]string{"employee_id": "bob"}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("store failure", func() {
		s.contracts.EXPECT().SaveContract(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path, map[string]string{"employee_id": employeeID.String()}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}
